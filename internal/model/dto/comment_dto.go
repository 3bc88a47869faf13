package dto

// CreateCommentRequest 创建评论请求。ParentID 非空表示回复。
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,min=1,max=500"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// CommentItem 评论项。一级评论的回复按折叠策略拆成两组：
// Replies 为展示组，HiddenReplies 为折叠组，ReplyCount 是回复总数。
type CommentItem struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id"`
	UserName      string         `json:"user_name"`
	ParentID      *int64         `json:"parent_id,omitempty"`
	Content       string         `json:"content"`
	Replies       []*CommentItem `json:"replies,omitempty"`
	HiddenReplies []*CommentItem `json:"hidden_replies,omitempty"`
	ReplyCount    int            `json:"reply_count"`
	CreatedAt     string         `json:"created_at"`
}

// CommentThread 某条打卡的完整评论区。
// Total 按一级评论数 + 全部回复数计算，不受折叠影响。
type CommentThread struct {
	Items []*CommentItem `json:"items"`
	Total int            `json:"total"`
}
