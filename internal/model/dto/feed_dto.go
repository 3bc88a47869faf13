package dto

// ReactionState 单个目标的点赞状态
type ReactionState struct {
	Count     int64 `json:"count"`
	LikedByMe bool  `json:"liked_by_me"`
}

// CheckinView 打卡回顾页单卡片的完整视图：
// 打卡内容 + 评论树 + 打卡与每条评论的点赞状态。
type CheckinView struct {
	Checkin          *CheckinItem             `json:"checkin"`
	Comments         *CommentThread           `json:"comments"`
	Reaction         *ReactionState           `json:"reaction"`
	CommentReactions map[int64]*ReactionState `json:"comment_reactions"`
}

// FeedResponse 按日期聚合的打卡流
type FeedResponse struct {
	Date  string         `json:"date"`
	Items []*CheckinView `json:"items"`
}
