package dto

// NotificationItem 通知项
type NotificationItem struct {
	ID        int64  `json:"id"`
	Kind      string `json:"kind"`
	ActorName string `json:"actor_name"`
	CheckinID int64  `json:"checkin_id"`
	CommentID *int64 `json:"comment_id,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// MarkReadRequest 标记已读请求。IDs 为空表示全部标记。
type MarkReadRequest struct {
	IDs []int64 `json:"ids"`
}
