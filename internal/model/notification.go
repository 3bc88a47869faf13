package model

import (
	"time"
)

const (
	NotifyKindComment = "comment"
	NotifyKindReply   = "reply"
	NotifyKindLike    = "like"
)

type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"` // 接收者
	ActorID   int64     `gorm:"not null" json:"actor_id"`
	ActorName string    `gorm:"size:50" json:"actor_name"`
	Kind      string    `gorm:"size:20;not null" json:"kind"` // comment, reply, like
	CheckinID int64     `gorm:"not null" json:"checkin_id"`
	CommentID *int64    `json:"comment_id,omitempty"`
	Read      bool      `gorm:"default:false;index" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
