package model

import (
	"time"
)

const (
	TargetCheckin = "checkin"
	TargetComment = "comment"
)

// Like 点赞记录。(target_type, target_id, user_id) 唯一，
// 重复插入由数据库唯一约束拦截。
type Like struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	TargetType string    `gorm:"size:20;not null;uniqueIndex:uk_likes_target_user,priority:1" json:"target_type"`
	TargetID   int64     `gorm:"not null;uniqueIndex:uk_likes_target_user,priority:2" json:"target_id"`
	UserID     int64     `gorm:"not null;uniqueIndex:uk_likes_target_user,priority:3;index" json:"user_id"`
	UserName   string    `gorm:"size:50" json:"user_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// Target 点赞目标，(类型, ID) 二元组
type Target struct {
	Type string
	ID   int64
}
