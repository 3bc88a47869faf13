package model

import (
	"time"
)

// Comment 评论。ParentID 非空时恒指向一级评论（二级评论不能再有子级），
// 写入路径负责把对二级评论的回复拍平到其一级祖先上。
type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CheckinID int64     `gorm:"not null;index" json:"checkin_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	UserName  string    `gorm:"size:50;not null" json:"user_name"`
	ParentID  *int64    `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
