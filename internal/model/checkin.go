package model

import (
	"time"
)

type Checkin struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uk_checkins_user_date,priority:1;index" json:"user_id"`
	UserName  string    `gorm:"size:50;not null" json:"user_name"`
	UserPhone string    `gorm:"size:20" json:"user_phone"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:uk_checkins_user_date,priority:2;index" json:"date"` // YYYY-MM-DD（北京时间）
	Answer    string    `gorm:"type:text" json:"answer"`    // JSON: {insight, confusion, plan}
	ImageURL  string    `gorm:"type:text" json:"image_url"` // JSON: {insight: [...], confusion: [...]}
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Checkin) TableName() string {
	return "checkins"
}
