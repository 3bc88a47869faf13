package model

import (
	"time"
)

type Question struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Date      string    `gorm:"size:10;uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
