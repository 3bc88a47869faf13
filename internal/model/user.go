package model

import (
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;not null" json:"name"`
	Phone        string    `gorm:"size:20;uniqueIndex;not null" json:"phone"`
	Email        *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	WechatOpenID *string   `gorm:"column:wechat_openid;size:100;uniqueIndex" json:"-"`
	AvatarURL    string    `gorm:"size:500" json:"avatar_url"`
	Role         string    `gorm:"size:20;default:member" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
