package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Name:  fmt.Sprintf("测试用户%d", time.Now().UnixNano()%10000),
		Phone: fmt.Sprintf("138%08d", time.Now().UnixNano()%100000000),
		Role:  model.RoleMember,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithName 设置用户名
func WithName(name string) func(*model.User) {
	return func(u *model.User) {
		u.Name = name
	}
}

// WithPhone 设置手机号
func WithPhone(phone string) func(*model.User) {
	return func(u *model.User) {
		u.Phone = phone
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// TestCheckin 创建测试打卡
func TestCheckin(t *testing.T, db *gorm.DB, user *model.User, opts ...func(*model.Checkin)) *model.Checkin {
	t.Helper()

	checkin := &model.Checkin{
		UserID:    user.ID,
		UserName:  user.Name,
		UserPhone: user.Phone,
		Date:      time.Now().Format("2006-01-02"),
		Answer:    `{"insight":"今天学到了新东西","confusion":"","plan":""}`,
		ImageURL:  `{"insight":[],"confusion":[]}`,
	}

	for _, opt := range opts {
		opt(checkin)
	}

	if err := db.Create(checkin).Error; err != nil {
		t.Fatalf("Failed to create test checkin: %v", err)
	}

	return checkin
}

// WithDate 设置打卡日期
func WithDate(date string) func(*model.Checkin) {
	return func(c *model.Checkin) {
		c.Date = date
	}
}

// WithAnswer 设置打卡内容原始 JSON
func WithAnswer(answer string) func(*model.Checkin) {
	return func(c *model.Checkin) {
		c.Answer = answer
	}
}

// TestComment 创建测试评论（一级）
func TestComment(t *testing.T, db *gorm.DB, user *model.User, checkinID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		CheckinID: checkinID,
		UserID:    user.ID,
		UserName:  user.Name,
		Content:   content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, user *model.User, checkinID, parentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		CheckinID: checkinID,
		UserID:    user.ID,
		UserName:  user.Name,
		ParentID:  &parentID,
		Content:   content,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestLike 创建测试点赞
func TestLike(t *testing.T, db *gorm.DB, user *model.User, targetType string, targetID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     user.ID,
		UserName:   user.Name,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}

// TestQuestion 创建测试题目
func TestQuestion(t *testing.T, db *gorm.DB, date, title string) *model.Question {
	t.Helper()

	question := &model.Question{
		Date:  date,
		Title: title,
	}

	if err := db.Create(question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return question
}
