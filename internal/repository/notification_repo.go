package repository

import (
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(notification *model.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser 获取用户的通知，未读在前、时间倒序
func (r *NotificationRepository) ListByUser(userID int64, limit int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("`read` ASC, created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead 标记指定通知为已读，ids 为空时标记全部
func (r *NotificationRepository) MarkRead(userID int64, ids []int64) error {
	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Update("read", true).Error
}

// CountUnread 未读通知数
func (r *NotificationRepository) CountUnread(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}
