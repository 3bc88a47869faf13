package service

import (
	"context"
	"log"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/email"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
	"github.com/ai798/checkin_go_server/internal/repository"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	emailService     *email.Service
	publisher        *pubsub.Publisher
}

// NewNotificationService 创建通知服务。
// emailService 和 publisher 均可为 nil（未配置 SMTP / 不需要实时推送时）。
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	publisher *pubsub.Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		publisher:        publisher,
	}
}

// List 当前用户的通知列表
func (s *NotificationService) List(userID int64) ([]*dto.NotificationItem, error) {
	notifications, err := s.notificationRepo.ListByUser(userID, defaultNotificationLimit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, &dto.NotificationItem{
			ID:        n.ID,
			Kind:      n.Kind,
			ActorName: n.ActorName,
			CheckinID: n.CheckinID,
			CommentID: n.CommentID,
			Read:      n.Read,
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	return items, nil
}

// MarkRead 标记已读，ids 为空表示全部
func (s *NotificationService) MarkRead(userID int64, ids []int64) error {
	return s.notificationRepo.MarkRead(userID, ids)
}

// UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(userID int64) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// HandleMessage 消费一条通知任务：落库，发布定向事件供在线推送，
// 配置了邮箱的接收者再补发邮件提醒。worker 进程调用。
func (s *NotificationService) HandleMessage(ctx context.Context, msg *queue.NotifyMessage) error {
	// 自己给自己的动作不产生通知
	if msg.RecipientID == msg.ActorID {
		return nil
	}

	notification := &model.Notification{
		UserID:    msg.RecipientID,
		ActorID:   msg.ActorID,
		ActorName: msg.ActorName,
		Kind:      msg.Kind,
		CheckinID: msg.CheckinID,
		CommentID: msg.CommentID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	if s.publisher != nil {
		event := &pubsub.NotifyEvent{
			RecipientID: msg.RecipientID,
			Kind:        msg.Kind,
			ActorName:   msg.ActorName,
			CheckinID:   msg.CheckinID,
			CommentID:   msg.CommentID,
		}
		if err := s.publisher.PublishNotifyEvent(ctx, event); err != nil {
			log.Printf("Failed to publish notify event for user %d: %v", msg.RecipientID, err)
		}
	}

	if s.emailService == nil || !s.emailService.Enabled() {
		return nil
	}
	if msg.Kind != model.NotifyKindComment && msg.Kind != model.NotifyKindReply {
		return nil
	}

	recipient, err := s.userRepo.GetByID(msg.RecipientID)
	if err != nil || recipient.Email == nil {
		return nil
	}

	if err := s.emailService.SendCommentNotification(*recipient.Email, msg.ActorName, msg.Kind, msg.Preview); err != nil {
		log.Printf("Failed to send notification email to user %d: %v", msg.RecipientID, err)
	}
	return nil
}
