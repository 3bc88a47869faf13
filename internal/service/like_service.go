package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var (
	ErrAlreadyLiked  = errors.New("已点赞")
	ErrInvalidTarget = errors.New("不支持的点赞目标")
	ErrTargetGone    = errors.New("点赞目标不存在")
)

type LikeService struct {
	likeRepo    *repository.LikeRepository
	checkinRepo *repository.CheckinRepository
	commentRepo *repository.CommentRepository
	notifyQueue *queue.Queue
	publisher   *pubsub.Publisher
}

// NewLikeService 创建点赞服务。notifyQueue 和 publisher 可为 nil（测试场景）。
func NewLikeService(
	likeRepo *repository.LikeRepository,
	checkinRepo *repository.CheckinRepository,
	commentRepo *repository.CommentRepository,
	notifyQueue *queue.Queue,
	publisher *pubsub.Publisher,
) *LikeService {
	return &LikeService{
		likeRepo:    likeRepo,
		checkinRepo: checkinRepo,
		commentRepo: commentRepo,
		notifyQueue: notifyQueue,
		publisher:   publisher,
	}
}

// likeTarget 点赞目标解析结果
type likeTarget struct {
	ownerID   int64 // 目标作者，通知接收者
	checkinID int64
	date      string
	commentID *int64
}

// Add 点赞。重复点赞返回 ErrAlreadyLiked，由唯一索引保证并发安全。
func (s *LikeService) Add(ctx context.Context, user *model.User, targetType string, targetID int64) error {
	target, err := s.resolveTarget(targetType, targetID)
	if err != nil {
		return err
	}

	like := &model.Like{
		TargetType: targetType,
		TargetID:   targetID,
		UserID:     user.ID,
		UserName:   user.Name,
	}
	if err := s.likeRepo.Create(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyLiked
		}
		return err
	}

	if target.ownerID != user.ID {
		s.enqueueNotify(ctx, &queue.NotifyMessage{
			RecipientID: target.ownerID,
			ActorID:     user.ID,
			ActorName:   user.Name,
			Kind:        model.NotifyKindLike,
			CheckinID:   target.checkinID,
			CommentID:   target.commentID,
		})
	}

	s.publishEvent(ctx, &pubsub.FeedEvent{
		Type:       pubsub.EventLikeChanged,
		Date:       target.date,
		CheckinID:  target.checkinID,
		TargetType: targetType,
		ActorID:    user.ID,
	})

	return nil
}

// Remove 取消点赞。记录不存在时同样返回成功（幂等）。
func (s *LikeService) Remove(ctx context.Context, userID int64, targetType string, targetID int64) error {
	if targetType != model.TargetCheckin && targetType != model.TargetComment {
		return ErrInvalidTarget
	}

	if err := s.likeRepo.Delete(targetType, targetID, userID); err != nil {
		return err
	}

	// 目标已被删除时跳过事件广播，取消动作本身仍视为成功
	target, err := s.resolveTarget(targetType, targetID)
	if err != nil {
		if errors.Is(err, ErrTargetGone) {
			return nil
		}
		return err
	}

	s.publishEvent(ctx, &pubsub.FeedEvent{
		Type:       pubsub.EventLikeChanged,
		Date:       target.date,
		CheckinID:  target.checkinID,
		TargetType: targetType,
		ActorID:    userID,
	})

	return nil
}

// CountsFor 批量查询同类型目标的点赞数。空输入直接返回空结果，不访问存储。
func (s *LikeService) CountsFor(targetType string, targetIDs []int64) (map[int64]int64, error) {
	return s.likeRepo.CountByTargetIDs(targetType, targetIDs)
}

// UserLikes 批量查询用户对同类型目标的点赞状态
func (s *LikeService) UserLikes(targetType string, targetIDs []int64, userID int64) (map[int64]bool, error) {
	return s.likeRepo.ListUserLikedIDs(targetType, targetIDs, userID)
}

// resolveTarget 校验目标存在并解析归属
func (s *LikeService) resolveTarget(targetType string, targetID int64) (*likeTarget, error) {
	switch targetType {
	case model.TargetCheckin:
		checkin, err := s.checkinRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetGone
			}
			return nil, err
		}
		return &likeTarget{
			ownerID:   checkin.UserID,
			checkinID: checkin.ID,
			date:      checkin.Date,
		}, nil

	case model.TargetComment:
		comment, err := s.commentRepo.GetByID(targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetGone
			}
			return nil, err
		}
		checkin, err := s.checkinRepo.GetByID(comment.CheckinID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTargetGone
			}
			return nil, err
		}
		commentID := comment.ID
		return &likeTarget{
			ownerID:   comment.UserID,
			checkinID: checkin.ID,
			date:      checkin.Date,
			commentID: &commentID,
		}, nil

	default:
		return nil, ErrInvalidTarget
	}
}

func (s *LikeService) enqueueNotify(ctx context.Context, msg *queue.NotifyMessage) {
	if s.notifyQueue == nil {
		return
	}
	if err := s.notifyQueue.Push(ctx, msg); err != nil {
		log.Printf("Failed to enqueue notify message: %v", err)
	}
}

func (s *LikeService) publishEvent(ctx context.Context, event *pubsub.FeedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFeedEvent(ctx, event); err != nil {
		log.Printf("Failed to publish feed event: %v", err)
	}
}
