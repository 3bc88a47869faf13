package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/pkg/queue"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var (
	ErrCommentNotFound    = errors.New("评论不存在")
	ErrEmptyContent       = errors.New("评论内容不能为空")
	ErrParentNotFound     = errors.New("父评论不存在")
	ErrParentNotInCheckin = errors.New("父评论不属于该打卡")
	ErrNotCommentAuthor   = errors.New("只能删除自己的评论")
)

// 回复折叠策略：超过 collapseThreshold 条时只展示最新 visibleTail 条
const (
	collapseThreshold = 3
	visibleTail       = 2
)

// 通知里的评论内容摘要长度
const previewRunes = 50

type CommentService struct {
	commentRepo *repository.CommentRepository
	checkinRepo *repository.CheckinRepository
	notifyQueue *queue.Queue
	publisher   *pubsub.Publisher
}

// NewCommentService 创建评论服务。notifyQueue 和 publisher 可为 nil（测试场景）。
func NewCommentService(
	commentRepo *repository.CommentRepository,
	checkinRepo *repository.CheckinRepository,
	notifyQueue *queue.Queue,
	publisher *pubsub.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		checkinRepo: checkinRepo,
		notifyQueue: notifyQueue,
		publisher:   publisher,
	}
}

// Create 创建评论或回复。
// 对二级评论（回复）的回复会被拍平：parent_id 指向其一级祖先，
// 评论树因此恒为两层。通知仍发给被直接回复的作者。
func (s *CommentService) Create(ctx context.Context, user *model.User, checkinID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	checkin, err := s.checkinRepo.GetByID(checkinID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckinNotFound
		}
		return nil, err
	}

	// 默认通知打卡作者，有父评论时通知被回复的作者
	recipientID := checkin.UserID
	kind := model.NotifyKindComment

	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.CheckinID != checkinID {
			return nil, ErrParentNotInCheckin
		}

		recipientID = parent.UserID
		kind = model.NotifyKindReply

		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	comment := &model.Comment{
		CheckinID: checkinID,
		UserID:    user.ID,
		UserName:  user.Name,
		ParentID:  parentID,
		Content:   content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	if recipientID != user.ID {
		commentID := comment.ID
		s.enqueueNotify(ctx, &queue.NotifyMessage{
			RecipientID: recipientID,
			ActorID:     user.ID,
			ActorName:   user.Name,
			Kind:        kind,
			CheckinID:   checkinID,
			CommentID:   &commentID,
			Preview:     preview(content),
		})
	}

	s.publishEvent(ctx, &pubsub.FeedEvent{
		Type:      pubsub.EventCommentCreated,
		Date:      checkin.Date,
		CheckinID: checkinID,
		CommentID: comment.ID,
		ActorID:   user.ID,
		ActorName: user.Name,
	})

	return toCommentItem(comment), nil
}

// Delete 删除自己的评论。删除一级评论时级联删除其全部回复。
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}

	if comment.ParentID == nil {
		if _, err := s.commentRepo.DeleteByParentID(comment.ID); err != nil {
			return err
		}
	}
	if err := s.commentRepo.Delete(comment.ID); err != nil {
		return err
	}

	if checkin, err := s.checkinRepo.GetByID(comment.CheckinID); err == nil {
		s.publishEvent(ctx, &pubsub.FeedEvent{
			Type:      pubsub.EventCommentDeleted,
			Date:      checkin.Date,
			CheckinID: comment.CheckinID,
			CommentID: comment.ID,
			ActorID:   userID,
		})
	}

	return nil
}

// ThreadFor 获取某条打卡的评论区
func (s *CommentService) ThreadFor(checkinID int64) (*dto.CommentThread, error) {
	comments, err := s.commentRepo.ListByCheckinID(checkinID)
	if err != nil {
		return nil, err
	}
	return BuildThread(comments), nil
}

// BuildThread 把按时间升序的评论列表组装成两层评论树。
//   - 回复挂到 parent_id 对应的一级评论下，父评论已不存在的回复
//     （孤儿）不展示，但计入 Total；
//   - 一级评论回复超过 collapseThreshold 条时折叠，只保留最新
//     visibleTail 条在 Replies，其余进 HiddenReplies。
func BuildThread(comments []*model.Comment) *dto.CommentThread {
	items := make([]*dto.CommentItem, 0)
	index := make(map[int64]*dto.CommentItem)
	var replies []*model.Comment

	for _, c := range comments {
		if c.ParentID == nil {
			item := toCommentItem(c)
			index[c.ID] = item
			items = append(items, item)
		} else {
			replies = append(replies, c)
		}
	}

	total := len(items)
	for _, c := range replies {
		total++
		parent, ok := index[*c.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, toCommentItem(c))
	}

	for _, item := range items {
		item.ReplyCount = len(item.Replies)
		if item.ReplyCount > collapseThreshold {
			cut := item.ReplyCount - visibleTail
			item.HiddenReplies = item.Replies[:cut]
			item.Replies = item.Replies[cut:]
		}
	}

	return &dto.CommentThread{Items: items, Total: total}
}

func (s *CommentService) enqueueNotify(ctx context.Context, msg *queue.NotifyMessage) {
	if s.notifyQueue == nil {
		return
	}
	if err := s.notifyQueue.Push(ctx, msg); err != nil {
		log.Printf("Failed to enqueue notify message: %v", err)
	}
}

func (s *CommentService) publishEvent(ctx context.Context, event *pubsub.FeedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFeedEvent(ctx, event); err != nil {
		log.Printf("Failed to publish feed event: %v", err)
	}
}

func toCommentItem(c *model.Comment) *dto.CommentItem {
	return &dto.CommentItem{
		ID:        c.ID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}
