package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/repository"
)

// FeedService 回顾页聚合：某日全部打卡 + 各自的评论树和点赞状态。
// 点赞数和点赞关系分别只发一次跨类型的批量查询，不随卡片数增长。
type FeedService struct {
	checkinRepo *repository.CheckinRepository
	commentRepo *repository.CommentRepository
	likeRepo    *repository.LikeRepository
}

func NewFeedService(
	checkinRepo *repository.CheckinRepository,
	commentRepo *repository.CommentRepository,
	likeRepo *repository.LikeRepository,
) *FeedService {
	return &FeedService{
		checkinRepo: checkinRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
	}
}

// ListByDate 某日回顾页。viewerID 为 0 时不标注"我赞过"。
func (s *FeedService) ListByDate(date string, viewerID int64) (*dto.FeedResponse, error) {
	checkins, err := s.checkinRepo.ListByDate(date)
	if err != nil {
		return nil, err
	}

	items, err := s.assemble(checkins, viewerID)
	if err != nil {
		return nil, err
	}

	return &dto.FeedResponse{Date: date, Items: items}, nil
}

// BuildView 单条打卡的完整视图（收到增量事件后前端刷新单卡片用）
func (s *FeedService) BuildView(checkinID, viewerID int64) (*dto.CheckinView, error) {
	checkin, err := s.checkinRepo.GetByID(checkinID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckinNotFound
		}
		return nil, err
	}

	items, err := s.assemble([]*model.Checkin{checkin}, viewerID)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (s *FeedService) assemble(checkins []*model.Checkin, viewerID int64) ([]*dto.CheckinView, error) {
	items := make([]*dto.CheckinView, 0, len(checkins))
	if len(checkins) == 0 {
		return items, nil
	}

	checkinIDs := make([]int64, 0, len(checkins))
	for _, c := range checkins {
		checkinIDs = append(checkinIDs, c.ID)
	}

	comments, err := s.commentRepo.ListByCheckinIDs(checkinIDs)
	if err != nil {
		return nil, err
	}
	byCheckin := make(map[int64][]*model.Comment)
	for _, c := range comments {
		byCheckin[c.CheckinID] = append(byCheckin[c.CheckinID], c)
	}

	// 打卡和评论合并成一个目标集，点赞数和点赞关系各查一次
	targets := make([]model.Target, 0, len(checkinIDs)+len(comments))
	for _, id := range checkinIDs {
		targets = append(targets, model.Target{Type: model.TargetCheckin, ID: id})
	}
	for _, c := range comments {
		targets = append(targets, model.Target{Type: model.TargetComment, ID: c.ID})
	}

	counts, err := s.likeRepo.CountByTargets(targets)
	if err != nil {
		return nil, err
	}

	liked := map[model.Target]bool{}
	if viewerID > 0 {
		liked, err = s.likeRepo.ListUserLikedTargets(targets, viewerID)
		if err != nil {
			return nil, err
		}
	}

	for _, checkin := range checkins {
		checkinTarget := model.Target{Type: model.TargetCheckin, ID: checkin.ID}

		commentReactions := make(map[int64]*dto.ReactionState)
		for _, c := range byCheckin[checkin.ID] {
			target := model.Target{Type: model.TargetComment, ID: c.ID}
			commentReactions[c.ID] = &dto.ReactionState{
				Count:     counts[target],
				LikedByMe: liked[target],
			}
		}

		items = append(items, &dto.CheckinView{
			Checkin:  toCheckinItem(checkin, false),
			Comments: BuildThread(byCheckin[checkin.ID]),
			Reaction: &dto.ReactionState{
				Count:     counts[checkinTarget],
				LikedByMe: liked[checkinTarget],
			},
			CommentReactions: commentReactions,
		})
	}

	return items, nil
}
