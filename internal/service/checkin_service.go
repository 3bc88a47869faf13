package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/pkg/pubsub"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var (
	ErrCheckinNotFound = errors.New("打卡记录不存在")
	ErrEmptyCheckin    = errors.New("打卡内容不能为空")
)

// 业务上的"今天"按北京时间算，与服务器时区无关
var beijingLoc = time.FixedZone("CST", 8*3600)

// TodayDate 北京时间今天的日期（YYYY-MM-DD）
func TodayDate() string {
	return time.Now().In(beijingLoc).Format("2006-01-02")
}

func formatTime(t time.Time) string {
	return t.In(beijingLoc).Format("2006-01-02 15:04:05")
}

type CheckinService struct {
	checkinRepo *repository.CheckinRepository
	publisher   *pubsub.Publisher
}

// NewCheckinService 创建打卡服务。publisher 可为 nil（测试场景）。
func NewCheckinService(checkinRepo *repository.CheckinRepository, publisher *pubsub.Publisher) *CheckinService {
	return &CheckinService{
		checkinRepo: checkinRepo,
		publisher:   publisher,
	}
}

// Submit 提交今日打卡。同一用户当天重复提交时覆盖旧内容。
func (s *CheckinService) Submit(ctx context.Context, user *model.User, req *dto.SubmitCheckinRequest) (*dto.CheckinItem, error) {
	answer := &dto.AnswerData{
		Insight:   strings.TrimSpace(req.Insight),
		Confusion: strings.TrimSpace(req.Confusion),
		Plan:      strings.TrimSpace(req.Plan),
	}
	images := &dto.ImageData{
		Insight:   req.InsightImages,
		Confusion: req.ConfusionImages,
	}

	if answer.Insight == "" && answer.Confusion == "" && answer.Plan == "" &&
		len(images.Insight) == 0 && len(images.Confusion) == 0 {
		return nil, ErrEmptyCheckin
	}

	answerJSON, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}

	date := TodayDate()
	checkin := &model.Checkin{
		UserID:    user.ID,
		UserName:  user.Name,
		UserPhone: user.Phone,
		Date:      date,
		Answer:    string(answerJSON),
		ImageURL:  string(imagesJSON),
	}
	if err := s.checkinRepo.Upsert(checkin); err != nil {
		return nil, err
	}

	// Upsert 命中更新分支时拿不到已有记录的主键，重查一次
	saved, err := s.checkinRepo.GetByUserAndDate(user.ID, date)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, &pubsub.FeedEvent{
		Type:      pubsub.EventCheckinSubmitted,
		Date:      date,
		CheckinID: saved.ID,
		ActorID:   user.ID,
		ActorName: user.Name,
	})

	return toCheckinItem(saved, false), nil
}

// Today 查询当前用户今日打卡状态
func (s *CheckinService) Today(userID int64) (*dto.TodayCheckinResponse, error) {
	date := TodayDate()
	checkin, err := s.checkinRepo.GetByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.TodayCheckinResponse{Date: date, CheckedIn: false}, nil
		}
		return nil, err
	}

	return &dto.TodayCheckinResponse{
		Date:      date,
		CheckedIn: true,
		Checkin:   toCheckinItem(checkin, false),
	}, nil
}

// Count 当前用户累计打卡天数
func (s *CheckinService) Count(userID int64) (*dto.CheckinCountResponse, error) {
	count, err := s.checkinRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	return &dto.CheckinCountResponse{Days: count}, nil
}

// Mine 当前用户的打卡历史
func (s *CheckinService) Mine(userID int64) ([]*dto.CheckinItem, error) {
	checkins, err := s.checkinRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CheckinItem, 0, len(checkins))
	for _, c := range checkins {
		items = append(items, toCheckinItem(c, false))
	}
	return items, nil
}

// ListByDate 管理员按日期（可选关键词）检索打卡，返回含手机号
func (s *CheckinService) ListByDate(date, keyword string) ([]*dto.CheckinItem, error) {
	checkins, err := s.checkinRepo.ListByDateWithKeyword(date, keyword)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CheckinItem, 0, len(checkins))
	for _, c := range checkins {
		items = append(items, toCheckinItem(c, true))
	}
	return items, nil
}

func (s *CheckinService) publishEvent(ctx context.Context, event *pubsub.FeedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishFeedEvent(ctx, event); err != nil {
		log.Printf("Failed to publish feed event: %v", err)
	}
}

// toCheckinItem 转换打卡记录，兼容历史数据格式
func toCheckinItem(c *model.Checkin, includePhone bool) *dto.CheckinItem {
	item := &dto.CheckinItem{
		ID:        c.ID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Date:      c.Date,
		Answer:    parseAnswer(c.Answer),
		Images:    parseImages(c.ImageURL),
		CreatedAt: formatTime(c.CreatedAt),
	}
	if includePhone {
		item.UserPhone = c.UserPhone
	}
	return item
}

// parseAnswer 解析打卡文字内容。早期数据是纯文本，统一归到 insight 板块。
func parseAnswer(raw string) *dto.AnswerData {
	answer := &dto.AnswerData{}
	if raw == "" {
		return answer
	}
	if err := json.Unmarshal([]byte(raw), answer); err != nil {
		answer.Insight = raw
	}
	return answer
}

// parseImages 解析打卡图片。早期数据有两种格式：裸数组，或分号拼接的 URL 串，
// 统一归到 insight 板块。
func parseImages(raw string) *dto.ImageData {
	images := &dto.ImageData{}
	if raw == "" {
		return images
	}
	if err := json.Unmarshal([]byte(raw), images); err != nil {
		var legacy []string
		if err := json.Unmarshal([]byte(raw), &legacy); err == nil {
			images.Insight = legacy
			return images
		}
		for _, u := range strings.Split(raw, ";") {
			if u = strings.TrimSpace(u); u != "" {
				images.Insight = append(images.Insight, u)
			}
		}
	}
	return images
}
