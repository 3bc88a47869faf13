package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/model/dto"
	"github.com/ai798/checkin_go_server/internal/repository"
)

var ErrQuestionNotFound = errors.New("题目不存在")

type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Today 获取今日题目
func (s *QuestionService) Today() (*dto.QuestionItem, error) {
	return s.ByDate(TodayDate())
}

// ByDate 获取指定日期的题目
func (s *QuestionService) ByDate(date string) (*dto.QuestionItem, error) {
	question, err := s.questionRepo.GetByDate(date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return toQuestionItem(question), nil
}

// Dates 有题目的日期列表（历史回顾页导航）
func (s *QuestionService) Dates() ([]string, error) {
	return s.questionRepo.ListDates()
}

// Upsert 管理员设置某日题目
func (s *QuestionService) Upsert(req *dto.UpsertQuestionRequest) (*dto.QuestionItem, error) {
	question := &model.Question{
		Date:    req.Date,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.questionRepo.Upsert(question); err != nil {
		return nil, err
	}

	saved, err := s.questionRepo.GetByDate(req.Date)
	if err != nil {
		return nil, err
	}
	return toQuestionItem(saved), nil
}

func toQuestionItem(q *model.Question) *dto.QuestionItem {
	return &dto.QuestionItem{
		ID:      q.ID,
		Date:    q.Date,
		Title:   q.Title,
		Content: q.Content,
	}
}
