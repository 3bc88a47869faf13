package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ai798/checkin_go_server/internal/model"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetByDate 获取某日题目
func (r *QuestionRepository) GetByDate(date string) (*model.Question, error) {
	var question model.Question
	err := r.db.Where("date = ?", date).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// ListDates 获取所有有题目的日期，最近在前（历史回顾页导航用）
func (r *QuestionRepository) ListDates() ([]string, error) {
	var dates []string
	err := r.db.Model(&model.Question{}).
		Order("date DESC").
		Pluck("date", &dates).Error
	return dates, err
}

// Upsert 按日期插入或更新题目
func (r *QuestionRepository) Upsert(question *model.Question) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(question).Error
}
