package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ai798/checkin_go_server/internal/model"
)

type CheckinRepository struct {
	db *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

// Upsert 提交打卡，同一用户同一天重复提交时覆盖内容
func (r *CheckinRepository) Upsert(checkin *model.Checkin) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_name", "user_phone", "answer", "image_url", "updated_at"}),
	}).Create(checkin).Error
}

func (r *CheckinRepository) GetByID(id int64) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.db.Where("id = ?", id).First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

// GetByUserAndDate 查询用户某日的打卡记录
func (r *CheckinRepository) GetByUserAndDate(userID int64, date string) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

// ListByDate 获取某日的全部打卡记录，最新提交在前
func (r *CheckinRepository) ListByDate(date string) ([]*model.Checkin, error) {
	var checkins []*model.Checkin
	err := r.db.Where("date = ?", date).
		Order("created_at DESC").
		Find(&checkins).Error
	return checkins, err
}

// ListByDateWithKeyword 按日期获取打卡并按姓名/手机号过滤（管理员用）
func (r *CheckinRepository) ListByDateWithKeyword(date, keyword string) ([]*model.Checkin, error) {
	query := r.db.Where("date = ?", date)
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("user_name LIKE ? OR user_phone LIKE ?", pattern, pattern)
	}

	var checkins []*model.Checkin
	err := query.Order("created_at DESC").Find(&checkins).Error
	return checkins, err
}

// ListByUser 获取用户的打卡历史，最近在前
func (r *CheckinRepository) ListByUser(userID int64) ([]*model.Checkin, error) {
	var checkins []*model.Checkin
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&checkins).Error
	return checkins, err
}

// CountByUser 获取用户累计打卡天数
func (r *CheckinRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Checkin{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListImageURLs 取出所有打卡的 image_url 原始 JSON（cleanup 工具用）
func (r *CheckinRepository) ListImageURLs() ([]string, error) {
	var urls []string
	err := r.db.Model(&model.Checkin{}).
		Where("image_url <> ''").
		Pluck("image_url", &urls).Error
	return urls, err
}
