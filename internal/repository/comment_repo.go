package repository

import (
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByCheckinID 获取某条打卡的全部评论（含一级和回复），按创建时间升序
func (r *CommentRepository) ListByCheckinID(checkinID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Where("checkin_id = ?", checkinID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ListByCheckinIDs 批量获取多条打卡的评论，回顾页聚合用
func (r *CommentRepository) ListByCheckinIDs(checkinIDs []int64) ([]*model.Comment, error) {
	if len(checkinIDs) == 0 {
		return nil, nil
	}

	var comments []*model.Comment
	err := r.db.Where("checkin_id IN ?", checkinIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// Delete 删除评论
func (r *CommentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Comment{}, id).Error
}

// DeleteByParentID 删除某一级评论下的全部回复
func (r *CommentRepository) DeleteByParentID(parentID int64) (int64, error) {
	result := r.db.Where("parent_id = ?", parentID).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}
