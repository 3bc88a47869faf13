package repository

import (
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create 创建点赞记录。重复点赞由唯一索引拦截，
// 上层通过 gorm.ErrDuplicatedKey 区分。
func (r *LikeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

// Delete 取消点赞。删除不存在的记录不算错误（幂等）。
func (r *LikeRepository) Delete(targetType string, targetID, userID int64) error {
	return r.db.Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
		Delete(&model.Like{}).Error
}

// Exists 检查用户是否已点赞
func (r *LikeRepository) Exists(targetType string, targetID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id = ? AND user_id = ?", targetType, targetID, userID).
		Count(&count).Error
	return count > 0, err
}

type targetCount struct {
	TargetType string
	TargetID   int64
	Count      int64
}

// CountByTargetIDs 批量统计同类型目标的点赞数，单次查询按 target_id 分组。
// 没有点赞的目标不会出现在结果里。
func (r *LikeRepository) CountByTargetIDs(targetType string, targetIDs []int64) (map[int64]int64, error) {
	if len(targetIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []targetCount
	err := r.db.Model(&model.Like{}).
		Select("target_id, COUNT(*) AS count").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.TargetID] = row.Count
	}
	return counts, nil
}

// ListUserLikedIDs 批量查询用户在同类型目标集合中点过赞的 ID。
// 未登录（userID 为 0）同样直接返回空结果。
func (r *LikeRepository) ListUserLikedIDs(targetType string, targetIDs []int64, userID int64) (map[int64]bool, error) {
	if len(targetIDs) == 0 || userID == 0 {
		return map[int64]bool{}, nil
	}

	var ids []int64
	err := r.db.Model(&model.Like{}).
		Where("target_type = ? AND target_id IN ? AND user_id = ?", targetType, targetIDs, userID).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}

	liked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CountByTargets 跨类型批量统计点赞数，一次查询覆盖打卡和评论两类目标。
// Feed 聚合要求对合并后的目标集只发一次统计请求。
func (r *LikeRepository) CountByTargets(targets []model.Target) (map[model.Target]int64, error) {
	if len(targets) == 0 {
		return map[model.Target]int64{}, nil
	}

	query := r.db.Model(&model.Like{}).
		Select("target_type, target_id, COUNT(*) AS count").
		Where(r.targetsCondition(targets)).
		Group("target_type, target_id")

	var rows []targetCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.Target]int64, len(rows))
	for _, row := range rows {
		counts[model.Target{Type: row.TargetType, ID: row.TargetID}] = row.Count
	}
	return counts, nil
}

// ListUserLikedTargets 跨类型批量查询用户的点赞状态，单次查询
func (r *LikeRepository) ListUserLikedTargets(targets []model.Target, userID int64) (map[model.Target]bool, error) {
	if len(targets) == 0 || userID == 0 {
		return map[model.Target]bool{}, nil
	}

	var rows []model.Like
	err := r.db.
		Where("user_id = ?", userID).
		Where(r.targetsCondition(targets)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	liked := make(map[model.Target]bool, len(rows))
	for _, row := range rows {
		liked[model.Target{Type: row.TargetType, ID: row.TargetID}] = true
	}
	return liked, nil
}

// targetsCondition 把目标集合按类型归并成 (type, id IN ...) 的 OR 条件
func (r *LikeRepository) targetsCondition(targets []model.Target) *gorm.DB {
	idsByType := make(map[string][]int64)
	for _, t := range targets {
		idsByType[t.Type] = append(idsByType[t.Type], t.ID)
	}

	var cond *gorm.DB
	for targetType, ids := range idsByType {
		clause := r.db.Where("target_type = ? AND target_id IN ?", targetType, ids)
		if cond == nil {
			cond = clause
		} else {
			cond = cond.Or(clause)
		}
	}
	return cond
}
