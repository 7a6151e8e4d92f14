package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// categoryRepository 分类邻接关系仓储(MySQL)
// 只提供CategoryResolver逐层展开需要的两个读操作,
// 分类本身的增删改由目录服务负责
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) catalog.CategoryRepository {
	return &categoryRepository{db: db}
}

// Exists 分类是否存在
func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询分类失败")
	}
	return count > 0, nil
}

// ChildIDs 一批父分类的全部直接子分类ID
func (r *categoryRepository) ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&CategoryModel{}).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询子分类失败")
	}
	return ids, nil
}
