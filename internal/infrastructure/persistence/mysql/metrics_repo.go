package mysql

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// metricsRepository 批量指标仓储(MySQL)
// 索引流水线的Result Enricher用:索引副本里的统计值可能滞后,
// 展示前用canonical store按整页图书ID一次性重算
type metricsRepository struct {
	db *gorm.DB
}

// NewMetricsRepository 创建指标仓储
func NewMetricsRepository(db *gorm.DB) catalog.MetricsRepository {
	return &metricsRepository{db: db}
}

// metricRow 指标查询的平铺行
type metricRow struct {
	ID            uint
	ReviewCount   sql.NullInt64
	AverageRating sql.NullFloat64
	ViewCount     sql.NullInt64
}

// MetricsByIDs 一次查询取回一批图书的评价数/均分/浏览数
// 与内容查询复用同一组相关子查询表达式,保证口径一致
func (r *metricsRepository) MetricsByIDs(ctx context.Context, ids []uint) (map[uint]catalog.BookMetrics, error) {
	if len(ids) == 0 {
		return map[uint]catalog.BookMetrics{}, nil
	}

	var rows []metricRow
	err := r.db.WithContext(ctx).
		Table("books").
		Select("books.id, "+
			reviewCountExpr+" AS review_count, "+
			avgRatingExpr+" AS average_rating, "+
			viewCountExpr+" AS view_count").
		Where("books.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询图书指标失败")
	}

	metrics := make(map[uint]catalog.BookMetrics, len(rows))
	for _, row := range rows {
		metrics[row.ID] = toBookMetrics(row.ReviewCount, row.AverageRating, row.ViewCount)
	}
	return metrics, nil
}
