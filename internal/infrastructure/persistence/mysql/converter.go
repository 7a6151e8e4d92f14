package mysql

import (
	"database/sql"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

// unknownPublisher 出版社join缺失时的占位名
const unknownPublisher = "Unknown"

// bookRow 内容查询的平铺行
// 设计说明:
// 1. 按列名(别名)映射,不依赖列的位置顺序
// 2. 可能为NULL的列一律用sql.Null*接住:
//    - publisher join缺失 → publisher_name为NULL
//    - 零评价 → average_rating为NULL(AVG的语义)
//    - 无作者/分类关联 → GROUP_CONCAT为NULL
type bookRow struct {
	ID            uint
	Title         string
	RegularPrice  sql.NullInt64
	SalePrice     sql.NullInt64
	IsSale        sql.NullBool
	PublishDate   sql.NullTime
	ThumbnailPath sql.NullString
	PublisherName sql.NullString
	AuthorNames   sql.NullString
	CategoryIDs   sql.NullString
	ViewCount     sql.NullInt64
	ReviewCount   sql.NullInt64
	AverageRating sql.NullFloat64
}

// toBookSummary 平铺行 → 领域摘要
// 这里是空值归一的唯一边界:
// 价格缺失→0、促销标记缺失→false、出版社缺失→"Unknown"、
// 作者/分类串缺失→""、统计缺失→0/0.0。
// 上游各层不做防御性归一,下游拿到的永远是规整值
func toBookSummary(row *bookRow) catalog.BookSummary {
	s := catalog.BookSummary{
		ID:            row.ID,
		Title:         row.Title,
		PublisherName: unknownPublisher,
	}

	if row.RegularPrice.Valid {
		s.RegularPrice = row.RegularPrice.Int64
	}
	if row.SalePrice.Valid {
		s.SalePrice = row.SalePrice.Int64
	}
	if row.IsSale.Valid {
		s.IsSale = row.IsSale.Bool
	}
	if row.PublishDate.Valid {
		s.PublishDate = row.PublishDate.Time
	}
	if row.ThumbnailPath.Valid {
		s.ThumbnailPath = row.ThumbnailPath.String
	}
	if row.PublisherName.Valid {
		s.PublisherName = row.PublisherName.String
	}
	if row.AuthorNames.Valid {
		s.Authors = row.AuthorNames.String
	}
	if row.CategoryIDs.Valid {
		s.CategoryIDs = row.CategoryIDs.String
	}
	if row.ViewCount.Valid {
		s.ViewCount = row.ViewCount.Int64
	}
	if row.ReviewCount.Valid {
		s.ReviewCount = row.ReviewCount.Int64
	}
	if row.AverageRating.Valid {
		s.AverageRating = row.AverageRating.Float64
	}

	return s
}

// toBookMetrics 指标行 → 领域指标
// 索引流水线的投影边界,与toBookSummary同一归一原则
func toBookMetrics(reviewCount sql.NullInt64, avgRating sql.NullFloat64, viewCount sql.NullInt64) catalog.BookMetrics {
	var m catalog.BookMetrics
	if reviewCount.Valid {
		m.ReviewCount = reviewCount.Int64
	}
	if avgRating.Valid {
		m.AverageRating = avgRating.Float64
	}
	if viewCount.Valid {
		m.ViewCount = viewCount.Int64
	}
	return m
}
