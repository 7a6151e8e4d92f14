package mysql

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToBookSummary_NullNormalization(t *testing.T) {
	// 全NULL行:除ID/Title外所有可空列缺失
	row := &bookRow{ID: 1, Title: "孤本"}
	s := toBookSummary(row)

	assert.Equal(t, uint(1), s.ID)
	assert.Equal(t, "孤本", s.Title)
	assert.Equal(t, int64(0), s.RegularPrice)
	assert.Equal(t, int64(0), s.SalePrice)
	assert.False(t, s.IsSale)
	assert.True(t, s.PublishDate.IsZero())
	assert.Equal(t, "", s.ThumbnailPath)
	assert.Equal(t, "Unknown", s.PublisherName)
	assert.Equal(t, "", s.Authors)
	assert.Equal(t, "", s.CategoryIDs)
	assert.Equal(t, int64(0), s.ViewCount)
	assert.Equal(t, int64(0), s.ReviewCount)
	// 零评价:AVG为NULL → 0.0,而不是把0分当成真实均分以外的值
	assert.Equal(t, 0.0, s.AverageRating)
	assert.Nil(t, s.Liked)
}

func TestToBookSummary_ValuedRow(t *testing.T) {
	publishDate := time.Date(2022, 11, 1, 0, 0, 0, 0, time.UTC)
	row := &bookRow{
		ID:            9,
		Title:         "测试驱动开发",
		RegularPrice:  sql.NullInt64{Int64: 5900, Valid: true},
		SalePrice:     sql.NullInt64{Int64: 4720, Valid: true},
		IsSale:        sql.NullBool{Bool: true, Valid: true},
		PublishDate:   sql.NullTime{Time: publishDate, Valid: true},
		ThumbnailPath: sql.NullString{String: "/covers/9.jpg", Valid: true},
		PublisherName: sql.NullString{String: "机械工业出版社", Valid: true},
		AuthorNames:   sql.NullString{String: "Kent Beck", Valid: true},
		CategoryIDs:   sql.NullString{String: "2, 7", Valid: true},
		ViewCount:     sql.NullInt64{Int64: 1200, Valid: true},
		ReviewCount:   sql.NullInt64{Int64: 87, Valid: true},
		AverageRating: sql.NullFloat64{Float64: 4.6, Valid: true},
	}

	s := toBookSummary(row)
	assert.Equal(t, int64(5900), s.RegularPrice)
	assert.Equal(t, int64(4720), s.SalePrice)
	assert.True(t, s.IsSale)
	assert.Equal(t, publishDate, s.PublishDate)
	assert.Equal(t, "机械工业出版社", s.PublisherName)
	assert.Equal(t, "Kent Beck", s.Authors)
	assert.Equal(t, "2, 7", s.CategoryIDs)
	assert.Equal(t, 4.6, s.AverageRating)
}

func TestToBookMetrics(t *testing.T) {
	m := toBookMetrics(
		sql.NullInt64{Int64: 15, Valid: true},
		sql.NullFloat64{},
		sql.NullInt64{Int64: 300, Valid: true},
	)
	assert.Equal(t, int64(15), m.ReviewCount)
	assert.Equal(t, 0.0, m.AverageRating)
	assert.Equal(t, int64(300), m.ViewCount)
}
