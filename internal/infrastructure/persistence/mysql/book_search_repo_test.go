package mysql

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

func TestPrevMonthWindow(t *testing.T) {
	// 月中
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	start, end := prevMonthWindow(now)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), end) // 闰年2月

	// 1月→跨年到去年12月
	now = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	start, end = prevMonthWindow(now)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), end)

	// 月初第一秒
	now = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	start, end = prevMonthWindow(now)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 4, 30, 23, 59, 59, 0, time.UTC), end)
}

func TestOrderExpr(t *testing.T) {
	// 普通列排序追加books.id ASC稳定分页
	expr := orderExpr(catalog.SortSpec{Field: catalog.SortSalePrice, Desc: true})
	assert.Equal(t, "books.sale_price DESC, books.id ASC", expr)

	expr = orderExpr(catalog.SortSpec{Field: catalog.SortTitle})
	assert.Equal(t, "books.title ASC, books.id ASC", expr)

	// 统计类排序直接复用相关子查询表达式
	expr = orderExpr(catalog.SortSpec{Field: catalog.SortReviewRating, Desc: true})
	assert.Equal(t, avgRatingExpr+" DESC, books.id ASC", expr)

	expr = orderExpr(catalog.SortSpec{Field: catalog.SortLikeCount, Desc: true})
	assert.Equal(t, likeCountExpr+" DESC, books.id ASC", expr)

	// id排序本身就是主键,无需次级键
	expr = orderExpr(catalog.SortSpec{Field: catalog.SortID})
	assert.Equal(t, "books.id ASC", expr)
	expr = orderExpr(catalog.SortSpec{Field: catalog.SortID, Desc: true})
	assert.Equal(t, "books.id DESC", expr)
}

func TestSplitConcat(t *testing.T) {
	assert.Nil(t, splitConcat(sql.NullString{}))
	assert.Nil(t, splitConcat(sql.NullString{String: "", Valid: true}))
	assert.Equal(t,
		[]string{"刘慈欣", "王晋康"},
		splitConcat(sql.NullString{String: "刘慈欣" + indexJoinSep + "王晋康", Valid: true}))
}
