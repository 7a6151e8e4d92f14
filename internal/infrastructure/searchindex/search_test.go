package searchindex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func testDoc(id uint, title string, opts func(*BookDocument)) *BookDocument {
	doc := &BookDocument{
		ID:           id,
		Title:        title,
		Active:       true,
		RegularPrice: 3500,
		SalePrice:    2800,
		IsSale:       true,
		Publisher:    "测试出版社",
	}
	doc.SetPublishDate(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC))
	if opts != nil {
		opts(doc)
	}
	return doc
}

func TestNewIndex(t *testing.T) {
	idx := setupTestIndex(t)

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndex_IndexBooks(t *testing.T) {
	idx := setupTestIndex(t)

	docs := []*BookDocument{
		testDoc(1, "Go程序设计语言", nil),
		testDoc(2, "算法导论", nil),
		testDoc(3, "深入理解计算机系统", nil),
	}
	require.NoError(t, idx.IndexBooks(docs))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestIndex_DeleteBook(t *testing.T) {
	idx := setupTestIndex(t)

	require.NoError(t, idx.IndexBook(testDoc(7, "待删除", nil)))
	require.NoError(t, idx.DeleteBook("7"))

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearcher_SearchField_Title(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "The Hobbit", func(d *BookDocument) { d.Authors = []string{"J.R.R. Tolkien"} }),
		testDoc(2, "The Lord of the Rings", func(d *BookDocument) { d.Authors = []string{"J.R.R. Tolkien"} }),
		testDoc(3, "Harry Potter", func(d *BookDocument) { d.Authors = []string{"J.K. Rowling"} }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchField(context.Background(), catalog.FilterTitle, "hobbit", 0, 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, uint(1), res.Hits[0].Summary.ID)
	assert.Equal(t, "The Hobbit", res.Hits[0].Summary.Title)
	assert.Equal(t, int64(1), res.Total)
	// 存储字段完整取回
	assert.Equal(t, "J.R.R. Tolkien", res.Hits[0].Summary.Authors)
	assert.Equal(t, int64(3500), res.Hits[0].Summary.RegularPrice)
	assert.True(t, res.Hits[0].Summary.IsSale)
}

func TestSearcher_SearchField_Author(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "The Hobbit", func(d *BookDocument) { d.Authors = []string{"J.R.R. Tolkien"} }),
		testDoc(2, "Harry Potter", func(d *BookDocument) { d.Authors = []string{"J.K. Rowling"} }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchField(context.Background(), catalog.FilterAuthor, "rowling", 0, 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, uint(2), res.Hits[0].Summary.ID)
}

func TestSearcher_SearchField_CategoryTerm(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "图书甲", func(d *BookDocument) { d.CategoryIDs = []string{"5", "12"} }),
		testDoc(2, "图书乙", func(d *BookDocument) { d.CategoryIDs = []string{"12"} }),
		testDoc(3, "图书丙", func(d *BookDocument) { d.CategoryIDs = []string{"9"} }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchField(context.Background(), catalog.FilterCategory, "12", 0, 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 2)
	assert.Equal(t, int64(2), res.Total)
}

func TestSearcher_SearchField_InvalidKind(t *testing.T) {
	idx := setupTestIndex(t)

	s := NewSearcher(idx, 0, 0)
	_, err := s.SearchField(context.Background(), catalog.FilterIDs, "1", 0, 10)
	assert.ErrorIs(t, err, catalog.ErrInvalidQuery)
}

func TestSearcher_InactiveExcluded(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "Kubernetes实战", nil),
		testDoc(2, "Kubernetes权威指南", func(d *BookDocument) { d.Active = false }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchField(context.Background(), catalog.FilterTitle, "kubernetes", 0, 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, uint(1), res.Hits[0].Summary.ID)
	assert.Equal(t, int64(1), res.Total)
}

func TestSearcher_KeywordTitleOutranksTag(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "Distributed Systems", func(d *BookDocument) { d.Tags = []string{"classic"} }),
		testDoc(2, "Database Internals", func(d *BookDocument) { d.Tags = []string{"distributed"} }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchKeyword(context.Background(), "distributed", 0, 10)
	require.NoError(t, err)

	// 书名命中权重高于标签命中
	require.Len(t, res.Hits, 2)
	assert.Equal(t, uint(1), res.Hits[0].Summary.ID)
	assert.Equal(t, uint(2), res.Hits[1].Summary.ID)
	assert.GreaterOrEqual(t, res.Hits[0].Score, res.Hits[1].Score)
}

func TestSearcher_ScoreOrderNonIncreasing(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "Go Web编程", func(d *BookDocument) { d.Tags = []string{"go"} }),
		testDoc(2, "Go语言圣经", func(d *BookDocument) { d.CategoryNames = []string{"Go"} }),
		testDoc(3, "Rust程序设计", func(d *BookDocument) { d.Tags = []string{"go"} }),
	}))

	s := NewSearcher(idx, 0, 0)
	res, err := s.SearchKeyword(context.Background(), "go", 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)

	for i := 1; i < len(res.Hits); i++ {
		assert.GreaterOrEqual(t, res.Hits[i-1].Score, res.Hits[i].Score)
	}
}

func TestSearcher_MinScoreDropsWeakHits(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.IndexBooks([]*BookDocument{
		testDoc(1, "Microservices Patterns", nil),
		testDoc(2, "Monolith to Microservices", func(d *BookDocument) { d.Title = "系统演化"; d.Tags = []string{"microservices"} }),
	}))

	// 先不设阈值取得两条命中的真实得分
	unfiltered := NewSearcher(idx, 0, 0)
	base, err := unfiltered.SearchKeyword(context.Background(), "microservices", 0, 10)
	require.NoError(t, err)
	require.Len(t, base.Hits, 2)
	require.Greater(t, base.Hits[0].Score, base.Hits[1].Score)

	// 阈值卡在两条得分之间,弱命中被归零剔除,总数按同一口径收缩
	threshold := (base.Hits[0].Score + base.Hits[1].Score) / 2
	s := NewSearcher(idx, threshold, 0)
	res, err := s.SearchKeyword(context.Background(), "microservices", 0, 10)
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, base.Hits[0].Summary.ID, res.Hits[0].Summary.ID)
	assert.Equal(t, int64(1), res.Total)
}

func TestSearcher_TotalConsistentAcrossPages(t *testing.T) {
	idx := setupTestIndex(t)
	docs := []*BookDocument{
		testDoc(1, "Spring实战", nil),
		testDoc(2, "Spring微服务实战", nil),
		testDoc(3, "Spring源码深度解析", nil),
	}
	require.NoError(t, idx.IndexBooks(docs))

	s := NewSearcher(idx, 0, 0)

	page0, err := s.SearchField(context.Background(), catalog.FilterTitle, "spring", 0, 2)
	require.NoError(t, err)
	page1, err := s.SearchField(context.Background(), catalog.FilterTitle, "spring", 1, 2)
	require.NoError(t, err)

	assert.Len(t, page0.Hits, 2)
	assert.Len(t, page1.Hits, 1)
	// 各页报告的总数一致,且等于实际可翻到的内容条数
	assert.Equal(t, int64(3), page0.Total)
	assert.Equal(t, int64(3), page1.Total)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 25.0, clampScore(25.0, 20))
	assert.Equal(t, 20.0, clampScore(20.0, 20))
	assert.Equal(t, 0.0, clampScore(19.9, 20))
}
