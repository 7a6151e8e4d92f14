package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/searchindex"
)

type fakeSearcher struct {
	result    *searchindex.Result
	err       error
	lastKind  catalog.FilterKind
	lastValue string
}

func (f *fakeSearcher) SearchField(_ context.Context, kind catalog.FilterKind, value string, _, _ int) (*searchindex.Result, error) {
	f.lastKind = kind
	f.lastValue = value
	return f.result, f.err
}

func (f *fakeSearcher) SearchKeyword(_ context.Context, keyword string, _, _ int) (*searchindex.Result, error) {
	f.lastKind = catalog.FilterKeyword
	f.lastValue = keyword
	return f.result, f.err
}

type fakeMetricsRepo struct {
	stats map[uint]catalog.BookMetrics
	err   error
}

func (f *fakeMetricsRepo) MetricsByIDs(_ context.Context, _ []uint) (map[uint]catalog.BookMetrics, error) {
	return f.stats, f.err
}

type fakeLikeStore struct {
	liked      map[uint]bool
	err        error
	lastUserID uint
	calls      int
}

func (f *fakeLikeStore) AreLiked(_ context.Context, userID uint, _ []uint) (map[uint]bool, error) {
	f.lastUserID = userID
	f.calls++
	return f.liked, f.err
}

func indexResult(ids ...uint) *searchindex.Result {
	res := &searchindex.Result{Total: int64(len(ids))}
	for i, id := range ids {
		res.Hits = append(res.Hits, searchindex.Hit{
			Summary: catalog.BookSummary{
				ID: id,
				// 索引副本里的统计值是过期的,应被覆盖
				ReviewCount:   999,
				AverageRating: 1.0,
				ViewCount:     999,
			},
			Score: float64(100 - i),
		})
	}
	return res
}

func TestIndexBackend_MetricsOverrideIndexCopy(t *testing.T) {
	searcher := &fakeSearcher{result: indexResult(1, 2)}
	stats := &fakeMetricsRepo{stats: map[uint]catalog.BookMetrics{
		1: {ReviewCount: 120, AverageRating: 4.5, ViewCount: 3000},
		// id=2不在结果中,按零值覆盖
	}}
	likes := &fakeLikeStore{}

	backend := NewIndexBackend(searcher, stats, likes)
	page, err := backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterKeyword, Keyword: "golang", Page: 0, Size: 10,
	})
	require.NoError(t, err)

	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(120), page.Content[0].ReviewCount)
	assert.Equal(t, 4.5, page.Content[0].AverageRating)
	assert.Equal(t, int64(3000), page.Content[0].ViewCount)
	assert.Equal(t, int64(0), page.Content[1].ReviewCount)
	assert.Equal(t, 0.0, page.Content[1].AverageRating)
	assert.Equal(t, int64(0), page.Content[1].ViewCount)
}

func TestIndexBackend_LikedOnlyForLoggedInUser(t *testing.T) {
	searcher := &fakeSearcher{result: indexResult(1, 2)}
	stats := &fakeMetricsRepo{stats: map[uint]catalog.BookMetrics{}}
	likes := &fakeLikeStore{liked: map[uint]bool{1: true}}
	backend := NewIndexBackend(searcher, stats, likes)

	// 匿名请求不查点赞
	page, err := backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterKeyword, Keyword: "go", Size: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, likes.calls)
	assert.Nil(t, page.Content[0].Liked)

	// 登录用户:整页一次批量查询,逐条填充标记
	page, err = backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterKeyword, Keyword: "go", Size: 10, ActingUserID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, likes.calls)
	assert.Equal(t, uint(42), likes.lastUserID)
	require.NotNil(t, page.Content[0].Liked)
	assert.True(t, *page.Content[0].Liked)
	require.NotNil(t, page.Content[1].Liked)
	assert.False(t, *page.Content[1].Liked)
}

func TestIndexBackend_CategoryQueryUsesIDTerm(t *testing.T) {
	searcher := &fakeSearcher{result: indexResult()}
	backend := NewIndexBackend(searcher, &fakeMetricsRepo{}, &fakeLikeStore{})

	_, err := backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterCategory, CategoryID: 37, Size: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.FilterCategory, searcher.lastKind)
	assert.Equal(t, "37", searcher.lastValue)
}

func TestIndexBackend_ErrorPassesThroughWithoutFallback(t *testing.T) {
	searcher := &fakeSearcher{err: catalog.WrapUnavailable(assert.AnError)}
	backend := NewIndexBackend(searcher, &fakeMetricsRepo{}, &fakeLikeStore{})

	_, err := backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterKeyword, Keyword: "go", Size: 10,
	})
	// 索引失败原样上抛,错误种类可区分
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrSearchUnavailable)
	assert.NotErrorIs(t, err, catalog.ErrSearchBadResponse)
}

func TestIndexBackend_IDsKindRejected(t *testing.T) {
	backend := NewIndexBackend(&fakeSearcher{}, &fakeMetricsRepo{}, &fakeLikeStore{})

	_, err := backend.Search(context.Background(), catalog.Query{
		Kind: catalog.FilterIDs, IDs: []uint{1}, Size: 10,
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidQuery)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "unavailable", ErrorKind(catalog.WrapUnavailable(assert.AnError)))
	assert.Equal(t, "bad_response", ErrorKind(catalog.WrapBadResponse(assert.AnError)))
	assert.Equal(t, "database", ErrorKind(assert.AnError))
}
