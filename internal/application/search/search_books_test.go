package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	"github.com/xiebiao/bookstore-search/pkg/metrics"
	"github.com/xiebiao/bookstore-search/pkg/tracing"
)

func init() {
	metrics.InitMetrics()
}

type fakeBackend struct {
	page     *catalog.Page
	err      error
	lastQ    catalog.Query
	lastCtx  context.Context
	received bool
}

func (f *fakeBackend) Search(ctx context.Context, q catalog.Query) (*catalog.Page, error) {
	f.lastQ = q
	f.lastCtx = ctx
	f.received = true
	if f.err != nil {
		return nil, f.err
	}
	if f.page != nil {
		return f.page, nil
	}
	return catalog.EmptyPage(q.Page, q.Size), nil
}

func TestSearchBooksUseCase_InvalidFilterKind(t *testing.T) {
	uc := NewSearchBooksUseCase(&fakeBackend{}, "relational", 20, 100)

	_, err := uc.Execute(context.Background(), SearchBooksRequest{FilterKind: "publisher"})
	assert.ErrorIs(t, err, catalog.ErrInvalidQuery)
}

func TestSearchBooksUseCase_NormalizesPaging(t *testing.T) {
	backend := &fakeBackend{}
	uc := NewSearchBooksUseCase(backend, "relational", 20, 100)

	_, err := uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "title", Keyword: "go", Page: -3, PageSize: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, backend.lastQ.Page)
	assert.Equal(t, 100, backend.lastQ.Size)

	_, err = uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "title", Keyword: "go",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, backend.lastQ.Size)
}

func TestSearchBooksUseCase_ResponseShape(t *testing.T) {
	publishDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	backend := &fakeBackend{page: &catalog.Page{
		Content: []catalog.BookSummary{{
			ID:            7,
			Title:         "领域驱动设计",
			RegularPrice:  9900,
			SalePrice:     7900,
			IsSale:        true,
			PublishDate:   publishDate,
			PublisherName: "人民邮电出版社",
			Authors:       "Eric Evans",
			CategoryIDs:   "3, 8",
			ReviewCount:   210,
			AverageRating: 4.7,
			ViewCount:     5200,
		}},
		Total: 41,
		Page:  1,
		Size:  20,
	}}
	uc := NewSearchBooksUseCase(backend, "relational", 20, 100)

	resp, err := uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "title", Keyword: "设计", Page: 1, PageSize: 20,
	})
	require.NoError(t, err)

	require.Len(t, resp.List, 1)
	assert.Equal(t, "领域驱动设计", resp.List[0].Title)
	assert.Equal(t, "2024-03-15", resp.List[0].PublishDate)
	assert.Equal(t, int64(41), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
	// 41条/每页20 → 3页
	assert.Equal(t, 3, resp.TotalPages)
}

func TestSearchBooksUseCase_SortTokenForwarded(t *testing.T) {
	backend := &fakeBackend{}
	uc := NewSearchBooksUseCase(backend, "relational", 20, 100)

	_, err := uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "category", CategoryID: 5, Sort: "reviewRating", Desc: true,
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.FilterCategory, backend.lastQ.Kind)
	assert.Equal(t, uint(5), backend.lastQ.CategoryID)
	assert.Equal(t, "reviewRating", backend.lastQ.SortToken)
	assert.True(t, backend.lastQ.Desc)
}

func TestSearchBooksUseCase_BackendErrorPropagates(t *testing.T) {
	backend := &fakeBackend{err: catalog.WrapBadResponse(assert.AnError)}
	uc := NewSearchBooksUseCase(backend, "index", 20, 100)

	_, err := uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "keyword", Keyword: "go",
	})
	assert.ErrorIs(t, err, catalog.ErrSearchBadResponse)
}

func TestSearchBooksUseCase_PipelineSpan(t *testing.T) {
	shutdown, err := tracing.InitTracer("test-service", "localhost:4317")
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	backend := &fakeBackend{}
	uc := NewSearchBooksUseCase(backend, "index", 20, 100)

	_, err = uc.Execute(context.Background(), SearchBooksRequest{
		FilterKind: "keyword", Keyword: "go",
	})
	require.NoError(t, err)

	// 后端收到的上下文应携带流水线Span
	require.NotNil(t, backend.lastCtx)
	assert.NotEmpty(t, tracing.ExtractTraceID(backend.lastCtx))
}
