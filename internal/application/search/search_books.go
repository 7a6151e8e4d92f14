package search

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	"github.com/xiebiao/bookstore-search/pkg/metrics"
	"github.com/xiebiao/bookstore-search/pkg/tracing"
)

// SearchBooksUseCase 图书搜索用例
// 设计说明:
// 1. 同一个用例类型服务两条流水线:backend按构造时注入
//    (关系型领域服务或索引型后端),用例流程完全一致
// 2. 流水线由调用方显式选择,失败不回退到另一条
// 3. 指标在这里统一埋点:请求数、耗时、空页数、后端错误数
type SearchBooksUseCase struct {
	backend     catalog.Backend
	backendName string // 指标的backend标签:relational/index
	defaultSize int
	maxSize     int
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(backend catalog.Backend, backendName string, defaultSize, maxSize int) *SearchBooksUseCase {
	return &SearchBooksUseCase{
		backend:     backend,
		backendName: backendName,
		defaultSize: defaultSize,
		maxSize:     maxSize,
	}
}

// SearchBooksRequest 搜索请求DTO
type SearchBooksRequest struct {
	FilterKind   string // title/author/category/tag/ids/keyword
	Keyword      string // 文本类过滤值
	CategoryID   uint   // FilterKind=category时使用
	IDs          []uint // FilterKind=ids时使用
	Sort         string // 排序token,无法识别时静默回落默认排序
	Desc         bool
	Page         int // 页码(从0开始)
	PageSize     int
	ActingUserID uint // 0表示匿名
}

// BookItem 搜索结果列表项DTO
type BookItem struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	RegularPrice  int64   `json:"regular_price"`
	SalePrice     int64   `json:"sale_price"`
	IsSale        bool    `json:"is_sale"`
	PublishDate   string  `json:"publish_date"`
	PublisherName string  `json:"publisher_name"`
	Authors       string  `json:"authors"`
	ThumbnailPath string  `json:"thumbnail_path"`
	CategoryIDs   string  `json:"category_ids"`
	ViewCount     int64   `json:"view_count"`
	ReviewCount   int64   `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
	Liked         *bool   `json:"liked,omitempty"`
}

// SearchBooksResponse 搜索响应DTO
type SearchBooksResponse struct {
	List       []BookItem `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行搜索用例
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (*SearchBooksResponse, error) {
	kind, ok := catalog.ParseFilterKind(req.FilterKind)
	if !ok {
		return nil, catalog.ErrInvalidQuery
	}

	q := catalog.Query{
		Kind:         kind,
		Keyword:      req.Keyword,
		CategoryID:   req.CategoryID,
		IDs:          req.IDs,
		SortToken:    req.Sort,
		Desc:         req.Desc,
		Page:         req.Page,
		Size:         req.PageSize,
		ActingUserID: req.ActingUserID,
	}
	q.Normalize(uc.defaultSize, uc.maxSize)

	// 流水线Span:挂在请求Span下,backend标签区分relational/index
	ctx, span := tracing.StartSpan(ctx, "bookstore-search", "SearchBooks")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.backend", uc.backendName),
		attribute.String("search.filter", string(kind)),
	)

	metrics.SearchRequestsTotal.WithLabelValues(uc.backendName, string(kind)).Inc()
	start := time.Now()

	page, err := uc.backend.Search(ctx, q)
	metrics.SearchDuration.WithLabelValues(uc.backendName).Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		metrics.SearchBackendErrorsTotal.WithLabelValues(uc.backendName, ErrorKind(err)).Inc()
		return nil, err
	}
	if page.Total == 0 {
		metrics.SearchEmptyTotal.WithLabelValues(uc.backendName).Inc()
	}

	return toResponse(page), nil
}

// toResponse 领域分页结果转响应DTO
func toResponse(page *catalog.Page) *SearchBooksResponse {
	list := make([]BookItem, len(page.Content))
	for i, b := range page.Content {
		list[i] = toBookItem(b)
	}
	return &SearchBooksResponse{
		List:       list,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.Size,
		TotalPages: page.TotalPages(),
	}
}

func toBookItem(b catalog.BookSummary) BookItem {
	item := BookItem{
		ID:            b.ID,
		Title:         b.Title,
		RegularPrice:  b.RegularPrice,
		SalePrice:     b.SalePrice,
		IsSale:        b.IsSale,
		PublisherName: b.PublisherName,
		Authors:       b.Authors,
		ThumbnailPath: b.ThumbnailPath,
		CategoryIDs:   b.CategoryIDs,
		ViewCount:     b.ViewCount,
		ReviewCount:   b.ReviewCount,
		AverageRating: b.AverageRating,
		Liked:         b.Liked,
	}
	if !b.PublishDate.IsZero() {
		item.PublishDate = b.PublishDate.Format("2006-01-02")
	}
	return item
}
