package search

import (
	"context"
	"errors"
	"strconv"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	"github.com/xiebiao/bookstore-search/internal/infrastructure/searchindex"
)

// IndexSearcher 索引检索器接口(便于测试替换)
type IndexSearcher interface {
	SearchField(ctx context.Context, kind catalog.FilterKind, value string, page, size int) (*searchindex.Result, error)
	SearchKeyword(ctx context.Context, keyword string, page, size int) (*searchindex.Result, error)
}

// IndexBackend 索引型搜索后端(Backend的外部索引实现)
// 设计说明:
// 1. 索引命中只提供基础展示字段和相关性排序;
//    统计值(评价数/均分/浏览数)以canonical store重算结果覆盖索引副本
// 2. 登录用户追加liked标记:整页图书ID一次批量查询点赞集合
// 3. 索引失败原样向上抛(已由searchindex层分类包装),
//    本层不重试,也绝不回退到关系型后端
type IndexBackend struct {
	searcher IndexSearcher
	metrics  catalog.MetricsRepository
	likes    catalog.LikeStore
}

// NewIndexBackend 创建索引型后端
func NewIndexBackend(searcher IndexSearcher, metrics catalog.MetricsRepository, likes catalog.LikeStore) *IndexBackend {
	return &IndexBackend{
		searcher: searcher,
		metrics:  metrics,
		likes:    likes,
	}
}

var _ catalog.Backend = (*IndexBackend)(nil)

// Search 执行一次索引搜索并富化结果
func (b *IndexBackend) Search(ctx context.Context, q catalog.Query) (*catalog.Page, error) {
	result, err := b.query(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &catalog.Page{
		Content: make([]catalog.BookSummary, 0, len(result.Hits)),
		Total:   result.Total,
		Page:    q.Page,
		Size:    q.Size,
	}
	for _, hit := range result.Hits {
		page.Content = append(page.Content, hit.Summary)
	}

	if err := b.enrich(ctx, page, q.ActingUserID); err != nil {
		return nil, err
	}
	return page, nil
}

func (b *IndexBackend) query(ctx context.Context, q catalog.Query) (*searchindex.Result, error) {
	switch q.Kind {
	case catalog.FilterKeyword:
		return b.searcher.SearchKeyword(ctx, q.Keyword, q.Page, q.Size)
	case catalog.FilterTitle, catalog.FilterAuthor, catalog.FilterTag:
		return b.searcher.SearchField(ctx, q.Kind, q.Keyword, q.Page, q.Size)
	case catalog.FilterCategory:
		return b.searcher.SearchField(ctx, q.Kind, strconv.FormatUint(uint64(q.CategoryID), 10), q.Page, q.Size)
	default:
		// ids集合查询属于关系型后端
		return nil, catalog.ErrInvalidQuery
	}
}

// enrich 用canonical store的统计值覆盖索引副本,并填充liked标记
func (b *IndexBackend) enrich(ctx context.Context, page *catalog.Page, userID uint) error {
	if len(page.Content) == 0 {
		return nil
	}

	ids := make([]uint, len(page.Content))
	for i := range page.Content {
		ids[i] = page.Content[i].ID
	}

	stats, err := b.metrics.MetricsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range page.Content {
		// 不在结果中的id按零值覆盖,与统计子查询的空值归一口径一致
		m := stats[page.Content[i].ID]
		page.Content[i].ReviewCount = m.ReviewCount
		page.Content[i].AverageRating = m.AverageRating
		page.Content[i].ViewCount = m.ViewCount
	}

	if userID == 0 {
		return nil
	}
	liked, err := b.likes.AreLiked(ctx, userID, ids)
	if err != nil {
		return err
	}
	for i := range page.Content {
		flag := liked[page.Content[i].ID]
		page.Content[i].Liked = &flag
	}
	return nil
}

// ErrorKind 把后端错误映射成指标维度值
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, catalog.ErrSearchUnavailable):
		return "unavailable"
	case errors.Is(err, catalog.ErrSearchBadResponse):
		return "bad_response"
	default:
		return "database"
	}
}
