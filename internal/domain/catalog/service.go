package catalog

import (
	"context"
	"strings"
)

// Service 关系型搜索领域服务(Backend的canonical store实现)
// 设计说明:
// 1. 编排分类解析器与关系型仓储,完成"过滤→排序→分页"的用例流程
// 2. 空白过滤值在这里短路成空页,仓储不再做防御性判断
// 3. 默认排序按入口区分:名称型入口(书名/作者/标签)按title,
//    数值型入口(分类/ID集合)按id
type Service struct {
	repo     SearchRepository
	resolver *CategoryResolver
}

// NewService 创建关系型搜索服务
func NewService(repo SearchRepository, resolver *CategoryResolver) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
	}
}

var _ Backend = (*Service)(nil)

// Search 执行一次关系型搜索
func (s *Service) Search(ctx context.Context, q Query) (*Page, error) {
	pr := PageRequest{
		Page: q.Page,
		Size: q.Size,
		Sort: s.resolveSort(q),
	}

	switch q.Kind {
	case FilterTitle:
		return s.searchByText(ctx, q, pr, s.repo.SearchByTitle)

	case FilterAuthor:
		return s.searchByText(ctx, q, pr, s.repo.SearchByAuthor)

	case FilterTag:
		return s.searchByText(ctx, q, pr, s.repo.SearchByTag)

	case FilterCategory:
		return s.searchByCategory(ctx, q, pr)

	case FilterIDs:
		if len(q.IDs) == 0 {
			return EmptyPage(q.Page, q.Size), nil
		}
		content, total, err := s.repo.SearchByIDs(ctx, q.IDs, pr)
		if err != nil {
			return nil, err
		}
		return &Page{Content: content, Total: total, Page: q.Page, Size: q.Size}, nil

	default:
		// keyword属于索引后端,走到这里说明调用方选错了流水线
		return nil, ErrInvalidQuery
	}
}

// MostSoldLastMonth 上个自然月最畅销图书
// 窗口内无已确认订单时返回(nil, nil)
func (s *Service) MostSoldLastMonth(ctx context.Context) (*BestSeller, error) {
	return s.repo.MostSoldLastMonth(ctx)
}

// searchByText 书名/作者/标签三个文本入口的公共流程
func (s *Service) searchByText(
	ctx context.Context,
	q Query,
	pr PageRequest,
	find func(context.Context, string, PageRequest) ([]BookSummary, int64, error),
) (*Page, error) {
	keyword := strings.TrimSpace(q.Keyword)
	if keyword == "" {
		// 空白过滤值直接空页:既不是错误,也不是"返回全部"
		return EmptyPage(q.Page, q.Size), nil
	}

	content, total, err := find(ctx, keyword, pr)
	if err != nil {
		return nil, err
	}
	return &Page{Content: content, Total: total, Page: q.Page, Size: q.Size}, nil
}

// searchByCategory 分类入口:先把分类展开成ID集合再查询
func (s *Service) searchByCategory(ctx context.Context, q Query, pr PageRequest) (*Page, error) {
	ids, err := s.resolver.Resolve(ctx, q.CategoryID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		// 分类不存在(或id为0)按空页处理
		return EmptyPage(q.Page, q.Size), nil
	}

	content, total, err := s.repo.SearchByCategoryIDs(ctx, ids, pr)
	if err != nil {
		return nil, err
	}
	return &Page{Content: content, Total: total, Page: q.Page, Size: q.Size}, nil
}

// resolveSort 解析排序token并补默认值
func (s *Service) resolveSort(q Query) SortSpec {
	field := ResolveSortField(q.SortToken)
	if field == SortDefault {
		switch q.Kind {
		case FilterTitle, FilterAuthor, FilterTag:
			field = SortTitle
		default:
			field = SortID
		}
	}
	return SortSpec{Field: field, Desc: q.Desc}
}
