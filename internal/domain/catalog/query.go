package catalog

import (
	"context"
	"strings"
)

// FilterKind 过滤方式
type FilterKind string

const (
	FilterTitle    FilterKind = "title"    // 书名子串
	FilterAuthor   FilterKind = "author"   // 作者名子串
	FilterCategory FilterKind = "category" // 分类(含后代展开)
	FilterTag      FilterKind = "tag"      // 标签名子串
	FilterIDs      FilterKind = "ids"      // 明确的图书ID集合
	FilterKeyword  FilterKind = "keyword"  // 全文关键词(仅索引后端)
)

// ParseFilterKind 解析过滤方式参数
func ParseFilterKind(s string) (FilterKind, bool) {
	switch FilterKind(strings.ToLower(strings.TrimSpace(s))) {
	case FilterTitle:
		return FilterTitle, true
	case FilterAuthor:
		return FilterAuthor, true
	case FilterCategory:
		return FilterCategory, true
	case FilterTag:
		return FilterTag, true
	case FilterIDs:
		return FilterIDs, true
	case FilterKeyword:
		return FilterKeyword, true
	}
	return "", false
}

// Query 一次搜索请求
// 设计说明:
// 1. 每次请求由调用方显式二选一流水线(关系型/索引型),两边共用本结构
// 2. Keyword/CategoryID/IDs按Kind取其一
// 3. ActingUserID为0表示匿名(只影响索引流水线的liked标记)
type Query struct {
	Kind         FilterKind
	Keyword      string
	CategoryID   uint
	IDs          []uint
	SortToken    string // 原始排序token,由ResolveSortField解析
	Desc         bool
	Page         int // 从0开始
	Size         int
	ActingUserID uint
}

// Normalize 分页参数规整
// page<0按0处理;size非法回落到默认值并限制上限
func (q *Query) Normalize(defaultSize, maxSize int) {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size < 1 {
		q.Size = defaultSize
	}
	if q.Size > maxSize {
		q.Size = maxSize
	}
}

// Backend 图书搜索后端(策略接口)
// 两个实现:关系型(canonical store)与索引型(外部搜索索引)。
// 调用方显式选择其一;一个后端失败时绝不静默改走另一个
type Backend interface {
	Search(ctx context.Context, q Query) (*Page, error)
}
