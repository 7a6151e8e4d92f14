package dto

import (
	"strconv"
	"strings"
)

// SearchBooksQuery 图书搜索查询参数
// 设计说明:
// 1. filter选择过滤方式(title/author/category/tag/ids),
//    无法识别的值由用例层报参数错误
// 2. sort是排序token,无法识别时静默回落到默认排序;
//    desc缺省为false,即未指定方向时升序
// 3. 页码从0开始
type SearchBooksQuery struct {
	Filter     string `form:"filter,default=title"`
	Keyword    string `form:"keyword"`
	CategoryID uint   `form:"category_id"`
	IDs        string `form:"ids"` // 逗号分隔的图书ID列表
	Sort       string `form:"sort"`
	Desc       bool   `form:"desc"`
	Page       int    `form:"page,default=0"`
	PageSize   int    `form:"page_size,default=20"`
}

// ParseIDs 解析逗号分隔的ID列表,非数字项跳过
func (q *SearchBooksQuery) ParseIDs() []uint {
	if strings.TrimSpace(q.IDs) == "" {
		return nil
	}
	parts := strings.Split(q.IDs, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

// FulltextQuery 全文搜索查询参数
// field为空时跨字段加权检索;指定时(title/author/category/tag)
// 只在该字段上做高权重单字段检索。
// keyword为空白不算参数错误:与关系型流水线的空白过滤值一致,
// 直接得到空页
type FulltextQuery struct {
	Keyword  string `form:"keyword"`
	Field    string `form:"field"`
	Page     int    `form:"page,default=0"`
	PageSize int    `form:"page_size,default=20"`
}
