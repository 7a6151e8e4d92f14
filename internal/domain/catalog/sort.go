package catalog

import "strings"

// SortField 排序字段
// 其中ReviewRating/LikeCount/ViewCount/ReviewCount在关系型流水线
// 会被映射成相关子查询表达式,而不是直接的列名
type SortField string

const (
	SortDefault      SortField = ""              // 未识别/未指定,由入口决定默认列
	SortSalePrice    SortField = "salePrice"
	SortPublishDate  SortField = "publishDate"
	SortTitle        SortField = "title"
	SortReviewRating SortField = "reviewRating"
	SortLikeCount    SortField = "like"
	SortViewCount    SortField = "view"
	SortReviewCount  SortField = "reviewCount"

	// SortID/SortByTitle是各入口的默认排序:
	// 数值型入口(分类、ID集合)默认按id,名称型入口(书名/作者/标签)默认按title
	SortID SortField = "id"
)

// sortTokens 排序token表(小写匹配)
var sortTokens = map[string]SortField{
	"saleprice":    SortSalePrice,
	"publishdate":  SortPublishDate,
	"title":        SortTitle,
	"reviewrating": SortReviewRating,
	"like":         SortLikeCount,
	"view":         SortViewCount,
	"reviewcount":  SortReviewCount,
}

// ResolveSortField 解析排序token(大小写不敏感)
// 未识别或为空时静默回退到SortDefault,不报错
func ResolveSortField(token string) SortField {
	if f, ok := sortTokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return f
	}
	return SortDefault
}

// SortSpec 已解析的排序要求
// 说明:无论用户选了什么排序字段,实现方都必须追加books.id作为
// 次级排序键,否则并列值下分页结果不确定
type SortSpec struct {
	Field SortField
	Desc  bool
}

// MinReviewsForRatingSort 评分排序门槛
// 只在按reviewRating排序时生效:评价数不足的图书会被过滤,
// 防止只有零星好评的图书霸占"高分榜"。
// 该过滤必须同时作用于内容查询和计数查询,否则分页总数会和可见内容对不上
const MinReviewsForRatingSort = 100
