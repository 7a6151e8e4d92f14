package catalog

import (
	"time"
)

// 本包是商品目录搜索引擎的领域层。
// 设计说明:
// 1. 目录实体(图书、分类、作者、标签、评价等)由其他服务负责写入,
//    本引擎只读,因此领域对象都是查询投影,不携带变更行为;
//    分类只以ID集合参与过滤,不设独立投影
// 2. 两条搜索流水线(关系型/索引型)共用BookSummary输出形状

// BookSummary 图书搜索结果摘要
// 设计说明:
// 1. Authors/CategoryIDs是服务端字符串聚合的结果(分隔符拼接),
//    聚合顺序按关联方ID升序,保证输出确定性
// 2. 四项统计(浏览/评价数/均分/点赞)来自canonical store的相关子查询
// 3. 空值归一(null→0/""/false)只发生在投影转换层,这里收到的已是规整值
type BookSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	RegularPrice  int64     `json:"regular_price"` // 定价(分)
	SalePrice     int64     `json:"sale_price"`    // 售价(分)
	IsSale        bool      `json:"is_sale"`
	PublishDate   time.Time `json:"publish_date"`
	PublisherName string    `json:"publisher_name"`
	Authors       string    `json:"authors"`        // "作者A, 作者B"
	ThumbnailPath string    `json:"thumbnail_path"`
	CategoryIDs   string    `json:"category_ids"`   // "1, 5, 20"
	ViewCount     int64     `json:"view_count"`
	ReviewCount   int64     `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
	Liked         *bool     `json:"liked,omitempty"` // 仅索引流水线+登录用户时填充
}

// BookMetrics 单本图书的统计指标
// 索引流水线返回结果后,用canonical store重新计算这三项
// (索引是最终一致的,统计数字不以索引副本为准)
type BookMetrics struct {
	ReviewCount   int64
	AverageRating float64
	ViewCount     int64
}

// BestSeller 上个自然月最畅销图书
type BestSeller struct {
	BookID   uint  `json:"book_id"`
	Quantity int64 `json:"quantity"` // 已确认订单的销量合计
}

// Page 分页结果
type Page struct {
	Content []BookSummary
	Total   int64
	Page    int // 页码(从0开始)
	Size    int
}

// EmptyPage 构造空页
// 空白过滤值、不存在的分类等场景直接返回空页,而不是错误
func EmptyPage(page, size int) *Page {
	return &Page{
		Content: []BookSummary{},
		Total:   0,
		Page:    page,
		Size:    size,
	}
}

// TotalPages 总页数
func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	n := int(p.Total) / p.Size
	if int(p.Total)%p.Size != 0 {
		n++
	}
	return n
}
