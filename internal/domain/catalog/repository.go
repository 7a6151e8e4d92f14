package catalog

import (
	"context"
)

// PageRequest 仓储层分页+排序要求
// Page从0开始;Sort已由上层解析完毕
type PageRequest struct {
	Page int
	Size int
	Sort SortSpec
}

// Offset 偏移量
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// SearchRepository 关系型查询构建器接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层基于canonical store(MySQL)实现
// 2. 所有操作只读;过滤恒定附加active = true
// 3. 每个操作都同时产出内容页和与之完全一致口径的总数
//    (含reviewRating排序时的评价数门槛过滤)
// 4. 空白过滤值的短路(空页而非全量)由领域服务负责,仓储收到的均为有效入参
type SearchRepository interface {
	// SearchByTitle 书名子串检索
	SearchByTitle(ctx context.Context, keyword string, pr PageRequest) ([]BookSummary, int64, error)

	// SearchByAuthor 作者名子串检索(大小写不敏感)
	SearchByAuthor(ctx context.Context, keyword string, pr PageRequest) ([]BookSummary, int64, error)

	// SearchByTag 标签名子串检索(大小写不敏感)
	SearchByTag(ctx context.Context, keyword string, pr PageRequest) ([]BookSummary, int64, error)

	// SearchByCategoryIDs 按分类ID集合检索(集合已由CategoryResolver展开)
	SearchByCategoryIDs(ctx context.Context, categoryIDs []uint, pr PageRequest) ([]BookSummary, int64, error)

	// SearchByIDs 按明确的图书ID集合检索(点赞列表、畅销书详情等场景)
	SearchByIDs(ctx context.Context, ids []uint, pr PageRequest) ([]BookSummary, int64, error)

	// MostSoldLastMonth 上个自然月销量最高的图书
	// 时间窗相对调用时刻的time.Now()计算,不参数化、不缓存
	// 窗口内没有已确认订单时返回(nil, nil),不是错误
	MostSoldLastMonth(ctx context.Context) (*BestSeller, error)
}

// CategoryRepository 分类邻接读取接口
// CategoryResolver只依赖ChildLister,这里原样复用
type CategoryRepository interface {
	ChildLister
}

// MetricsRepository 批量指标查询接口
// 索引流水线的Result Enricher用它从canonical store重算统计值
type MetricsRepository interface {
	// MetricsByIDs 一次查询取回一批图书的评价数/均分/浏览数
	// 不在结果里的id调用方按零值处理
	MetricsByIDs(ctx context.Context, ids []uint) (map[uint]BookMetrics, error)
}

// LikeStore 按用户的点赞存在性查询接口
// 由点赞服务维护的Redis集合实现;一次批量查询覆盖整页结果,
// 避免逐行查询
type LikeStore interface {
	// AreLiked 用户userID对一批图书的点赞标记
	AreLiked(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error)
}
