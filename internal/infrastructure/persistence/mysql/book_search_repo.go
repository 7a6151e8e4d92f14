package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// 相关子查询表达式
// 设计说明:
// 1. 四项统计都是按books.id关联的标量子查询,刻意不把来源表join进
//    主查询——主查询为了过滤已经join了一对多关系(作者/分类),
//    再join评价/浏览会造成行数成倍膨胀,统计值随之失真
// 2. AVG在零评价时为NULL,这里不做默认值,统一留给投影转换层处理
// 3. GROUP_CONCAT按关联方ID升序,保证拼接结果确定
//    (数据库默认顺序是实现相关的,不可依赖)
const (
	reviewCountExpr = "(SELECT COUNT(*) FROM reviews r WHERE r.book_id = books.id)"
	avgRatingExpr   = "(SELECT AVG(r.rating) FROM reviews r WHERE r.book_id = books.id)"
	likeCountExpr   = "(SELECT COUNT(*) FROM likes l WHERE l.book_id = books.id AND l.is_liked = true)"
	viewCountExpr   = "(SELECT COUNT(*) FROM book_views v WHERE v.book_id = books.id)"

	authorNamesExpr = "(SELECT GROUP_CONCAT(a.name ORDER BY a.id SEPARATOR ', ')" +
		" FROM book_authors ba JOIN authors a ON a.id = ba.author_id WHERE ba.book_id = books.id)"
	categoryIDsExpr = "(SELECT GROUP_CONCAT(bc2.category_id ORDER BY bc2.category_id SEPARATOR ', ')" +
		" FROM book_categories bc2 WHERE bc2.book_id = books.id)"
)

// summarySelect 内容查询的投影列
// 注意别名与bookRow的字段名一一对应
const summarySelect = "books.id, books.title, books.regular_price, books.sale_price, books.is_sale, " +
	"books.publish_date, books.thumbnail_path, publishers.name AS publisher_name, " +
	authorNamesExpr + " AS author_names, " +
	categoryIDsExpr + " AS category_ids, " +
	viewCountExpr + " AS view_count, " +
	reviewCountExpr + " AS review_count, " +
	avgRatingExpr + " AS average_rating"

// summaryGroup 去重用的分组列
// 只按图书标量列+出版社名分组:过滤可能join一对多关系
// (如按作者名过滤join了book_authors),分组把重复行折叠回一本书一行。
// 四项统计是独立子查询,不参与分组
const summaryGroup = "books.id, books.title, books.regular_price, books.sale_price, books.is_sale, " +
	"books.publish_date, books.thumbnail_path, publishers.name"

// bookSearchRepository 关系型查询构建器(MySQL)
// 实现domain/catalog/repository.go定义的SearchRepository接口
type bookSearchRepository struct {
	db *gorm.DB
}

// NewBookSearchRepository 创建关系型搜索仓储
func NewBookSearchRepository(db *gorm.DB) catalog.SearchRepository {
	return &bookSearchRepository{db: db}
}

// SearchByTitle 书名子串检索
func (r *bookSearchRepository) SearchByTitle(ctx context.Context, keyword string, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		return q.Where("books.title LIKE ?", "%"+keyword+"%")
	}
	return r.search(ctx, filter, pr)
}

// SearchByAuthor 作者名子串检索(大小写不敏感)
// join只用于过滤,重复行由分组折叠
func (r *bookSearchRepository) SearchByAuthor(ctx context.Context, keyword string, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		return q.
			Joins("JOIN book_authors ba ON ba.book_id = books.id").
			Joins("JOIN authors a ON a.id = ba.author_id").
			Where("LOWER(a.name) LIKE LOWER(?)", "%"+keyword+"%")
	}
	return r.search(ctx, filter, pr)
}

// SearchByTag 标签名子串检索(大小写不敏感)
func (r *bookSearchRepository) SearchByTag(ctx context.Context, keyword string, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		return q.
			Joins("JOIN book_tags bt ON bt.book_id = books.id").
			Joins("JOIN tags t ON t.id = bt.tag_id").
			Where("LOWER(t.name) LIKE LOWER(?)", "%"+keyword+"%")
	}
	return r.search(ctx, filter, pr)
}

// SearchByCategoryIDs 按展开后的分类ID集合检索
func (r *bookSearchRepository) SearchByCategoryIDs(ctx context.Context, categoryIDs []uint, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		return q.
			Joins("JOIN book_categories bc ON bc.book_id = books.id").
			Where("bc.category_id IN ?", categoryIDs)
	}
	return r.search(ctx, filter, pr)
}

// SearchByIDs 按明确的图书ID集合检索
func (r *bookSearchRepository) SearchByIDs(ctx context.Context, ids []uint, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	filter := func(q *gorm.DB) *gorm.DB {
		return q.Where("books.id IN ?", ids)
	}
	return r.search(ctx, filter, pr)
}

// search 内容查询+计数查询的公共骨架
// 关键约束:两个查询必须施加完全相同的过滤(含评分排序门槛),
// 只是计数查询不带排序和分页——否则总数会和可见内容对不上
func (r *bookSearchRepository) search(ctx context.Context, filter func(*gorm.DB) *gorm.DB, pr catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	// 1. 计数查询:相同过滤,COUNT(DISTINCT books.id)折叠join产生的重复
	countQuery := filter(r.db.WithContext(ctx).Table("books")).
		Where("books.active = ?", true)
	countQuery = applyRatingGate(countQuery, pr.Sort)

	var total int64
	if err := countQuery.Distinct("books.id").Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询图书总数失败")
	}

	if total == 0 {
		return []catalog.BookSummary{}, 0, nil
	}

	// 2. 内容查询:投影+分组+排序+分页
	contentQuery := filter(r.db.WithContext(ctx).Table("books")).
		Select(summarySelect).
		Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id").
		Where("books.active = ?", true).
		Group(summaryGroup)
	contentQuery = applyRatingGate(contentQuery, pr.Sort)

	var rows []bookRow
	err := contentQuery.
		Order(orderExpr(pr.Sort)).
		Limit(pr.Size).
		Offset(pr.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询图书列表失败")
	}

	// 3. 行投影 → 领域摘要(空值归一只发生在这一步)
	summaries := make([]catalog.BookSummary, len(rows))
	for i := range rows {
		summaries[i] = toBookSummary(&rows[i])
	}

	return summaries, total, nil
}

// applyRatingGate 评分排序门槛
// 仅当按reviewRating排序时注入"评价数>=门槛"过滤;
// 注意内容查询和计数查询都会经过这里
func applyRatingGate(q *gorm.DB, sort catalog.SortSpec) *gorm.DB {
	if sort.Field == catalog.SortReviewRating {
		return q.Where(reviewCountExpr+" >= ?", catalog.MinReviewsForRatingSort)
	}
	return q
}

// orderExpr 排序字段 → SQL表达式
// 统计类排序直接复用相关子查询;任何排序都追加books.id ASC
// 作为次级键,保证并列值下分页结果稳定
func orderExpr(sort catalog.SortSpec) string {
	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	var expr string
	switch sort.Field {
	case catalog.SortSalePrice:
		expr = "books.sale_price"
	case catalog.SortPublishDate:
		expr = "books.publish_date"
	case catalog.SortTitle:
		expr = "books.title"
	case catalog.SortReviewRating:
		expr = avgRatingExpr
	case catalog.SortLikeCount:
		expr = likeCountExpr
	case catalog.SortViewCount:
		expr = viewCountExpr
	case catalog.SortReviewCount:
		expr = reviewCountExpr
	default:
		// SortID及一切兜底
		return fmt.Sprintf("books.id %s", dir)
	}

	return fmt.Sprintf("%s %s, books.id ASC", expr, dir)
}

// MostSoldLastMonth 上个自然月销量最高的图书
// 统计口径:已确认(已支付/已发货/已完成)订单的明细数量合计,
// 时间窗相对调用时刻的time.Now(),不参数化、不缓存
func (r *bookSearchRepository) MostSoldLastMonth(ctx context.Context) (*catalog.BestSeller, error) {
	start, end := prevMonthWindow(time.Now())

	var row struct {
		BookID   uint
		Quantity int64
	}

	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.book_id AS book_id, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", []int{OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted}).
		Where("orders.created_at BETWEEN ? AND ?", start, end).
		Group("order_items.book_id").
		Order("quantity DESC, order_items.book_id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "查询畅销图书失败")
	}

	// Scan无命中时不报错,靠零值判断"窗口内无订单"
	if row.BookID == 0 {
		return nil, nil
	}

	return &catalog.BestSeller{BookID: row.BookID, Quantity: row.Quantity}, nil
}

// prevMonthWindow 上个自然月的统计窗口
// [上月1日00:00:00, 上月最后一天23:59:59],闭区间配合BETWEEN使用
func prevMonthWindow(now time.Time) (time.Time, time.Time) {
	firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfThisMonth.AddDate(0, -1, 0)
	end := firstOfThisMonth.Add(-time.Second)
	return start, end
}
