package mysql

import (
	"context"
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookstore-search/internal/infrastructure/searchindex"
	apperrors "github.com/xiebiao/bookstore-search/pkg/errors"
)

// IndexSource 索引构建的数据源
// 从canonical store批量捞取图书及其反范式化关联,
// 组装成bleve文档供indexer写入
type IndexSource struct {
	db *gorm.DB
}

// NewIndexSource 创建索引数据源
func NewIndexSource(db *gorm.DB) *IndexSource {
	return &IndexSource{db: db}
}

// 拼接分隔符:作者/分类/标签名里不应出现,用于行内数组编码
const indexJoinSep = "\x1f"

// indexSourceRow 索引数据源的行投影
type indexSourceRow struct {
	ID            uint
	Title         string
	RegularPrice  sql.NullInt64
	SalePrice     sql.NullInt64
	IsSale        sql.NullBool
	PublishDate   sql.NullTime
	ThumbnailPath sql.NullString
	Active        bool
	PublisherName sql.NullString
	AuthorNames   sql.NullString
	CategoryIDs   sql.NullString
	CategoryNames sql.NullString
	TagNames      sql.NullString
}

// LoadBatch 按主键递增分批加载
// afterID传上一批最后一本书的ID(首批传0),返回空切片表示读完。
// 上下架状态随文档一起写入索引,由检索端过滤,
// 因此这里不过滤active
func (s *IndexSource) LoadBatch(ctx context.Context, afterID uint, limit int) ([]*searchindex.BookDocument, error) {
	sel := "books.id, books.title, books.regular_price, books.sale_price, books.is_sale, " +
		"books.publish_date, books.thumbnail_path, books.active, " +
		"publishers.name AS publisher_name, " +
		"(SELECT GROUP_CONCAT(a.name ORDER BY a.id SEPARATOR '" + indexJoinSep + "')" +
		" FROM book_authors ba JOIN authors a ON a.id = ba.author_id WHERE ba.book_id = books.id) AS author_names, " +
		"(SELECT GROUP_CONCAT(bc.category_id ORDER BY bc.category_id SEPARATOR '" + indexJoinSep + "')" +
		" FROM book_categories bc WHERE bc.book_id = books.id) AS category_ids, " +
		"(SELECT GROUP_CONCAT(c.name ORDER BY c.id SEPARATOR '" + indexJoinSep + "')" +
		" FROM book_categories bc JOIN categories c ON c.id = bc.category_id WHERE bc.book_id = books.id) AS category_names, " +
		"(SELECT GROUP_CONCAT(t.name ORDER BY t.id SEPARATOR '" + indexJoinSep + "')" +
		" FROM book_tags bt JOIN tags t ON t.id = bt.tag_id WHERE bt.book_id = books.id) AS tag_names"

	var rows []indexSourceRow
	err := s.db.WithContext(ctx).
		Table("books").
		Select(sel).
		Joins("LEFT JOIN publishers ON publishers.id = books.publisher_id").
		Where("books.id > ?", afterID).
		Order("books.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.ErrCodeDatabaseError, "加载索引数据失败")
	}

	docs := make([]*searchindex.BookDocument, len(rows))
	for i := range rows {
		docs[i] = toBookDocument(&rows[i])
	}
	return docs, nil
}

// toBookDocument 行投影 → bleve文档
func toBookDocument(row *indexSourceRow) *searchindex.BookDocument {
	doc := &searchindex.BookDocument{
		ID:            row.ID,
		Title:         row.Title,
		Authors:       splitConcat(row.AuthorNames),
		CategoryIDs:   splitConcat(row.CategoryIDs),
		CategoryNames: splitConcat(row.CategoryNames),
		Tags:          splitConcat(row.TagNames),
		Publisher:     row.PublisherName.String,
		Active:        row.Active,
		ThumbnailPath: row.ThumbnailPath.String,
		RegularPrice:  row.RegularPrice.Int64,
		SalePrice:     row.SalePrice.Int64,
		IsSale:        row.IsSale.Bool,
	}
	if row.PublisherName.String == "" {
		doc.Publisher = unknownPublisher
	}
	if row.PublishDate.Valid {
		doc.SetPublishDate(row.PublishDate.Time)
	}
	return doc
}

// splitConcat GROUP_CONCAT结果 → 字符串切片
func splitConcat(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return nil
	}
	return strings.Split(v.String, indexJoinSep)
}
