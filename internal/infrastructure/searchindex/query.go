package searchindex

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

// 字段权重
// 设计说明:
// 1. 单字段检索统一给高权重(13),该字段命中即主导排序
// 2. 关键字检索跨四个字段取并集,书名权重最高,
//    作者/分类名/标签同级次之
const (
	singleFieldBoost  = 13.0
	titleBoost        = 10.0
	authorBoost       = 3.0
	categoryNameBoost = 3.0
	tagBoost          = 3.0
)

// Hit 单条命中,携带原始相关性得分
type Hit struct {
	Summary catalog.BookSummary
	Score   float64
}

// Result 索引检索结果
// Total是按得分阈值过滤后的命中总数(受countScanLimit上限约束)
type Result struct {
	Hits  []Hit
	Total int64
}

// Searcher 索引检索器
// 设计说明:
// 1. 得分低于minScore的命中归零并剔除;结果按-_score排序,
//    因此被剔除的一定是尾部,页内容是过滤后集合的连续前缀
// 2. 总数用一次受限扫描(countScanLimit条)统计阈值以上的命中,
//    保证分页元数据与页内容按同一口径计算
// 3. 检索执行失败与响应解析失败是两类错误,分别包装,
//    由调用方决定呈现;不在这里回退到其他后端
type Searcher struct {
	idx            *Index
	minScore       float64
	countScanLimit int
}

// NewSearcher 创建检索器
func NewSearcher(idx *Index, minScore float64, countScanLimit int) *Searcher {
	if countScanLimit <= 0 {
		countScanLimit = 10000
	}
	return &Searcher{
		idx:            idx,
		minScore:       minScore,
		countScanLimit: countScanLimit,
	}
}

// storedFields 命中后需要取回的存储字段
var storedFields = []string{
	"title", "authors", "category_ids", "publisher",
	"thumbnail_path", "regular_price", "sale_price", "is_sale", "publish_date",
}

// SearchField 单字段检索
// kind支持title/author/category/tag;category按分类ID精确匹配,
// 其余按对应文本字段做match查询
func (s *Searcher) SearchField(ctx context.Context, kind catalog.FilterKind, value string, page, size int) (*Result, error) {
	var fieldQuery query.Query
	switch kind {
	case catalog.FilterTitle:
		q := bleve.NewMatchQuery(value)
		q.SetField("title")
		q.SetBoost(singleFieldBoost)
		fieldQuery = q
	case catalog.FilterAuthor:
		q := bleve.NewMatchQuery(value)
		q.SetField("authors")
		q.SetBoost(singleFieldBoost)
		fieldQuery = q
	case catalog.FilterTag:
		q := bleve.NewMatchQuery(value)
		q.SetField("tags")
		q.SetBoost(singleFieldBoost)
		fieldQuery = q
	case catalog.FilterCategory:
		q := bleve.NewTermQuery(value)
		q.SetField("category_ids")
		q.SetBoost(singleFieldBoost)
		fieldQuery = q
	default:
		return nil, catalog.ErrInvalidQuery
	}
	return s.search(ctx, fieldQuery, page, size)
}

// SearchKeyword 关键字检索,跨书名/作者/分类名/标签加权取并集
func (s *Searcher) SearchKeyword(ctx context.Context, keyword string, page, size int) (*Result, error) {
	titleQ := bleve.NewMatchQuery(keyword)
	titleQ.SetField("title")
	titleQ.SetBoost(titleBoost)

	authorQ := bleve.NewMatchQuery(keyword)
	authorQ.SetField("authors")
	authorQ.SetBoost(authorBoost)

	categoryQ := bleve.NewMatchQuery(keyword)
	categoryQ.SetField("category_names")
	categoryQ.SetBoost(categoryNameBoost)

	tagQ := bleve.NewMatchQuery(keyword)
	tagQ.SetField("tags")
	tagQ.SetBoost(tagBoost)

	return s.search(ctx, bleve.NewDisjunctionQuery(titleQ, authorQ, categoryQ, tagQ), page, size)
}

// search 执行检索:上架过滤 + 按得分排序 + 阈值剔除 + 受限总数统计
func (s *Searcher) search(ctx context.Context, textQuery query.Query, page, size int) (*Result, error) {
	activeQ := query.NewBoolFieldQuery(true)
	activeQ.SetField("active")
	fullQuery := bleve.NewConjunctionQuery(textQuery, activeQ)

	req := bleve.NewSearchRequestOptions(fullQuery, size, page*size, false)
	req.SortBy([]string{"-_score"})
	req.Fields = storedFields

	s.idx.mu.RLock()
	res, err := s.idx.index.SearchInContext(ctx, req)
	s.idx.mu.RUnlock()
	if err != nil {
		return nil, catalog.WrapUnavailable(fmt.Errorf("检索执行失败: %w", err))
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		// 得分归零剔除:低于阈值的命中不进入结果
		if clampScore(hit.Score, s.minScore) <= 0 {
			continue
		}
		summary, convErr := toSummary(hit.ID, hit.Fields)
		if convErr != nil {
			return nil, catalog.WrapBadResponse(convErr)
		}
		hits = append(hits, Hit{Summary: *summary, Score: hit.Score})
	}

	total, err := s.countFiltered(ctx, fullQuery, res)
	if err != nil {
		return nil, err
	}
	return &Result{Hits: hits, Total: total}, nil
}

// clampScore 低于阈值的得分归零
func clampScore(raw, minScore float64) float64 {
	if raw >= minScore {
		return raw
	}
	return 0
}

// countFiltered 统计阈值以上的命中总数
// bleve不能按得分过滤计数,这里做一次受限扫描:
// 按-_score取前countScanLimit条,数出阈值以上的条数。
// 超出扫描上限的部分不计入——总数口径宁可偏低,
// 也不能高于实际可翻到的内容
func (s *Searcher) countFiltered(ctx context.Context, q query.Query, firstPage *bleve.SearchResult) (int64, error) {
	if s.minScore <= 0 {
		return int64(firstPage.Total), nil
	}
	// 全部命中都在阈值以上时无需二次扫描
	if firstPage.Total == 0 {
		return 0, nil
	}

	req := bleve.NewSearchRequestOptions(q, s.countScanLimit, 0, false)
	req.SortBy([]string{"-_score"})

	s.idx.mu.RLock()
	res, err := s.idx.index.SearchInContext(ctx, req)
	s.idx.mu.RUnlock()
	if err != nil {
		return 0, catalog.WrapUnavailable(fmt.Errorf("统计命中总数失败: %w", err))
	}

	var total int64
	for _, hit := range res.Hits {
		if clampScore(hit.Score, s.minScore) <= 0 {
			// 结果有序,首个低于阈值的命中之后全部低于阈值
			break
		}
		total++
	}
	return total, nil
}

// toSummary 把命中文档的存储字段解析成图书摘要
// 解析失败代表索引内容与约定不符,按响应异常处理
func toSummary(docID string, fields map[string]interface{}) (*catalog.BookSummary, error) {
	id, err := strconv.ParseUint(docID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("文档ID非法: %q", docID)
	}

	title, ok := fields["title"].(string)
	if !ok {
		return nil, fmt.Errorf("文档%s缺少title字段", docID)
	}

	summary := &catalog.BookSummary{
		ID:            uint(id),
		Title:         title,
		Authors:       joinStrings(fields["authors"]),
		CategoryIDs:   joinStrings(fields["category_ids"]),
		PublisherName: stringField(fields, "publisher"),
		ThumbnailPath: stringField(fields, "thumbnail_path"),
		RegularPrice:  int64(numField(fields, "regular_price")),
		SalePrice:     int64(numField(fields, "sale_price")),
		IsSale:        boolField(fields, "is_sale"),
	}

	if raw := stringField(fields, "publish_date"); raw != "" {
		t, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return nil, fmt.Errorf("文档%s出版日期非法: %q", docID, raw)
		}
		summary.PublishDate = t
	}
	return summary, nil
}

// joinStrings 存储的数组字段取回时可能是string(单值)或[]interface{}
func joinStrings(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

func numField(fields map[string]interface{}, name string) float64 {
	f, _ := fields[name].(float64)
	return f
}

func boolField(fields map[string]interface{}, name string) bool {
	b, _ := fields[name].(bool)
	return b
}
