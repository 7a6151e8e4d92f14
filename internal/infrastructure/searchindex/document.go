// Package searchindex 是外部搜索索引(bleve)的访问层。
// 索引中保存反范式化的图书文档(书名/作者/分类/标签/出版社等),
// 供加权全文检索使用;索引相对canonical store是最终一致的,
// 统计类数字(评价数、均分、浏览数)不以索引副本为准。
package searchindex

import (
	"strconv"
	"time"
)

// BookDocument 索引中的图书文档
// 设计说明:
// 1. 文档ID就是图书ID(十进制字符串)
// 2. Authors/CategoryNames/Tags反范式化成字符串数组,
//    一次查询即可覆盖多字段加权匹配
// 3. CategoryIDs按keyword方式索引,用于按分类ID精确过滤
// 4. 价格等展示字段随文档存储,索引路径无需回表取基础信息
type BookDocument struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	CategoryIDs   []string `json:"category_ids"`
	CategoryNames []string `json:"category_names"`
	Tags          []string `json:"tags"`
	Publisher     string   `json:"publisher"`
	Active        bool     `json:"active"`
	ThumbnailPath string   `json:"thumbnail_path"`
	RegularPrice  int64    `json:"regular_price"`
	SalePrice     int64    `json:"sale_price"`
	IsSale        bool     `json:"is_sale"`
	PublishDate   string   `json:"publish_date"` // RFC3339
}

// DocID 文档ID
func (d *BookDocument) DocID() string {
	return strconv.FormatUint(uint64(d.ID), 10)
}

// SetPublishDate 写入出版日期
func (d *BookDocument) SetPublishDate(t time.Time) {
	d.PublishDate = t.Format(time.RFC3339)
}

// ToMap 转成与索引mapping字段名一致的map
// bleve默认用Go字段名(首字母大写)做索引字段,
// mapping里用的是小写蛇形名,这里显式转换对齐
func (d *BookDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":             d.DocID(),
		"title":          d.Title,
		"authors":        d.Authors,
		"category_ids":   d.CategoryIDs,
		"category_names": d.CategoryNames,
		"tags":           d.Tags,
		"publisher":      d.Publisher,
		"active":         d.Active,
		"thumbnail_path": d.ThumbnailPath,
		"regular_price":  d.RegularPrice,
		"sale_price":     d.SalePrice,
		"is_sale":        d.IsSale,
		"publish_date":   d.PublishDate,
	}
}
