package searchindex

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping 构建图书索引的mapping
// 设计说明:
// 1. 文本字段(书名/作者/分类名/标签)用standard分析器做全文索引
// 2. category_ids与active用keyword/布尔方式索引,只做精确过滤不参与打分
// 3. 展示字段(价格、封面等)Store=true但不索引,命中后直接从文档取
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	// 全文字段
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	docMapping.AddFieldMappingsAt("title", titleField)

	authorsField := bleve.NewTextFieldMapping()
	authorsField.Analyzer = standard.Name
	authorsField.Store = true
	docMapping.AddFieldMappingsAt("authors", authorsField)

	categoryNamesField := bleve.NewTextFieldMapping()
	categoryNamesField.Analyzer = standard.Name
	categoryNamesField.Store = true
	docMapping.AddFieldMappingsAt("category_names", categoryNamesField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = standard.Name
	tagsField.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsField)

	publisherField := bleve.NewTextFieldMapping()
	publisherField.Analyzer = standard.Name
	publisherField.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherField)

	// 精确过滤字段
	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	idField.Store = true
	docMapping.AddFieldMappingsAt("id", idField)

	categoryIDsField := bleve.NewTextFieldMapping()
	categoryIDsField.Analyzer = keyword.Name
	categoryIDsField.Store = true
	docMapping.AddFieldMappingsAt("category_ids", categoryIDsField)

	activeField := bleve.NewBooleanFieldMapping()
	activeField.Store = true
	docMapping.AddFieldMappingsAt("active", activeField)

	// 只存储的展示字段
	thumbField := bleve.NewTextFieldMapping()
	thumbField.Index = false
	thumbField.Store = true
	docMapping.AddFieldMappingsAt("thumbnail_path", thumbField)

	regularPriceField := bleve.NewNumericFieldMapping()
	regularPriceField.Index = false
	regularPriceField.Store = true
	docMapping.AddFieldMappingsAt("regular_price", regularPriceField)

	salePriceField := bleve.NewNumericFieldMapping()
	salePriceField.Index = false
	salePriceField.Store = true
	docMapping.AddFieldMappingsAt("sale_price", salePriceField)

	isSaleField := bleve.NewBooleanFieldMapping()
	isSaleField.Index = false
	isSaleField.Store = true
	docMapping.AddFieldMappingsAt("is_sale", isSaleField)

	publishDateField := bleve.NewTextFieldMapping()
	publishDateField.Index = false
	publishDateField.Store = true
	docMapping.AddFieldMappingsAt("publish_date", publishDateField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
