package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appsearch "github.com/xiebiao/bookstore-search/internal/application/search"
	"github.com/xiebiao/bookstore-search/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-search/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-search/pkg/response"
)

// SearchHandler 搜索HTTP处理器
// 两条流水线各对应一个路由,由客户端显式选择;
// 任何一条失败都不会切换到另一条
type SearchHandler struct {
	relational *appsearch.SearchBooksUseCase
	index      *appsearch.SearchBooksUseCase
	bestSeller *appsearch.BestSellerUseCase
}

// NewSearchHandler 创建搜索处理器
func NewSearchHandler(
	relational *appsearch.SearchBooksUseCase,
	index *appsearch.SearchBooksUseCase,
	bestSeller *appsearch.BestSellerUseCase,
) *SearchHandler {
	return &SearchHandler{
		relational: relational,
		index:      index,
		bestSeller: bestSeller,
	}
}

// SearchBooks 图书搜索(关系型流水线)
// @Summary      图书搜索
// @Description  按书名/作者/分类/标签/ID集合过滤,支持排序与分页
// @Tags         搜索
// @Produce      json
// @Param        filter      query string false "过滤方式(title/author/category/tag/ids)" default(title)
// @Param        keyword     query string false "过滤值(title/author/tag)"
// @Param        category_id query int    false "分类ID(filter=category)"
// @Param        ids         query string false "逗号分隔的图书ID列表(filter=ids)"
// @Param        sort        query string false "排序(salePrice/publishDate/title/reviewRating/like/view/reviewCount)"
// @Param        desc        query bool   false "是否降序(缺省升序)" default(false)
// @Param        page        query int    false "页码(从0开始)" default(0)
// @Param        page_size   query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/search/books [get]
func (h *SearchHandler) SearchBooks(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.relational.Execute(c.Request.Context(), appsearch.SearchBooksRequest{
		FilterKind:   q.Filter,
		Keyword:      q.Keyword,
		CategoryID:   q.CategoryID,
		IDs:          q.ParseIDs(),
		Sort:         q.Sort,
		Desc:         q.Desc,
		Page:         q.Page,
		PageSize:     q.PageSize,
		ActingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// SearchFulltext 全文关键字搜索(索引流水线)
// @Summary      全文搜索
// @Description  跨书名/作者/分类名/标签的加权相关性搜索,登录用户结果附带liked标记
// @Tags         搜索
// @Produce      json
// @Security     BearerAuth
// @Param        keyword   query string false "搜索关键字(field=category时为分类ID);空白返回空页"
// @Param        field     query string false "限定字段(title/author/category/tag),缺省跨字段加权"
// @Param        page      query int    false "页码(从0开始)" default(0)
// @Param        page_size query int    false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      500 {object} response.Response "搜索服务不可用(50003)或响应异常(50004)"
// @Router       /api/v1/search/fulltext [get]
func (h *SearchHandler) SearchFulltext(c *gin.Context) {
	var q dto.FulltextQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// field缺省走跨字段加权;field=category时关键字就是分类ID
	kind := q.Field
	if kind == "" {
		kind = "keyword"
	}
	// 空白关键字不报错:等同空白过滤值,由后端产出空页
	keyword := strings.TrimSpace(q.Keyword)
	var categoryID uint
	if kind == "category" && keyword != "" {
		n, err := strconv.ParseUint(keyword, 10, 64)
		if err != nil {
			response.ErrorWithCode(c, 40900, "参数错误: 分类ID必须是数字")
			return
		}
		categoryID = uint(n)
	}

	result, err := h.index.Execute(c.Request.Context(), appsearch.SearchBooksRequest{
		FilterKind:   kind,
		Keyword:      q.Keyword,
		CategoryID:   categoryID,
		Page:         q.Page,
		PageSize:     q.PageSize,
		ActingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// BestSeller 上月畅销书
// @Summary      上月畅销书
// @Description  上个自然月(按请求时刻计算)销量最高的图书;无已确认订单时book为null
// @Tags         搜索
// @Produce      json
// @Success      200 {object} response.Response{data=search.BestSellerResponse}
// @Router       /api/v1/books/best-seller [get]
func (h *SearchHandler) BestSeller(c *gin.Context) {
	result, err := h.bestSeller.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
