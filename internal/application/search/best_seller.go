package search

import (
	"context"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

// BestSellerUseCase 上月畅销书查询用例
// 设计说明:
// 1. 畅销统计只认已确认(已支付/已发货/已完成)订单
// 2. 时间窗是相对当前时刻的上个自然月,每次请求实时计算
// 3. 命中后再按ID取一次图书摘要,凑齐展示字段
type BestSellerUseCase struct {
	service *catalog.Service
}

// NewBestSellerUseCase 创建畅销书用例
func NewBestSellerUseCase(service *catalog.Service) *BestSellerUseCase {
	return &BestSellerUseCase{service: service}
}

// BestSellerResponse 畅销书响应DTO
// 上月无已确认订单时Book为nil、Quantity为0
type BestSellerResponse struct {
	Book     *BookItem `json:"book"`
	Quantity int64     `json:"quantity"`
}

// Execute 查询上个自然月销量最高的图书
func (uc *BestSellerUseCase) Execute(ctx context.Context) (*BestSellerResponse, error) {
	best, err := uc.service.MostSoldLastMonth(ctx)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return &BestSellerResponse{}, nil
	}

	page, err := uc.service.Search(ctx, catalog.Query{
		Kind: catalog.FilterIDs,
		IDs:  []uint{best.BookID},
		Page: 0,
		Size: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(page.Content) == 0 {
		// 订单里有但目录里已不可见(下架等),按无畅销书处理
		return &BestSellerResponse{}, nil
	}

	item := toBookItem(page.Content[0])
	return &BestSellerResponse{
		Book:     &item,
		Quantity: best.Quantity,
	}, nil
}
