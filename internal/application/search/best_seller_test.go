package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-search/internal/domain/catalog"
)

type fakeSearchRepo struct {
	best    *catalog.BestSeller
	bestErr error
	byIDs   []catalog.BookSummary
}

func (f *fakeSearchRepo) SearchByTitle(context.Context, string, catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSearchRepo) SearchByAuthor(context.Context, string, catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSearchRepo) SearchByTag(context.Context, string, catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSearchRepo) SearchByCategoryIDs(context.Context, []uint, catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSearchRepo) SearchByIDs(context.Context, []uint, catalog.PageRequest) ([]catalog.BookSummary, int64, error) {
	return f.byIDs, int64(len(f.byIDs)), nil
}

func (f *fakeSearchRepo) MostSoldLastMonth(context.Context) (*catalog.BestSeller, error) {
	return f.best, f.bestErr
}

type noChildren struct{}

func (noChildren) Exists(context.Context, uint) (bool, error)       { return false, nil }
func (noChildren) ChildIDs(context.Context, []uint) ([]uint, error) { return nil, nil }

func newTestService(repo catalog.SearchRepository) *catalog.Service {
	return catalog.NewService(repo, catalog.NewCategoryResolver(noChildren{}, 3))
}

func TestBestSellerUseCase_NoConfirmedOrders(t *testing.T) {
	uc := NewBestSellerUseCase(newTestService(&fakeSearchRepo{best: nil}))

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	// 无畅销书不是错误:Book为nil、Quantity为0
	assert.Nil(t, resp.Book)
	assert.Equal(t, int64(0), resp.Quantity)
}

func TestBestSellerUseCase_ReturnsBookWithQuantity(t *testing.T) {
	repo := &fakeSearchRepo{
		best:  &catalog.BestSeller{BookID: 9, Quantity: 134},
		byIDs: []catalog.BookSummary{{ID: 9, Title: "三体"}},
	}
	uc := NewBestSellerUseCase(newTestService(repo))

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.NotNil(t, resp.Book)
	assert.Equal(t, uint(9), resp.Book.ID)
	assert.Equal(t, "三体", resp.Book.Title)
	assert.Equal(t, int64(134), resp.Quantity)
}

func TestBestSellerUseCase_BookNoLongerVisible(t *testing.T) {
	repo := &fakeSearchRepo{
		best:  &catalog.BestSeller{BookID: 9, Quantity: 134},
		byIDs: nil, // 已下架,active过滤后查不到
	}
	uc := NewBestSellerUseCase(newTestService(repo))

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.Book)
}
