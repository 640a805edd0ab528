package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookRepo     book.Repository
	discountRepo book.DiscountRepository
	catalogRepo  catalog.Repository
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(
	bookRepo book.Repository,
	discountRepo book.DiscountRepository,
	catalogRepo catalog.Repository,
) *GetBookUseCase {
	return &GetBookUseCase{
		bookRepo:     bookRepo,
		discountRepo: discountRepo,
		catalogRepo:  catalogRepo,
	}
}

// BookDetail 图书详情
type BookDetail struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	ISBN           string     `json:"isbn"`
	Description    string     `json:"description"`
	Price          int64      `json:"price"`
	EffectivePrice int64      `json:"effective_price"`
	OnSale         bool       `json:"on_sale"`
	Stock          int        `json:"stock"`
	AvgRating      float64    `json:"avg_rating"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Language       string     `json:"language,omitempty"`
	Format         string     `json:"format,omitempty"`
	ImagePath      string     `json:"image_path,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	Authors        []string   `json:"authors"`
	Genres         []string   `json:"genres"`
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID uint) (*BookDetail, error) {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	discounts, err := uc.discountRepo.ListByBookID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	detail := &BookDetail{
		ID:          b.ID,
		Title:       b.Title,
		ISBN:        b.ISBN,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		AvgRating:   b.AvgRating,
		PublishedAt: b.PublishedAt,
		Language:    b.Language,
		Format:      b.Format,
		ImagePath:   b.ImagePath,
		Authors:     []string{},
		Genres:      []string{},
	}

	now := time.Now()
	detail.EffectivePrice = b.EffectivePrice(discounts, now)
	_, detail.OnSale = book.ActiveDiscount(discounts, now)

	if len(b.AuthorIDs) > 0 {
		authors, err := uc.catalogRepo.FindAuthorsByIDs(ctx, b.AuthorIDs)
		if err != nil {
			return nil, err
		}
		for _, a := range authors {
			detail.Authors = append(detail.Authors, a.FullName())
		}
	}

	if len(b.GenreIDs) > 0 {
		genres, err := uc.catalogRepo.FindGenresByIDs(ctx, b.GenreIDs)
		if err != nil {
			return nil, err
		}
		for _, g := range genres {
			detail.Genres = append(detail.Genres, g.Name)
		}
	}

	if b.PublisherID != nil {
		p, err := uc.catalogRepo.FindPublisherByID(ctx, *b.PublisherID)
		if err == nil {
			detail.Publisher = p.Name
		}
	}

	return detail, nil
}
