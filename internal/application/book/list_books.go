package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/catalog"
)

// ListBooksUseCase 图书目录查询用例
// 设计说明：
// 1. 仓储一次返回当页图书及其折扣，避免N+1查询
// 2. 作者/类目名称按当页ID集合批量查询后在内存拼装
// 3. 展示价（EffectivePrice）在应用层按"当前时刻"计算
type ListBooksUseCase struct {
	bookRepo    book.Repository
	catalogRepo catalog.Repository
}

// NewListBooksUseCase 创建目录查询用例
func NewListBooksUseCase(bookRepo book.Repository, catalogRepo catalog.Repository) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookRepo:    bookRepo,
		catalogRepo: catalogRepo,
	}
}

// ListBooksRequest 目录查询请求
type ListBooksRequest struct {
	Page      int
	PageSize  int
	Search    string
	AuthorID  uint
	GenreID   uint
	PriceMin  *int64
	PriceMax  *int64
	RatingMin *float64
	RatingMax *float64
	Language  string
	Formats   []string
	InStock   *bool
	OnSale    bool
	SortBy    string
}

// BookSummary 目录页的图书摘要
type BookSummary struct {
	ID             uint     `json:"id"`
	Title          string   `json:"title"`
	ISBN           string   `json:"isbn"`
	Price          int64    `json:"price"`
	EffectivePrice int64    `json:"effective_price"`
	OnSale         bool     `json:"on_sale"`
	Stock          int      `json:"stock"`
	AvgRating      float64  `json:"avg_rating"`
	Language       string   `json:"language,omitempty"`
	Format         string   `json:"format,omitempty"`
	ImagePath      string   `json:"image_path,omitempty"`
	Authors        []string `json:"authors"`
	Genres         []string `json:"genres"`
}

// ListBooksResponse 目录查询响应
type ListBooksResponse struct {
	Books    []BookSummary `json:"books"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// Execute 执行目录查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	params := book.ListParams{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Search:    req.Search,
		AuthorID:  req.AuthorID,
		GenreID:   req.GenreID,
		PriceMin:  req.PriceMin,
		PriceMax:  req.PriceMax,
		RatingMin: req.RatingMin,
		RatingMax: req.RatingMax,
		Language:  req.Language,
		Formats:   req.Formats,
		InStock:   req.InStock,
		OnSale:    req.OnSale,
		SortBy:    req.SortBy,
	}

	books, discounts, total, err := uc.bookRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	authorNames, genreNames, err := uc.resolveNames(ctx, books)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summaries := make([]BookSummary, 0, len(books))
	for _, b := range books {
		ds := discounts[b.ID]
		_, onSale := book.ActiveDiscount(ds, now)
		summaries = append(summaries, BookSummary{
			ID:             b.ID,
			Title:          b.Title,
			ISBN:           b.ISBN,
			Price:          b.Price,
			EffectivePrice: b.EffectivePrice(ds, now),
			OnSale:         onSale,
			Stock:          b.Stock,
			AvgRating:      b.AvgRating,
			Language:       b.Language,
			Format:         b.Format,
			ImagePath:      b.ImagePath,
			Authors:        pickNames(authorNames, b.AuthorIDs),
			Genres:         pickNames(genreNames, b.GenreIDs),
		})
	}

	return &ListBooksResponse{
		Books:    summaries,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// resolveNames 批量解析当页涉及的作者/类目名称
func (uc *ListBooksUseCase) resolveNames(ctx context.Context, books []*book.Book) (map[uint]string, map[uint]string, error) {
	authorIDs := make([]uint, 0)
	genreIDs := make([]uint, 0)
	seenAuthor := make(map[uint]bool)
	seenGenre := make(map[uint]bool)
	for _, b := range books {
		for _, id := range b.AuthorIDs {
			if !seenAuthor[id] {
				seenAuthor[id] = true
				authorIDs = append(authorIDs, id)
			}
		}
		for _, id := range b.GenreIDs {
			if !seenGenre[id] {
				seenGenre[id] = true
				genreIDs = append(genreIDs, id)
			}
		}
	}

	authorNames := make(map[uint]string, len(authorIDs))
	if len(authorIDs) > 0 {
		authors, err := uc.catalogRepo.FindAuthorsByIDs(ctx, authorIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range authors {
			authorNames[a.ID] = a.FullName()
		}
	}

	genreNames := make(map[uint]string, len(genreIDs))
	if len(genreIDs) > 0 {
		genres, err := uc.catalogRepo.FindGenresByIDs(ctx, genreIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, g := range genres {
			genreNames[g.ID] = g.Name
		}
	}

	return authorNames, genreNames, nil
}

func pickNames(names map[uint]string, ids []uint) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
