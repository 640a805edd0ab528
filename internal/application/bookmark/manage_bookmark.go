package bookmark

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/bookmark"
)

// ManageBookmarkUseCase 收藏用例（会员）
type ManageBookmarkUseCase struct {
	bookmarkRepo bookmark.Repository
	bookRepo     book.Repository
}

// NewManageBookmarkUseCase 创建收藏用例
func NewManageBookmarkUseCase(bookmarkRepo bookmark.Repository, bookRepo book.Repository) *ManageBookmarkUseCase {
	return &ManageBookmarkUseCase{
		bookmarkRepo: bookmarkRepo,
		bookRepo:     bookRepo,
	}
}

// ToggleResponse 收藏切换响应
type ToggleResponse struct {
	BookID     uint `json:"book_id"`
	Bookmarked bool `json:"bookmarked"`
}

// Toggle 切换收藏状态
func (uc *ManageBookmarkUseCase) Toggle(ctx context.Context, userID, bookID uint) (*ToggleResponse, error) {
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	bookmarked, err := uc.bookmarkRepo.Toggle(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return &ToggleResponse{BookID: bookID, Bookmarked: bookmarked}, nil
}

// BookmarkedBook 收藏列表条目
type BookmarkedBook struct {
	BookID       uint      `json:"book_id"`
	Title        string    `json:"title"`
	Price        int64     `json:"price"`
	AvgRating    float64   `json:"avg_rating"`
	ImagePath    string    `json:"image_path,omitempty"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
}

// List 查看收藏列表
func (uc *ManageBookmarkUseCase) List(ctx context.Context, userID uint) ([]BookmarkedBook, error) {
	marks, err := uc.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]BookmarkedBook, 0, len(marks))
	for _, m := range marks {
		b, err := uc.bookRepo.FindByID(ctx, m.BookID)
		if err != nil {
			return nil, err
		}
		out = append(out, BookmarkedBook{
			BookID:       b.ID,
			Title:        b.Title,
			Price:        b.Price,
			AvgRating:    b.AvgRating,
			ImagePath:    b.ImagePath,
			BookmarkedAt: m.BookmarkedAt,
		})
	}
	return out, nil
}
