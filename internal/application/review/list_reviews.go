package review

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/review"
)

// ListReviewsUseCase 书评列表用例
type ListReviewsUseCase struct {
	reviewRepo review.Repository
	bookRepo   book.Repository
}

// NewListReviewsUseCase 创建书评列表用例
func NewListReviewsUseCase(reviewRepo review.Repository, bookRepo book.Repository) *ListReviewsUseCase {
	return &ListReviewsUseCase{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
	}
}

// ReviewInfo 书评展示项
type ReviewInfo struct {
	ID           uint      `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	ReviewerName string    `json:"reviewer_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListReviewsResponse 书评列表响应
type ListReviewsResponse struct {
	BookID    uint         `json:"book_id"`
	AvgRating float64      `json:"avg_rating"`
	Reviews   []ReviewInfo `json:"reviews"`
}

// Execute 查询某书的全部书评
func (uc *ListReviewsUseCase) Execute(ctx context.Context, bookID uint) (*ListReviewsResponse, error) {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := uc.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewInfo, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewInfo{
			ID:           r.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			ReviewerName: r.ReviewerName,
			CreatedAt:    r.CreatedAt,
		})
	}

	return &ListReviewsResponse{
		BookID:    bookID,
		AvgRating: b.AvgRating,
		Reviews:   out,
	}, nil
}
