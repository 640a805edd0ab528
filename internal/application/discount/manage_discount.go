package discount

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
)

// ManageDiscountUseCase 折扣管理用例（员工）
// 业务规则：
// 1. 折扣率以基点表示，必须在(0, 10000]区间
// 2. 时间窗口必须有效（结束晚于开始）
// 3. 折扣只能挂在存在的图书上
type ManageDiscountUseCase struct {
	bookRepo     book.Repository
	discountRepo book.DiscountRepository
}

// NewManageDiscountUseCase 创建折扣管理用例
func NewManageDiscountUseCase(bookRepo book.Repository, discountRepo book.DiscountRepository) *ManageDiscountUseCase {
	return &ManageDiscountUseCase{
		bookRepo:     bookRepo,
		discountRepo: discountRepo,
	}
}

// CreateDiscountRequest 创建折扣请求
type CreateDiscountRequest struct {
	BookID  uint      `json:"book_id" binding:"required"`
	RateBps int64     `json:"rate_bps" binding:"required"`
	OnSale  bool      `json:"on_sale"`
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required"`
}

// DiscountResponse 折扣响应
type DiscountResponse struct {
	ID      uint      `json:"id"`
	BookID  uint      `json:"book_id"`
	RateBps int64     `json:"rate_bps"`
	OnSale  bool      `json:"on_sale"`
	Active  bool      `json:"active"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// Create 创建折扣
func (uc *ManageDiscountUseCase) Create(ctx context.Context, req CreateDiscountRequest) (*DiscountResponse, error) {
	if req.RateBps <= 0 || req.RateBps > 10000 {
		return nil, book.ErrInvalidDiscountRate
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, book.ErrInvalidDiscountWindow
	}

	// 校验图书存在
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	d := &book.Discount{
		BookID:    req.BookID,
		RateBps:   req.RateBps,
		OnSale:    req.OnSale,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		CreatedAt: time.Now(),
	}
	if err := uc.discountRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDiscountResponse(d, time.Now()), nil
}

// Get 查询单个折扣
func (uc *ManageDiscountUseCase) Get(ctx context.Context, id uint) (*DiscountResponse, error) {
	d, err := uc.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDiscountResponse(d, time.Now()), nil
}

// ListActive 查询当前生效的全部折扣
func (uc *ManageDiscountUseCase) ListActive(ctx context.Context) ([]*DiscountResponse, error) {
	discounts, err := uc.discountRepo.ListActive(ctx, 0)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*DiscountResponse, 0, len(discounts))
	for i := range discounts {
		out = append(out, toDiscountResponse(&discounts[i], now))
	}
	return out, nil
}

// ListByBook 查询某图书的全部折扣
func (uc *ManageDiscountUseCase) ListByBook(ctx context.Context, bookID uint) ([]*DiscountResponse, error) {
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	discounts, err := uc.discountRepo.ListByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*DiscountResponse, 0, len(discounts))
	for i := range discounts {
		out = append(out, toDiscountResponse(&discounts[i], now))
	}
	return out, nil
}

// Delete 删除折扣
func (uc *ManageDiscountUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.discountRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.discountRepo.Delete(ctx, id)
}

func toDiscountResponse(d *book.Discount, now time.Time) *DiscountResponse {
	return &DiscountResponse{
		ID:      d.ID,
		BookID:  d.BookID,
		RateBps: d.RateBps,
		OnSale:  d.OnSale,
		Active:  d.IsActiveAt(now),
		StartAt: d.StartAt,
		EndAt:   d.EndAt,
	}
}
