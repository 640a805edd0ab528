package cart

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
)

// ManageCartUseCase 购物车用例（会员）
// 业务规则：
// 1. 重复加购累加数量
// 2. 加购时校验图书存在且当前库存能覆盖购物车中的累计数量
//    （最终保证仍在下单时的锁定与扣减，这里只做前置提示）
type ManageCartUseCase struct {
	cartRepo cart.Repository
	bookRepo book.Repository
}

// NewManageCartUseCase 创建购物车用例
func NewManageCartUseCase(cartRepo cart.Repository, bookRepo book.Repository) *ManageCartUseCase {
	return &ManageCartUseCase{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	UserID   uint `json:"-"`
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// Add 加购
func (uc *ManageCartUseCase) Add(ctx context.Context, req AddToCartRequest) error {
	if req.Quantity <= 0 {
		return cart.ErrInvalidQuantity
	}

	b, err := uc.bookRepo.FindByID(ctx, req.BookID)
	if err != nil {
		return err
	}
	if b.Stock < req.Quantity {
		return book.ErrInsufficientStock
	}

	return uc.cartRepo.AddOrIncrement(ctx, req.UserID, req.BookID, req.Quantity)
}

// CartLine 购物车条目（含图书信息）
type CartLine struct {
	BookID    uint      `json:"book_id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Subtotal  int64     `json:"subtotal"`
	Stock     int       `json:"stock"`
	ImagePath string    `json:"image_path,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items      []CartLine `json:"items"`
	TotalQty   int        `json:"total_qty"`
	BaseAmount int64      `json:"base_amount"`
}

// List 查看购物车
func (uc *ManageCartUseCase) List(ctx context.Context, userID uint) (*CartResponse, error) {
	items, err := uc.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		b, err := uc.bookRepo.FindByID(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		subtotal := b.Price * int64(item.Quantity)
		resp.Items = append(resp.Items, CartLine{
			BookID:    b.ID,
			Title:     b.Title,
			Price:     b.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
			Stock:     b.Stock,
			ImagePath: b.ImagePath,
			AddedAt:   item.AddedAt,
		})
		resp.TotalQty += item.Quantity
		resp.BaseAmount += subtotal
	}
	return resp, nil
}

// Remove 移除某本书的条目
func (uc *ManageCartUseCase) Remove(ctx context.Context, userID, bookID uint) error {
	return uc.cartRepo.Remove(ctx, userID, bookID)
}
