package order

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
)

// ListOrdersUseCase 订单查询用例
// 权限规则：会员只能看自己的订单，员工可以看全部订单
type ListOrdersUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
}

// NewListOrdersUseCase 创建订单查询用例
func NewListOrdersUseCase(orderRepo order.Repository, bookRepo book.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
	}
}

// OrderItemInfo 订单明细展示项
type OrderItemInfo struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// OrderInfo 订单展示信息
type OrderInfo struct {
	ID         uint            `json:"id"`
	UserID     uint            `json:"user_id"`
	ClaimCode  string          `json:"claim_code"`
	Status     string          `json:"status"`
	BaseAmount int64           `json:"base_amount"`
	Discount   int64           `json:"discount"`
	Payable    int64           `json:"payable"`
	Items      []OrderItemInfo `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Orders   []OrderInfo `json:"orders"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ListMine 会员查询自己的订单
func (uc *ListOrdersUseCase) ListMine(ctx context.Context, userID uint, page, pageSize int) (*ListOrdersResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(orders, total, page, pageSize), nil
}

// ListAll 员工查询全部订单
func (uc *ListOrdersUseCase) ListAll(ctx context.Context, page, pageSize int) (*ListOrdersResponse, error) {
	page, pageSize = normalizePage(page, pageSize)
	orders, total, err := uc.orderRepo.ListAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return uc.toListResponse(orders, total, page, pageSize), nil
}

// Get 查询单个订单（本人或员工）
func (uc *ListOrdersUseCase) Get(ctx context.Context, requesterID uint, isStaff bool, orderID uint) (*OrderInfo, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isStaff && !o.IsOwnedBy(requesterID) {
		return nil, order.ErrNotOwner
	}

	info := toOrderInfo(o)
	// 详情页补充书名，图书已删除的明细保留快照数据
	for i := range info.Items {
		if b, err := uc.bookRepo.FindByID(ctx, info.Items[i].BookID); err == nil {
			info.Items[i].Title = b.Title
		}
	}
	return info, nil
}

func (uc *ListOrdersUseCase) toListResponse(orders []*order.Order, total int64, page, pageSize int) *ListOrdersResponse {
	out := make([]OrderInfo, 0, len(orders))
	for _, o := range orders {
		out = append(out, *toOrderInfo(o))
	}
	return &ListOrdersResponse{
		Orders:   out,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}

func toOrderInfo(o *order.Order) *OrderInfo {
	items := make([]OrderItemInfo, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemInfo{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return &OrderInfo{
		ID:         o.ID,
		UserID:     o.UserID,
		ClaimCode:  o.ClaimCode,
		Status:     statusLabel(o.Status),
		BaseAmount: o.BaseAmount(),
		Discount:   o.Discount,
		Payable:    o.Payable(),
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}

// statusLabel 对外API使用英文状态标识
func statusLabel(s order.Status) string {
	switch s {
	case order.StatusPending:
		return "pending"
	case order.StatusCancelled:
		return "cancelled"
	case order.StatusFulfilled:
		return "fulfilled"
	default:
		return "unknown"
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
