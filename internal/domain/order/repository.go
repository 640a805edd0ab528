package order

import (
	"context"
)

// Repository 订单仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. 支持事务操作（通过context传递事务）
type Repository interface {
	// Create 创建订单（包含订单明细，须在同一事务中）
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单（包含订单明细）
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByClaimCode 根据领取码查找订单
	// 找不到返回ErrInvalidClaimCode（对外不区分"不存在"与"码错误"）
	FindByClaimCode(ctx context.Context, claimCode string) (*Order, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, order *Order) error

	// ListByUserID 查询用户的订单列表（分页）
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// ListAll 查询全部订单（员工视角，分页）
	ListAll(ctx context.Context, page, pageSize int) ([]*Order, int64, error)

	// HasFulfilledOrderWithBook 用户是否有包含某书的已完成订单（书评资格校验）
	HasFulfilledOrderWithBook(ctx context.Context, userID, bookID uint) (bool, error)

	// DeleteItemsByBook 删除涉及某书的订单明细（图书级联删除用）
	DeleteItemsByBook(ctx context.Context, bookID uint) error
}
