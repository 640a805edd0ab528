package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
// 设计说明：
// 1. 由domain层定义接口，infrastructure层实现
// 2. List返回实体及其折扣（目录页需要计算展示价），避免N+1查询
type Repository interface {
	// Create 创建图书（含作者/类目关联）
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息（含作者/类目关联的整体替换）
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书本体（关联数据的级联清理由应用层在事务内显式执行）
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表，附带各书的折扣列表
	List(ctx context.Context, params ListParams) ([]*Book, map[uint][]Discount, int64, error)

	// LockByID 悲观锁查询图书（用于订单创建时锁定库存）
	// SELECT FOR UPDATE锁定行，防止并发超卖
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 更新库存（原子操作）
	// delta为正数表示增加，负数表示减少
	// 内部会检查库存是否充足，不足则返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error

	// UpdateAvgRating 更新书评均分冗余字段
	UpdateAvgRating(ctx context.Context, id uint, avg float64) error
}

// DiscountRepository 折扣仓储接口
type DiscountRepository interface {
	// Create 创建折扣
	Create(ctx context.Context, d *Discount) error

	// FindByID 根据ID查找折扣
	FindByID(ctx context.Context, id uint) (*Discount, error)

	// ListByBookID 查询某图书的全部折扣
	ListByBookID(ctx context.Context, bookID uint) ([]Discount, error)

	// ListActive 查询当前时间窗口内的折扣（bookID为0表示不按图书过滤）
	ListActive(ctx context.Context, bookID uint) ([]Discount, error)

	// Delete 删除折扣
	Delete(ctx context.Context, id uint) error

	// DeleteByBookID 删除某图书的全部折扣（图书级联删除用）
	DeleteByBookID(ctx context.Context, bookID uint) error
}
