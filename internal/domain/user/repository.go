package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建用户
	// 注意：如果用户名已存在，应返回errors.ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	FindByUsername(ctx context.Context, username string) (*User, error)

	// LockByID 悲观锁查询用户（下单时锁定忠诚折扣字段）
	// 防止并发下单重复消费同一份待用折扣率
	LockByID(ctx context.Context, id uint) (*User, error)

	// UpdateLoyalty 更新下单计数与待消费折扣率
	// 与订单创建在同一事务中调用
	UpdateLoyalty(ctx context.Context, id uint, fulfilledOrders int, loyaltyRateBps int64) error

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error
}
