package cart

import (
	"context"
	"time"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Item 购物车条目
// 设计说明：
// 1. (UserID, BookID)唯一，一人一书一行
// 2. 重复加购累加数量（与收藏的toggle语义不同）
// 3. 下单成功后整车删除，条目是短命数据
type Item struct {
	ID       uint
	UserID   uint
	BookID   uint
	Quantity int
	AddedAt  time.Time
}

// 购物车领域错误定义
var (
	// ErrInvalidQuantity 数量必须大于0
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")

	// ErrItemNotFound 购物车中没有该图书
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeNotFound, "购物车中没有该图书")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.New(apperrors.ErrCodeEmptyCart, "购物车是空的")
)

// Repository 购物车仓储接口
type Repository interface {
	// AddOrIncrement 加购：已有条目则累加数量，否则新建
	AddOrIncrement(ctx context.Context, userID, bookID uint, quantity int) error

	// ListByUser 查询用户的全部购物车条目
	ListByUser(ctx context.Context, userID uint) ([]*Item, error)

	// Remove 移除某本书的条目
	Remove(ctx context.Context, userID, bookID uint) error

	// DeleteByUser 清空用户购物车（下单成功后调用，需参与事务）
	DeleteByUser(ctx context.Context, userID uint) error

	// DeleteByBook 删除所有用户购物车中的某本书（图书级联删除用）
	DeleteByBook(ctx context.Context, bookID uint) error
}
