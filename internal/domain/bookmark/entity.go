package bookmark

import (
	"context"
	"time"
)

// Bookmark 收藏记录
// 设计说明：(UserID, BookID)存在即收藏，toggle语义——
// 再次操作删除记录，回到未收藏状态
type Bookmark struct {
	ID           uint
	UserID       uint
	BookID       uint
	BookmarkedAt time.Time
}

// Repository 收藏仓储接口
type Repository interface {
	// Toggle 切换收藏状态，返回操作后是否处于已收藏
	Toggle(ctx context.Context, userID, bookID uint) (bookmarked bool, err error)

	// ListByUser 查询用户的全部收藏
	ListByUser(ctx context.Context, userID uint) ([]*Bookmark, error)

	// DeleteByBook 删除某本书的全部收藏（图书级联删除用）
	DeleteByBook(ctx context.Context, bookID uint) error
}
