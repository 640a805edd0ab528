package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/bookmark"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookmarkRepository 收藏仓储实现(MySQL)
type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository 创建收藏仓储
func NewBookmarkRepository(db *gorm.DB) bookmark.Repository {
	return &bookmarkRepository{db: db}
}

// Toggle 切换收藏状态
// 已收藏则取消并返回false,未收藏则新建并返回true
func (r *bookmarkRepository) Toggle(ctx context.Context, userID, bookID uint) (bool, error) {
	db := getDB(ctx, r.db)

	var model BookmarkModel
	err := db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&model).Error

	switch {
	case err == nil:
		// 已收藏,取消
		if err := db.Delete(&BookmarkModel{}, model.ID).Error; err != nil {
			return false, apperrors.Wrap(err, "取消收藏失败")
		}
		return false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// 未收藏,新建
		create := &BookmarkModel{
			UserID:       userID,
			BookID:       bookID,
			BookmarkedAt: time.Now(),
		}
		if err := db.Create(create).Error; err != nil {
			// 并发toggle撞上唯一索引,视为已收藏
			if isDuplicateError(err) {
				return true, nil
			}
			return false, apperrors.Wrap(err, "收藏失败")
		}
		return true, nil

	default:
		return false, apperrors.Wrap(err, "查询收藏失败")
	}
}

// ListByUser 查询用户的全部收藏
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]*bookmark.Bookmark, error) {
	var models []BookmarkModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("bookmarked_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询收藏失败")
	}

	bookmarks := make([]*bookmark.Bookmark, len(models))
	for i := range models {
		bookmarks[i] = &bookmark.Bookmark{
			ID:           models[i].ID,
			UserID:       models[i].UserID,
			BookID:       models[i].BookID,
			BookmarkedAt: models[i].BookmarkedAt,
		}
	}
	return bookmarks, nil
}

// DeleteByBook 删除某本书的全部收藏(图书级联删除用)
func (r *bookmarkRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&BookmarkModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除收藏失败")
	}
	return nil
}
