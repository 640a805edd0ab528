package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/cart"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// cartRepository 购物车仓储实现(MySQL)
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// AddOrIncrement 加购:已有条目则累加数量,否则新建
// 教学要点:利用(user_id, book_id)唯一索引做UPSERT,避免"查一次再写"的竞态
func (r *cartRepository) AddOrIncrement(ctx context.Context, userID, bookID uint, quantity int) error {
	model := &CartItemModel{
		UserID:   userID,
		BookID:   bookID,
		Quantity: quantity,
		AddedAt:  time.Now(),
	}

	// INSERT ... ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)
	err := getDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(model).Error

	if err != nil {
		return apperrors.Wrap(err, "加入购物车失败")
	}
	return nil
}

// ListByUser 查询用户的全部购物车条目
func (r *cartRepository) ListByUser(ctx context.Context, userID uint) ([]*cart.Item, error) {
	var models []CartItemModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("added_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	items := make([]*cart.Item, len(models))
	for i := range models {
		items[i] = &cart.Item{
			ID:       models[i].ID,
			UserID:   models[i].UserID,
			BookID:   models[i].BookID,
			Quantity: models[i].Quantity,
			AddedAt:  models[i].AddedAt,
		}
	}
	return items, nil
}

// Remove 移除某本书的条目
func (r *cartRepository) Remove(ctx context.Context, userID, bookID uint) error {
	result := getDB(ctx, r.db).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&CartItemModel{})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "移除购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

// DeleteByUser 清空用户购物车(下单成功后在同一事务中调用)
func (r *cartRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

// DeleteByBook 删除所有用户购物车中的某本书(图书级联删除用)
func (r *cartRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除购物车条目失败")
	}
	return nil
}
