package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// discountRepository 折扣仓储实现(MySQL)
type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository 创建折扣仓储
func NewDiscountRepository(db *gorm.DB) book.DiscountRepository {
	return &discountRepository{db: db}
}

// Create 创建折扣
func (r *discountRepository) Create(ctx context.Context, d *book.Discount) error {
	model := &DiscountModel{
		BookID:  d.BookID,
		RateBps: d.RateBps,
		OnSale:  d.OnSale,
		StartAt: d.StartAt,
		EndAt:   d.EndAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建折扣失败")
	}

	d.ID = model.ID
	d.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找折扣
func (r *discountRepository) FindByID(ctx context.Context, id uint) (*book.Discount, error) {
	var model DiscountModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrDiscountNotFound
		}
		return nil, apperrors.Wrap(err, "查询折扣失败")
	}

	d := toDiscountEntity(&model)
	return &d, nil
}

// ListByBookID 查询某图书的全部折扣
func (r *discountRepository) ListByBookID(ctx context.Context, bookID uint) ([]book.Discount, error) {
	var models []DiscountModel
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Order("start_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询折扣列表失败")
	}

	return toDiscountEntities(models), nil
}

// ListActive 查询当前时间窗口内的折扣
func (r *discountRepository) ListActive(ctx context.Context, bookID uint) ([]book.Discount, error) {
	now := time.Now()
	query := getDB(ctx, r.db).
		Where("start_at <= ? AND end_at >= ?", now, now)
	if bookID != 0 {
		query = query.Where("book_id = ?", bookID)
	}

	var models []DiscountModel
	if err := query.Order("start_at DESC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询生效折扣失败")
	}

	return toDiscountEntities(models), nil
}

// Delete 删除折扣
func (r *discountRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&DiscountModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除折扣失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrDiscountNotFound
	}
	return nil
}

// DeleteByBookID 删除某图书的全部折扣(图书级联删除用)
func (r *discountRepository) DeleteByBookID(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&DiscountModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "删除图书折扣失败")
	}
	return nil
}

// toDiscountEntity GORM模型 → 领域实体
func toDiscountEntity(model *DiscountModel) book.Discount {
	return book.Discount{
		ID:        model.ID,
		BookID:    model.BookID,
		RateBps:   model.RateBps,
		OnSale:    model.OnSale,
		StartAt:   model.StartAt,
		EndAt:     model.EndAt,
		CreatedAt: model.CreatedAt,
	}
}

func toDiscountEntities(models []DiscountModel) []book.Discount {
	out := make([]book.Discount, len(models))
	for i := range models {
		out[i] = toDiscountEntity(&models[i])
	}
	return out
}
