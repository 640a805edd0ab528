package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/outbox"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// outboxRepository 收据发件箱仓储实现(MySQL)
type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository 创建发件箱仓储
func NewOutboxRepository(db *gorm.DB) outbox.Repository {
	return &outboxRepository{db: db}
}

// Create 插入pending收据(下单事务内调用)
func (r *outboxRepository) Create(ctx context.Context, rec *outbox.Receipt) error {
	model := &ReceiptModel{
		OrderID: rec.OrderID,
		Email:   rec.Email,
		Subject: rec.Subject,
		Body:    rec.Body,
		Status:  outbox.StatusPending,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入收据发件箱失败")
	}

	rec.ID = model.ID
	rec.Status = model.Status
	rec.CreatedAt = model.CreatedAt
	return nil
}

// ListPending 取出一批待发送的收据(按创建时间升序)
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]*outbox.Receipt, error) {
	var models []ReceiptModel
	err := getDB(ctx, r.db).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询待发送收据失败")
	}

	receipts := make([]*outbox.Receipt, len(models))
	for i := range models {
		receipts[i] = toReceiptEntity(&models[i])
	}
	return receipts, nil
}

// MarkSent 标记发送成功
func (r *outboxRepository) MarkSent(ctx context.Context, id uint) error {
	now := time.Now()
	err := getDB(ctx, r.db).Model(&ReceiptModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  outbox.StatusSent,
			"sent_at": now,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "标记收据发送成功失败")
	}
	return nil
}

// MarkFailed 记录一次失败,attempts达到上限后不再重试
func (r *outboxRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	db := getDB(ctx, r.db)

	// 先累加attempts并记录原因
	err := db.Model(&ReceiptModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, "记录收据发送失败失败")
	}

	// 达到上限的置为failed,worker不再取出
	err = db.Model(&ReceiptModel{}).
		Where("id = ? AND attempts >= ?", id, outbox.MaxAttempts).
		Update("status", outbox.StatusFailed).Error
	if err != nil {
		return apperrors.Wrap(err, "标记收据发送终止失败")
	}
	return nil
}

// toReceiptEntity GORM模型 → 领域实体
func toReceiptEntity(model *ReceiptModel) *outbox.Receipt {
	return &outbox.Receipt{
		ID:        model.ID,
		OrderID:   model.OrderID,
		Email:     model.Email,
		Subject:   model.Subject,
		Body:      model.Body,
		Status:    model.Status,
		Attempts:  model.Attempts,
		LastError: model.LastError,
		CreatedAt: model.CreatedAt,
		SentAt:    model.SentAt,
	}
}
