package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// notificationRepository 站内通知仓储实现(MySQL)
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储
func NewNotificationRepository(db *gorm.DB) notify.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create 创建通知(订单完成时在同一事务中调用)
func (r *notificationRepository) Create(ctx context.Context, n *notify.Notification) error {
	model := &NotificationModel{
		UserID:  n.UserID,
		BookID:  n.BookID,
		Content: n.Content,
		IsRead:  n.IsRead,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建通知失败")
	}

	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找通知
func (r *notificationRepository) FindByID(ctx context.Context, id uint) (*notify.Notification, error) {
	var model NotificationModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notify.ErrNotificationNotFound
		}
		return nil, apperrors.Wrap(err, "查询通知失败")
	}

	return toNotificationEntity(&model), nil
}

// ListByUser 查询用户的全部通知(未读在前,时间倒序)
func (r *notificationRepository) ListByUser(ctx context.Context, userID uint) ([]*notify.Notification, error) {
	var models []NotificationModel
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("is_read ASC, created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询通知列表失败")
	}

	notifications := make([]*notify.Notification, len(models))
	for i := range models {
		notifications[i] = toNotificationEntity(&models[i])
	}
	return notifications, nil
}

// MarkRead 将通知标记为已读(幂等)
func (r *notificationRepository) MarkRead(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Model(&NotificationModel{}).
		Where("id = ?", id).
		Update("is_read", true)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "标记已读失败")
	}
	if result.RowsAffected == 0 {
		// 已读的通知再次标记RowsAffected也为0,查一次区分
		var model NotificationModel
		if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notify.ErrNotificationNotFound
			}
			return apperrors.Wrap(err, "查询通知失败")
		}
	}
	return nil
}

// Delete 删除通知
func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&NotificationModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除通知失败")
	}
	if result.RowsAffected == 0 {
		return notify.ErrNotificationNotFound
	}
	return nil
}

// toNotificationEntity GORM模型 → 领域实体
func toNotificationEntity(model *NotificationModel) *notify.Notification {
	return &notify.Notification{
		ID:        model.ID,
		UserID:    model.UserID,
		BookID:    model.BookID,
		Content:   model.Content,
		IsRead:    model.IsRead,
		CreatedAt: model.CreatedAt,
	}
}
