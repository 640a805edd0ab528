package notify

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// NotificationUseCase 站内通知用例（会员）
type NotificationUseCase struct {
	notificationRepo notify.NotificationRepository
}

// NewNotificationUseCase 创建通知用例
func NewNotificationUseCase(notificationRepo notify.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

// NotificationInfo 通知展示项
type NotificationInfo struct {
	ID        uint      `json:"id"`
	BookID    *uint     `json:"book_id,omitempty"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// List 查询自己的全部通知
func (uc *NotificationUseCase) List(ctx context.Context, userID uint) ([]NotificationInfo, error) {
	notifications, err := uc.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]NotificationInfo, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, NotificationInfo{
			ID:        n.ID,
			BookID:    n.BookID,
			Content:   n.Content,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead 标记通知已读（只能操作自己的通知，幂等）
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID uint) error {
	n, err := uc.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperrors.New(apperrors.ErrCodeForbidden, "只能操作自己的通知")
	}
	return uc.notificationRepo.MarkRead(ctx, notificationID)
}
