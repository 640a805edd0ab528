package notify

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/pkg/errors"
)

// Announcement 公告实体
// 业务规则：公告仅在[StartAt, EndAt]时间窗口内对会员可见
type Announcement struct {
	ID          uint
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	CreatedBy   uint
	CreatedAt   time.Time
}

// IsActiveAt 公告在指定时刻是否可见
func (a *Announcement) IsActiveAt(t time.Time) bool {
	return !t.Before(a.StartAt) && !t.After(a.EndAt)
}

// Notification 站内通知实体
// 订单完成时为订单中每本书生成一条个人通知
type Notification struct {
	ID        uint
	UserID    uint
	BookID    *uint // 关联图书（图书类通知携带，系统类通知为空）
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

// 领域错误
var (
	ErrAnnouncementNotFound = errors.New(errors.ErrCodeAnnouncementNotFound, "公告不存在")
	ErrNotificationNotFound = errors.New(errors.ErrCodeNotificationNotFound, "通知不存在")
	ErrInvalidWindow        = errors.New(errors.ErrCodeInvalidParams, "公告结束时间必须晚于开始时间")
)

// NewAnnouncement 创建公告（校验时间窗口）
func NewAnnouncement(title, description string, startAt, endAt time.Time, createdBy uint) (*Announcement, error) {
	if !endAt.After(startAt) {
		return nil, ErrInvalidWindow
	}
	return &Announcement{
		Title:       title,
		Description: description,
		StartAt:     startAt,
		EndAt:       endAt,
		CreatedBy:   createdBy,
	}, nil
}

// AnnouncementRepository 公告仓储接口
type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	FindByID(ctx context.Context, id uint) (*Announcement, error)
	// ListActive 查询指定时刻窗口内的公告
	ListActive(ctx context.Context, at time.Time) ([]*Announcement, error)
	// ListAll 员工视角的全部公告
	ListAll(ctx context.Context) ([]*Announcement, error)
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id uint) error
}

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uint) (*Notification, error)
	ListByUser(ctx context.Context, userID uint) ([]*Notification, error)
	// MarkRead 将通知标记为已读（幂等）
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}
