package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookshop/internal/domain/notify"
)

// ManageAnnouncementUseCase 公告管理用例
// 员工增删改查全量公告，会员只能看到当前时间窗口内的公告。
// 新建公告若已处于生效窗口，立即实时广播给在线客户端。
type ManageAnnouncementUseCase struct {
	announcementRepo notify.AnnouncementRepository
	broadcaster      notify.Broadcaster
}

// NewManageAnnouncementUseCase 创建公告管理用例
func NewManageAnnouncementUseCase(
	announcementRepo notify.AnnouncementRepository,
	broadcaster notify.Broadcaster,
) *ManageAnnouncementUseCase {
	return &ManageAnnouncementUseCase{
		announcementRepo: announcementRepo,
		broadcaster:      broadcaster,
	}
}

// AnnouncementRequest 公告创建/更新请求
type AnnouncementRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
}

// AnnouncementResponse 公告响应
type AnnouncementResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Active      bool      `json:"active"`
}

// Create 创建公告（员工）
func (uc *ManageAnnouncementUseCase) Create(ctx context.Context, staffID uint, req AnnouncementRequest) (*AnnouncementResponse, error) {
	a, err := notify.NewAnnouncement(req.Title, req.Description, req.StartAt, req.EndAt, staffID)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = time.Now()

	if err := uc.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	// 已在生效窗口的公告立即广播
	if a.IsActiveAt(time.Now()) {
		event := notify.Event{
			Type:        notify.EventAnnouncementOnline,
			ID:          uuid.NewString(),
			Title:       a.Title,
			Description: a.Description,
			Timestamp:   time.Now(),
		}
		if err := uc.broadcaster.Broadcast(ctx, event); err != nil {
			log.Printf("广播公告失败: announcement=%d err=%v", a.ID, err)
		}
	}

	return toAnnouncementResponse(a), nil
}

// Update 更新公告（员工）
func (uc *ManageAnnouncementUseCase) Update(ctx context.Context, id uint, req AnnouncementRequest) (*AnnouncementResponse, error) {
	a, err := uc.announcementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.EndAt.After(req.StartAt) {
		return nil, notify.ErrInvalidWindow
	}

	a.Title = req.Title
	a.Description = req.Description
	a.StartAt = req.StartAt
	a.EndAt = req.EndAt

	if err := uc.announcementRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAnnouncementResponse(a), nil
}

// Delete 删除公告（员工）
func (uc *ManageAnnouncementUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.announcementRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.announcementRepo.Delete(ctx, id)
}

// Get 查询单条公告
func (uc *ManageAnnouncementUseCase) Get(ctx context.Context, id uint) (*AnnouncementResponse, error) {
	a, err := uc.announcementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponse(a), nil
}

// ListActive 会员查询当前生效的公告
func (uc *ManageAnnouncementUseCase) ListActive(ctx context.Context) ([]*AnnouncementResponse, error) {
	announcements, err := uc.announcementRepo.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponses(announcements), nil
}

// ListAll 员工查询全部公告（含未生效/已过期）
func (uc *ManageAnnouncementUseCase) ListAll(ctx context.Context) ([]*AnnouncementResponse, error) {
	announcements, err := uc.announcementRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toAnnouncementResponses(announcements), nil
}

func toAnnouncementResponse(a *notify.Announcement) *AnnouncementResponse {
	return &AnnouncementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		StartAt:     a.StartAt,
		EndAt:       a.EndAt,
		Active:      a.IsActiveAt(time.Now()),
	}
}

func toAnnouncementResponses(as []*notify.Announcement) []*AnnouncementResponse {
	out := make([]*AnnouncementResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toAnnouncementResponse(a))
	}
	return out
}
