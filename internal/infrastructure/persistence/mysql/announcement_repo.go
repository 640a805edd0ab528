package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// announcementRepository 公告仓储实现(MySQL)
type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository 创建公告仓储
func NewAnnouncementRepository(db *gorm.DB) notify.AnnouncementRepository {
	return &announcementRepository{db: db}
}

// Create 创建公告
func (r *announcementRepository) Create(ctx context.Context, a *notify.Announcement) error {
	model := toAnnouncementModel(a)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建公告失败")
	}

	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找公告
func (r *announcementRepository) FindByID(ctx context.Context, id uint) (*notify.Announcement, error) {
	var model AnnouncementModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notify.ErrAnnouncementNotFound
		}
		return nil, apperrors.Wrap(err, "查询公告失败")
	}

	return toAnnouncementEntity(&model), nil
}

// ListActive 查询指定时刻窗口内的公告
func (r *announcementRepository) ListActive(ctx context.Context, at time.Time) ([]*notify.Announcement, error) {
	var models []AnnouncementModel
	err := getDB(ctx, r.db).
		Where("start_at <= ? AND end_at >= ?", at, at).
		Order("start_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询公告失败")
	}

	return toAnnouncementEntities(models), nil
}

// ListAll 员工视角的全部公告
func (r *announcementRepository) ListAll(ctx context.Context) ([]*notify.Announcement, error) {
	var models []AnnouncementModel
	err := getDB(ctx, r.db).Order("start_at DESC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询公告列表失败")
	}

	return toAnnouncementEntities(models), nil
}

// Update 更新公告
func (r *announcementRepository) Update(ctx context.Context, a *notify.Announcement) error {
	result := getDB(ctx, r.db).Model(&AnnouncementModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]interface{}{
			"title":       a.Title,
			"description": a.Description,
			"start_at":    a.StartAt,
			"end_at":      a.EndAt,
		})

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新公告失败")
	}
	if result.RowsAffected == 0 {
		return notify.ErrAnnouncementNotFound
	}
	return nil
}

// Delete 删除公告
func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&AnnouncementModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除公告失败")
	}
	if result.RowsAffected == 0 {
		return notify.ErrAnnouncementNotFound
	}
	return nil
}

// toAnnouncementModel 领域实体 → GORM模型
func toAnnouncementModel(a *notify.Announcement) *AnnouncementModel {
	return &AnnouncementModel{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		StartAt:     a.StartAt,
		EndAt:       a.EndAt,
		CreatedBy:   a.CreatedBy,
		CreatedAt:   a.CreatedAt,
	}
}

// toAnnouncementEntity GORM模型 → 领域实体
func toAnnouncementEntity(model *AnnouncementModel) *notify.Announcement {
	return &notify.Announcement{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		StartAt:     model.StartAt,
		EndAt:       model.EndAt,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
	}
}

func toAnnouncementEntities(models []AnnouncementModel) []*notify.Announcement {
	out := make([]*notify.Announcement, len(models))
	for i := range models {
		out[i] = toAnnouncementEntity(&models[i])
	}
	return out
}
