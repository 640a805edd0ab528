package handler

import (
	"github.com/gin-gonic/gin"

	appnotify "github.com/xiebiao/bookshop/internal/application/notify"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// AnnouncementHandler 公告HTTP处理器
type AnnouncementHandler struct {
	announcementUseCase *appnotify.ManageAnnouncementUseCase
}

// NewAnnouncementHandler 创建公告处理器
func NewAnnouncementHandler(announcementUseCase *appnotify.ManageAnnouncementUseCase) *AnnouncementHandler {
	return &AnnouncementHandler{announcementUseCase: announcementUseCase}
}

// Create 发布公告
// @Summary      发布公告
// @Description  员工发布时间窗口公告，窗口内的公告立即实时广播
// @Tags         公告
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body notify.AnnouncementRequest true "公告内容"
// @Success      200 {object} response.Response{data=notify.AnnouncementResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req appnotify.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.announcementUseCase.Create(c.Request.Context(), middleware.MustGetUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 更新公告
// @Summary      更新公告
// @Tags         公告
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "公告ID"
// @Param        request body notify.AnnouncementRequest true "公告内容"
// @Success      200 {object} response.Response{data=notify.AnnouncementResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      404 {object} response.Response "公告不存在"
// @Router       /api/v1/announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appnotify.AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.announcementUseCase.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除公告
// @Summary      删除公告
// @Tags         公告
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "公告ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "仅限员工"
// @Router       /api/v1/announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.announcementUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Get 公告详情
// @Summary      公告详情
// @Tags         公告
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "公告ID"
// @Success      200 {object} response.Response{data=notify.AnnouncementResponse}
// @Failure      404 {object} response.Response "公告不存在"
// @Router       /api/v1/announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.announcementUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 公告列表
// @Summary      公告列表
// @Description  会员看到当前生效的公告，员工可加all=true查看全部
// @Tags         公告
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "员工查看全部公告"
// @Success      200 {object} response.Response{data=[]notify.AnnouncementResponse}
// @Router       /api/v1/announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	if c.Query("all") == "true" && middleware.IsStaff(c) {
		result, err := h.announcementUseCase.ListAll(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	result, err := h.announcementUseCase.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
