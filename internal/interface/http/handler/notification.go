package handler

import (
	"github.com/gin-gonic/gin"

	appnotify "github.com/xiebiao/bookshop/internal/application/notify"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/response"
)

// NotificationHandler 站内通知HTTP处理器
type NotificationHandler struct {
	notificationUseCase *appnotify.NotificationUseCase
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(notificationUseCase *appnotify.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{notificationUseCase: notificationUseCase}
}

// List 通知列表
// @Summary      我的通知
// @Tags         通知
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]notify.NotificationInfo}
// @Router       /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	result, err := h.notificationUseCase.List(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// MarkRead 标记已读
// @Summary      标记通知已读
// @Description  幂等操作，只能标记自己的通知
// @Tags         通知
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "通知ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "只能操作自己的通知"
// @Router       /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.notificationUseCase.MarkRead(c.Request.Context(), middleware.MustGetUserID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
