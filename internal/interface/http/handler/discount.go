package handler

import (
	"github.com/gin-gonic/gin"

	appdiscount "github.com/xiebiao/bookshop/internal/application/discount"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// DiscountHandler 折扣HTTP处理器
type DiscountHandler struct {
	discountUseCase *appdiscount.ManageDiscountUseCase
}

// NewDiscountHandler 创建折扣处理器
func NewDiscountHandler(discountUseCase *appdiscount.ManageDiscountUseCase) *DiscountHandler {
	return &DiscountHandler{discountUseCase: discountUseCase}
}

// Create 创建折扣
// @Summary      创建折扣
// @Description  员工为图书设置时间窗口内的百分比折扣
// @Tags         折扣
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body discount.CreateDiscountRequest true "折扣信息"
// @Success      200 {object} response.Response{data=discount.DiscountResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/discounts [post]
func (h *DiscountHandler) Create(c *gin.Context) {
	var req appdiscount.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.discountUseCase.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 折扣详情
// @Summary      折扣详情
// @Tags         折扣
// @Produce      json
// @Param        id path int true "折扣ID"
// @Success      200 {object} response.Response{data=discount.DiscountResponse}
// @Failure      404 {object} response.Response "折扣不存在"
// @Router       /api/v1/discounts/{id} [get]
func (h *DiscountHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.discountUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListActive 当前生效的折扣列表
// @Summary      生效折扣列表
// @Tags         折扣
// @Produce      json
// @Success      200 {object} response.Response{data=[]discount.DiscountResponse}
// @Router       /api/v1/discounts [get]
func (h *DiscountHandler) ListActive(c *gin.Context) {
	result, err := h.discountUseCase.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListByBook 某图书的折扣列表
// @Summary      图书折扣列表
// @Tags         折扣
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]discount.DiscountResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/discounts [get]
func (h *DiscountHandler) ListByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.discountUseCase.ListByBook(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除折扣
// @Summary      删除折扣
// @Tags         折扣
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "折扣ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      404 {object} response.Response "折扣不存在"
// @Router       /api/v1/discounts/{id} [delete]
func (h *DiscountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.discountUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
