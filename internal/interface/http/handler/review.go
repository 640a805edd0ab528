package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookshop/internal/application/review"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	createUseCase *appreview.CreateReviewUseCase
	listUseCase   *appreview.ListReviewsUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(
	createUseCase *appreview.CreateReviewUseCase,
	listUseCase *appreview.ListReviewsUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 发表书评
// @Summary      发表书评
// @Description  仅限购买过该书（已完成订单）的会员，一人一书一评
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body review.CreateReviewRequest true "书评内容"
// @Success      200 {object} response.Response{data=review.CreateReviewResponse}
// @Failure      400 {object} response.Response "未购买过该书 / 重复书评"
// @Router       /api/v1/books/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appreview.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}
	req.UserID = middleware.MustGetUserID(c)
	req.BookID = bookID

	result, err := h.createUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 书评列表
// @Summary      书评列表
// @Tags         书评
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=review.ListReviewsResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
