package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	placeUseCase   *apporder.PlaceOrderUseCase
	cancelUseCase  *apporder.CancelOrderUseCase
	fulfillUseCase *apporder.FulfillOrderUseCase
	listUseCase    *apporder.ListOrdersUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	placeUseCase *apporder.PlaceOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	fulfillUseCase *apporder.FulfillOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
) *OrderHandler {
	return &OrderHandler{
		placeUseCase:   placeUseCase,
		cancelUseCase:  cancelUseCase,
		fulfillUseCase: fulfillUseCase,
		listUseCase:    listUseCase,
	}
}

// Place 下单
// @Summary      下单
// @Description  以整个购物车下单：锁定库存、计算批量/忠诚折扣、生成领取码、清空购物车
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=order.PlaceOrderResponse}
// @Failure      400 {object} response.Response "购物车为空或库存不足"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	result, err := h.placeUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Cancel 取消订单
// @Summary      取消订单
// @Description  会员取消自己的待处理订单，库存归还
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response
// @Failure      403 {object} response.Response "只能操作自己的订单"
// @Failure      400 {object} response.Response "订单状态不允许此操作"
// @Router       /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.cancelUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// fulfillRequest 核销请求体
type fulfillRequest struct {
	ClaimCode string `json:"claim_code" binding:"required,len=32"`
}

// Fulfill 核销订单
// @Summary      核销订单
// @Description  员工凭领取码完成订单，逐本生成站内通知并实时广播
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body fulfillRequest true "领取码"
// @Success      200 {object} response.Response{data=order.FulfillOrderResponse}
// @Failure      403 {object} response.Response "仅限员工"
// @Failure      404 {object} response.Response "领取码无效"
// @Router       /api/v1/orders/fulfill [post]
func (h *OrderHandler) Fulfill(c *gin.Context) {
	var req fulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.fulfillUseCase.Execute(c.Request.Context(), req.ClaimCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 订单列表
// @Summary      订单列表
// @Description  会员看自己的订单，员工看全部订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=order.ListOrdersResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var (
		result *apporder.ListOrdersResponse
		err    error
	)
	if middleware.IsStaff(c) {
		result, err = h.listUseCase.ListAll(c.Request.Context(), page, pageSize)
	} else {
		result, err = h.listUseCase.ListMine(c.Request.Context(), middleware.MustGetUserID(c), page, pageSize)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 订单详情
// @Summary      订单详情
// @Description  本人或员工可查看
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=order.OrderInfo}
// @Failure      403 {object} response.Response "只能查看自己的订单"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.listUseCase.Get(
		c.Request.Context(), middleware.MustGetUserID(c), middleware.IsStaff(c), orderID,
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
