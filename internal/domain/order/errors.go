package order

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrInvalidClaimCode 领取码无效
	ErrInvalidClaimCode = apperrors.New(apperrors.ErrCodeInvalidClaimCode, "领取码无效")

	// ErrNotOwner 只能操作自己的订单
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "只能操作自己的订单")
)
