package book

import (
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须大于0")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.New(apperrors.ErrCodeInvalidParams, "库存不能为负数")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrDiscountNotFound 折扣不存在
	ErrDiscountNotFound = apperrors.New(apperrors.ErrCodeDiscountNotFound, "折扣不存在")

	// ErrInvalidDiscountRate 折扣率必须在0-100%之间
	ErrInvalidDiscountRate = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣率必须在0-100%之间")

	// ErrInvalidDiscountWindow 折扣时间窗口非法
	ErrInvalidDiscountWindow = apperrors.New(apperrors.ErrCodeInvalidParams, "折扣结束时间必须晚于开始时间")
)
