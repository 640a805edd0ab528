package order

import (
	"context"
	"fmt"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/outbox"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// 下单折扣规则（基点）
const (
	// bulkDiscountBps 批量折扣：整单数量达到门槛享5%
	bulkDiscountBps = 500
	// bulkQtyThreshold 批量折扣数量门槛
	bulkQtyThreshold = 5
)

// PlaceOrderUseCase 下单用例（核心业务流程）
// 业务规则（全部在一个事务内完成）：
// 1. 购物车为空直接拒绝，不产生订单
// 2. 逐本锁定图书行，校验库存，按当前标价快照入明细
//    （目录折扣只影响展示价，结算一律按标价）
// 3. 整单数量≥5本：5%批量折扣
// 4. 用户累积的忠诚折扣率一次性消费并清零，可与批量折扣叠加
// 5. 折扣基于明细合计计算后冗余进订单
// 6. 扣减库存、清空购物车、写入收据发件箱（pending）
// 任何一步失败整体回滚：库存、购物车、忠诚折扣均不受影响。
type PlaceOrderUseCase struct {
	orderRepo  order.Repository
	cartRepo   cart.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	outboxRepo outbox.Repository
	txManager  *mysql.TxManager
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	outboxRepo outbox.Repository,
	txManager *mysql.TxManager,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		orderRepo:  orderRepo,
		cartRepo:   cartRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
	}
}

// PlaceOrderResponse 下单响应
type PlaceOrderResponse struct {
	OrderID    uint   `json:"order_id"`
	ClaimCode  string `json:"claim_code"`
	TotalQty   int    `json:"total_qty"`
	BaseAmount int64  `json:"base_amount"`
	Discount   int64  `json:"discount"`
	Payable    int64  `json:"payable"`
}

// Execute 执行下单
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, userID uint) (*PlaceOrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "application/order", "PlaceOrder")
	defer span.End()

	start := time.Now()

	resp, err := uc.place(ctx, userID)

	if metrics.OrderPlacementDuration != nil {
		metrics.OrderPlacementDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.OrdersFailedTotal.Inc()
		} else {
			metrics.OrdersPlacedTotal.Inc()
		}
	}
	return resp, err
}

func (uc *PlaceOrderUseCase) place(ctx context.Context, userID uint) (*PlaceOrderResponse, error) {
	var resp *PlaceOrderResponse

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 读取购物车，空车不产生订单
		cartItems, err := uc.cartRepo.ListByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return cart.ErrEmptyCart
		}

		// 2. 逐本锁定库存并按标价快照
		orderItems := make([]order.Item, 0, len(cartItems))
		for _, ci := range cartItems {
			b, err := uc.bookRepo.LockByID(txCtx, ci.BookID)
			if err != nil {
				return err
			}
			if b.Stock < ci.Quantity {
				return book.ErrInsufficientStock
			}
			orderItems = append(orderItems, order.Item{
				BookID:   b.ID,
				Quantity: ci.Quantity,
				Price:    b.Price,
			})
		}

		var baseAmount int64
		var totalQty int
		for _, item := range orderItems {
			baseAmount += item.Price * int64(item.Quantity)
			totalQty += item.Quantity
		}

		// 3. 折扣计算：批量折扣 + 忠诚折扣（锁定用户行防并发重复消费）
		u, err := uc.userRepo.LockByID(txCtx, userID)
		if err != nil {
			return err
		}

		var discountBps int64
		if totalQty >= bulkQtyThreshold {
			discountBps += bulkDiscountBps
		}
		discountBps += u.ConsumeLoyaltyRate()

		// 下单计数推进，满10单时累加下一档忠诚折扣率
		u.RecordOrderPlaced()
		if err := uc.userRepo.UpdateLoyalty(txCtx, u.ID, u.FulfilledOrders, u.LoyaltyRateBps); err != nil {
			return err
		}

		discount := baseAmount * discountBps / 10000

		// 4. 创建订单
		o := order.NewOrder(userID, order.GenerateClaimCode(), orderItems, discount)
		if err := uc.orderRepo.Create(txCtx, o); err != nil {
			return err
		}

		// 5. 扣减库存
		for _, item := range o.Items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, -item.Quantity); err != nil {
				return err
			}
		}

		// 6. 清空购物车
		if err := uc.cartRepo.DeleteByUser(txCtx, userID); err != nil {
			return err
		}

		// 7. 收据进发件箱，发送由后台worker异步完成
		receipt := buildReceipt(o, u)
		if err := uc.outboxRepo.Create(txCtx, receipt); err != nil {
			return err
		}

		resp = &PlaceOrderResponse{
			OrderID:    o.ID,
			ClaimCode:  o.ClaimCode,
			TotalQty:   o.TotalQuantity(),
			BaseAmount: o.BaseAmount(),
			Discount:   o.Discount,
			Payable:    o.Payable(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// buildReceipt 生成订单收据邮件内容
func buildReceipt(o *order.Order, u *user.User) *outbox.Receipt {
	body := fmt.Sprintf(
		"%s 您好：\n\n您的订单已创建成功。\n\n订单号：%d\n领取码：%s\n商品数量：%d\n商品金额：%.2f元\n折扣金额：%.2f元\n应付金额：%.2f元\n\n请凭领取码到店取书。",
		u.FullName, o.ID, o.ClaimCode, o.TotalQuantity(),
		float64(o.BaseAmount())/100, float64(o.Discount)/100, float64(o.Payable())/100,
	)
	return &outbox.Receipt{
		OrderID:   o.ID,
		Email:     u.Email,
		Subject:   fmt.Sprintf("订单确认 #%d", o.ID),
		Body:      body,
		Status:    outbox.StatusPending,
		CreatedAt: time.Now(),
	}
}
