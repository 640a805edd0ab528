package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// FulfillOrderUseCase 订单核销用例（员工凭领取码）
// 业务规则：
// 1. 领取码无效（不存在）与状态不允许（已取消/已完成）分开报错
// 2. 核销成功后，按订单明细逐本生成站内通知（一本一条，带图书引用）
// 3. 通知与状态更新同事务；实时广播在事务提交后执行，
//    广播失败只记日志，不影响已完成的核销
// 4. 广播事件携带购买人姓名与书名，事件ID为独立的UUID
type FulfillOrderUseCase struct {
	orderRepo        order.Repository
	bookRepo         book.Repository
	userRepo         user.Repository
	notificationRepo notify.NotificationRepository
	broadcaster      notify.Broadcaster
	txManager        *mysql.TxManager
}

// NewFulfillOrderUseCase 创建核销用例
func NewFulfillOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	notificationRepo notify.NotificationRepository,
	broadcaster notify.Broadcaster,
	txManager *mysql.TxManager,
) *FulfillOrderUseCase {
	return &FulfillOrderUseCase{
		orderRepo:        orderRepo,
		bookRepo:         bookRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
		txManager:        txManager,
	}
}

// FulfillOrderResponse 核销响应
type FulfillOrderResponse struct {
	OrderID   uint  `json:"order_id"`
	UserID    uint  `json:"user_id"`
	Payable   int64 `json:"payable"`
	ItemCount int   `json:"item_count"`
}

// Execute 凭领取码核销订单
func (uc *FulfillOrderUseCase) Execute(ctx context.Context, claimCode string) (*FulfillOrderResponse, error) {
	var (
		fulfilled *order.Order
		events    []notify.Event
	)

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByClaimCode(txCtx, claimCode)
		if err != nil {
			return err
		}

		if err := o.Fulfill(); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return err
		}

		buyer, err := uc.userRepo.FindByID(txCtx, o.UserID)
		if err != nil {
			return err
		}

		// 一本一条通知
		events = events[:0]
		for _, item := range o.Items {
			b, err := uc.bookRepo.FindByID(txCtx, item.BookID)
			if err != nil {
				return err
			}
			content := fmt.Sprintf("您购买的《%s》已备好，订单#%d已完成，欢迎取书。", b.Title, o.ID)
			bookID := b.ID
			n := &notify.Notification{
				UserID:    o.UserID,
				BookID:    &bookID,
				Content:   content,
				CreatedAt: time.Now(),
			}
			if err := uc.notificationRepo.Create(txCtx, n); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Type:        notify.EventOrderFulfilled,
				Title:       "订单完成",
				Description: fmt.Sprintf("%s购买的《%s》已交付", buyer.FullName, b.Title),
				Content:     content,
			})
		}

		fulfilled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if metrics.OrdersFulfilledTotal != nil {
		metrics.OrdersFulfilledTotal.Inc()
	}

	// 事务提交后广播，失败不回滚核销
	for _, event := range events {
		event.ID = uuid.NewString()
		event.Timestamp = time.Now()
		if err := uc.broadcaster.Broadcast(ctx, event); err != nil {
			log.Printf("广播订单完成事件失败: order=%d err=%v", fulfilled.ID, err)
		}
	}

	return &FulfillOrderResponse{
		OrderID:   fulfilled.ID,
		UserID:    fulfilled.UserID,
		Payable:   fulfilled.Payable(),
		ItemCount: len(fulfilled.Items),
	}, nil
}
