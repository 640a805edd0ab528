package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// CancelOrderUseCase 取消订单用例（会员）
// 业务规则：
// 1. 只能取消自己的订单
// 2. 只有待处理状态可以取消
// 3. 取消后库存归还，但下单时消费掉的忠诚折扣不回滚
//    （折扣在下单时已结算进订单，取消不恢复）
type CancelOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager *mysql.TxManager
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager *mysql.TxManager,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// Execute 执行取消
func (uc *CancelOrderUseCase) Execute(ctx context.Context, userID, orderID uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return order.ErrNotOwner
		}

		if err := o.Cancel(); err != nil {
			return err
		}
		if err := uc.orderRepo.UpdateStatus(txCtx, o); err != nil {
			return err
		}

		// 归还库存
		for _, item := range o.Items {
			if err := uc.bookRepo.UpdateStock(txCtx, item.BookID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}
