package book

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/bookmark"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/review"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
)

// DeleteBookUseCase 图书下架删除用例（员工）
// 设计说明：关联数据不依赖数据库级联，在同一事务内显式清理，
// 删除顺序：购物车项 -> 收藏 -> 书评 -> 折扣 -> 订单明细 -> 图书本体。
// 封面文件在事务提交后删除（文件系统操作无法回滚）。
type DeleteBookUseCase struct {
	bookRepo     book.Repository
	discountRepo book.DiscountRepository
	cartRepo     cart.Repository
	bookmarkRepo bookmark.Repository
	reviewRepo   review.Repository
	orderRepo    order.Repository
	fileStore    *storage.FileStore
	txManager    *mysql.TxManager
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(
	bookRepo book.Repository,
	discountRepo book.DiscountRepository,
	cartRepo cart.Repository,
	bookmarkRepo bookmark.Repository,
	reviewRepo review.Repository,
	orderRepo order.Repository,
	fileStore *storage.FileStore,
	txManager *mysql.TxManager,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo:     bookRepo,
		discountRepo: discountRepo,
		cartRepo:     cartRepo,
		bookmarkRepo: bookmarkRepo,
		reviewRepo:   reviewRepo,
		orderRepo:    orderRepo,
		fileStore:    fileStore,
		txManager:    txManager,
	}
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, bookID uint) error {
	b, err := uc.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		return err
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.cartRepo.DeleteByBook(txCtx, bookID); err != nil {
			return err
		}
		if err := uc.bookmarkRepo.DeleteByBook(txCtx, bookID); err != nil {
			return err
		}
		if err := uc.reviewRepo.DeleteByBook(txCtx, bookID); err != nil {
			return err
		}
		if err := uc.discountRepo.DeleteByBookID(txCtx, bookID); err != nil {
			return err
		}
		if err := uc.orderRepo.DeleteItemsByBook(txCtx, bookID); err != nil {
			return err
		}
		return uc.bookRepo.Delete(txCtx, bookID)
	})
	if err != nil {
		return err
	}

	if b.ImagePath != "" {
		uc.fileStore.Remove(b.ImagePath)
	}
	return nil
}
