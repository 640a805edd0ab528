package review

import (
	"context"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/review"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// CreateReviewUseCase 发表书评用例（会员）
// 业务规则：
// 1. 书评资格：用户必须有包含该书的"已完成"订单
//    （待处理或已取消的订单不算购买）
// 2. 一人一书一评
// 3. 书评写入与均分冗余字段重算在同一事务中完成
type CreateReviewUseCase struct {
	reviewRepo review.Repository
	orderRepo  order.Repository
	bookRepo   book.Repository
	txManager  *mysql.TxManager
}

// NewCreateReviewUseCase 创建书评用例
func NewCreateReviewUseCase(
	reviewRepo review.Repository,
	orderRepo  order.Repository,
	bookRepo book.Repository,
	txManager *mysql.TxManager,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		bookRepo:   bookRepo,
		txManager:  txManager,
	}
}

// CreateReviewRequest 发表书评请求
type CreateReviewRequest struct {
	UserID  uint   `json:"-"`
	BookID  uint   `json:"-"` // 来自URL路径
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// CreateReviewResponse 发表书评响应
type CreateReviewResponse struct {
	ID        uint      `json:"id"`
	BookID    uint      `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Execute 执行发表书评
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*CreateReviewResponse, error) {
	// 图书存在性校验
	if _, err := uc.bookRepo.FindByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	// 书评资格：已完成订单中包含该书
	purchased, err := uc.orderRepo.HasFulfilledOrderWithBook(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, review.ErrNotPurchased
	}

	exists, err := uc.reviewRepo.ExistsByUserAndBook(ctx, req.UserID, req.BookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, review.ErrDuplicateReview
	}

	r, err := review.NewReview(req.BookID, req.UserID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Now()

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.reviewRepo.Create(txCtx, r); err != nil {
			return err
		}
		avg, err := uc.reviewRepo.AverageForBook(txCtx, req.BookID)
		if err != nil {
			return err
		}
		return uc.bookRepo.UpdateAvgRating(txCtx, req.BookID, avg)
	})
	if err != nil {
		return nil, err
	}

	return &CreateReviewResponse{
		ID:        r.ID,
		BookID:    r.BookID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}, nil
}
