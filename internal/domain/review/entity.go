package review

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/bookshop/pkg/errors"
)

// Review 书评实体
// 业务规则：
// 1. 只有拥有"已完成"订单且订单包含该书的用户才能发表书评
// 2. 每个用户对同一本书只能发表一条书评
// 3. 评分范围1-5星
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// WithReviewer 书评展示用读模型（评价人姓名由仓储联查填充）
type WithReviewer struct {
	Review
	ReviewerName string
}

// 领域错误
var (
	ErrNotPurchased    = errors.New(errors.ErrCodeNotPurchased, "只有购买过该书的用户才能发表书评")
	ErrDuplicateReview = errors.New(errors.ErrCodeDuplicateReview, "您已经评价过这本书了")
	ErrInvalidRating   = errors.New(errors.ErrCodeInvalidParams, "评分必须在1-5星之间")
	ErrEmptyComment    = errors.New(errors.ErrCodeInvalidParams, "评价内容不能为空")
)

// NewReview 创建书评（工厂方法，校验评分与内容）
func NewReview(bookID, userID uint, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrEmptyComment
	}
	return &Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}, nil
}

// Repository 书评仓储接口
type Repository interface {
	Create(ctx context.Context, review *Review) error

	// ExistsByUserAndBook 用户是否已评价过该书
	ExistsByUserAndBook(ctx context.Context, userID, bookID uint) (bool, error)

	// ListByBook 查询某书的全部书评（携带评价人姓名）
	ListByBook(ctx context.Context, bookID uint) ([]*WithReviewer, error)

	// AverageForBook 计算某书的平均评分，无书评时返回0
	AverageForBook(ctx context.Context, bookID uint) (float64, error)

	// DeleteByBook 删除某书的全部书评（图书级联删除用）
	DeleteByBook(ctx context.Context, bookID uint) error
}
