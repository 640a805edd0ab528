package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/review"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

type reviewTestEnv struct {
	db         *gorm.DB
	createUC   *CreateReviewUseCase
	listUC     *ListReviewsUseCase
	bookRepo   book.Repository
	orderRepo  order.Repository
	userRepo   user.Repository
	reviewRepo review.Repository
}

func newReviewTestEnv(t *testing.T) *reviewTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, mysql.Migrate(db))

	env := &reviewTestEnv{
		db:         db,
		bookRepo:   mysql.NewBookRepository(db),
		orderRepo:  mysql.NewOrderRepository(db),
		userRepo:   mysql.NewUserRepository(db),
		reviewRepo: mysql.NewReviewRepository(db),
	}
	txManager := mysql.NewTxManager(db)
	env.createUC = NewCreateReviewUseCase(env.reviewRepo, env.orderRepo, env.bookRepo, txManager)
	env.listUC = NewListReviewsUseCase(env.reviewRepo, env.bookRepo)
	return env
}

func (e *reviewTestEnv) seed(t *testing.T) (*user.User, *book.Book) {
	t.Helper()
	ctx := context.Background()

	u := &user.User{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "$2a$12$fakehash",
		FullName: "测试读者",
		Role:     user.RoleMember,
	}
	require.NoError(t, e.userRepo.Create(ctx, u))

	b := &book.Book{Title: "围城", ISBN: "9787020024759", Price: 3900, Stock: 5}
	require.NoError(t, e.bookRepo.Create(ctx, b))
	return u, b
}

// seedOrder 为用户植入一条指定状态的含书订单
func (e *reviewTestEnv) seedOrder(t *testing.T, userID, bookID uint, status order.Status) {
	t.Helper()
	ctx := context.Background()

	o := order.NewOrder(userID, order.GenerateClaimCode(), []order.Item{
		{BookID: bookID, Quantity: 1, Price: 3900},
	}, 0)
	require.NoError(t, e.orderRepo.Create(ctx, o))
	if status != order.StatusPending {
		o.Status = status
		require.NoError(t, e.orderRepo.UpdateStatus(ctx, o))
	}
}

func TestCreateReview_RequiresFulfilledOrder(t *testing.T) {
	env := newReviewTestEnv(t)
	ctx := context.Background()
	u, b := env.seed(t)

	// 无订单:没有书评资格
	_, err := env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 5, Comment: "好书",
	})
	assert.ErrorIs(t, err, review.ErrNotPurchased)

	// 待处理订单仍然不算购买
	env.seedOrder(t, u.ID, b.ID, order.StatusPending)
	_, err = env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 5, Comment: "好书",
	})
	assert.ErrorIs(t, err, review.ErrNotPurchased)
}

func TestCreateReview_UpdatesAvgRating(t *testing.T) {
	env := newReviewTestEnv(t)
	ctx := context.Background()
	u, b := env.seed(t)
	env.seedOrder(t, u.ID, b.ID, order.StatusFulfilled)

	resp, err := env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 4, Comment: "值得一读",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Rating)

	// 均分冗余字段已重算
	got, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.AvgRating, 0.001)

	list, err := env.listUC.Execute(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list.Reviews, 1)
	assert.Equal(t, "测试读者", list.Reviews[0].ReviewerName)
	assert.Equal(t, "值得一读", list.Reviews[0].Comment)
}

func TestCreateReview_DuplicateRejected(t *testing.T) {
	env := newReviewTestEnv(t)
	ctx := context.Background()
	u, b := env.seed(t)
	env.seedOrder(t, u.ID, b.ID, order.StatusFulfilled)

	_, err := env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 5, Comment: "好书",
	})
	require.NoError(t, err)

	_, err = env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 3, Comment: "再评一次",
	})
	assert.ErrorIs(t, err, review.ErrDuplicateReview)
}

func TestCreateReview_InvalidInput(t *testing.T) {
	env := newReviewTestEnv(t)
	ctx := context.Background()
	u, b := env.seed(t)
	env.seedOrder(t, u.ID, b.ID, order.StatusFulfilled)

	_, err := env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 6, Comment: "超出范围",
	})
	assert.ErrorIs(t, err, review.ErrInvalidRating)

	_, err = env.createUC.Execute(ctx, CreateReviewRequest{
		UserID: u.ID, BookID: b.ID, Rating: 4, Comment: "   ",
	})
	assert.ErrorIs(t, err, review.ErrEmptyComment)
}
