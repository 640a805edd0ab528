package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	domainorder "github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/outbox"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// 下单用例的集成测试:内存SQLite + 真实仓储 + 真实事务管理器

type testEnv struct {
	db         *gorm.DB
	uc         *PlaceOrderUseCase
	orderRepo  domainorder.Repository
	cartRepo   cart.Repository
	bookRepo   book.Repository
	userRepo   user.Repository
	outboxRepo outbox.Repository
}

func newTestEnv(t *testing.T) *testEnv {
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

	env := &testEnv{
		db:         db,
		orderRepo:  mysql.NewOrderRepository(db),
		cartRepo:   mysql.NewCartRepository(db),
		bookRepo:   mysql.NewBookRepository(db),
		userRepo:   mysql.NewUserRepository(db),
		outboxRepo: mysql.NewOutboxRepository(db),
	}
	env.uc = NewPlaceOrderUseCase(
		env.orderRepo, env.cartRepo, env.bookRepo, env.userRepo,
		env.outboxRepo, mysql.NewTxManager(db),
	)
	return env
}

func (e *testEnv) seedUser(t *testing.T, fulfilledOrders int, loyaltyBps int64) *user.User {
	t.Helper()
	u := &user.User{
		Username:        "reader",
		Email:           "reader@example.com",
		Password:        "$2a$12$fakehash",
		FullName:        "测试读者",
		Role:            user.RoleMember,
		FulfilledOrders: fulfilledOrders,
		LoyaltyRateBps:  loyaltyBps,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedBook(t *testing.T, title string, price int64, stock int) *book.Book {
	t.Helper()
	b := &book.Book{
		Title: title,
		ISBN:  "isbn-" + title,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, e.bookRepo.Create(context.Background(), b))
	return b
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, 0, 0)

	resp, err := env.uc.Execute(context.Background(), u.ID)
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
	assert.Nil(t, resp)

	// 空车下单不产生任何订单记录
	_, total, err := env.orderRepo.ListByUserID(context.Background(), u.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestPlaceOrder_BulkDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b1 := env.seedBook(t, "书一", 1000, 10)
	b2 := env.seedBook(t, "书二", 500, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b1.ID, 3))
	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b2.ID, 2))

	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)

	// 3×10元 + 2×5元 = 40元,共5本触发5%批量折扣
	assert.Equal(t, 5, resp.TotalQty)
	assert.Equal(t, int64(4000), resp.BaseAmount)
	assert.Equal(t, int64(200), resp.Discount)
	assert.Equal(t, int64(3800), resp.Payable)
	assert.Len(t, resp.ClaimCode, 32)

	// 库存已扣减
	got1, err := env.bookRepo.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got1.Stock)
	got2, err := env.bookRepo.FindByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got2.Stock)

	// 购物车已清空
	items, err := env.cartRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// 收据已进发件箱
	receipts, err := env.outboxRepo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, resp.OrderID, receipts[0].OrderID)
	assert.Equal(t, u.Email, receipts[0].Email)

	// 订单明细为下单时的单价快照
	o, err := env.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, domainorder.StatusPending, o.Status)
}

func TestPlaceOrder_NoBulkDiscountBelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "单本", 1000, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 4))

	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Discount)
	assert.Equal(t, int64(4000), resp.Payable)
}

func TestPlaceOrder_LoyaltyDiscountConsumedAndReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// 待消费忠诚折扣20%(两次里程碑累积)
	u := env.seedUser(t, 20, 2000)
	b := env.seedBook(t, "小说", 1000, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 2))

	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)

	// 2本不触发批量折扣,只有20%忠诚折扣
	assert.Equal(t, int64(2000), resp.BaseAmount)
	assert.Equal(t, int64(400), resp.Discount)
	assert.Equal(t, int64(1600), resp.Payable)

	// 折扣率已消费清零,下单计数+1
	got, err := env.userRepo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LoyaltyRateBps)
	assert.Equal(t, 21, got.FulfilledOrders)
}

func TestPlaceOrder_LoyaltyStacksWithBulk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 10, 1000)
	b := env.seedBook(t, "教材", 1000, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 5))

	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)

	// 5%批量 + 10%忠诚 = 15%
	assert.Equal(t, int64(5000), resp.BaseAmount)
	assert.Equal(t, int64(750), resp.Discount)
	assert.Equal(t, int64(4250), resp.Payable)
}

func TestPlaceOrder_MilestoneGrantsNextLoyalty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// 第10单:本单无忠诚折扣可用,下单后解锁10%给下一单
	u := env.seedUser(t, 9, 0)
	b := env.seedBook(t, "杂志", 1000, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 1))

	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Discount)

	got, err := env.userRepo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.FulfilledOrders)
	assert.Equal(t, int64(1000), got.LoyaltyRateBps)
}

func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 1000)
	b1 := env.seedBook(t, "有货", 1000, 10)
	b2 := env.seedBook(t, "缺货", 500, 1)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b1.ID, 2))
	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b2.ID, 3))

	_, err := env.uc.Execute(ctx, u.ID)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	// 整体回滚:库存、购物车、忠诚折扣均不变
	got1, err := env.bookRepo.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got1.Stock)

	items, err := env.cartRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	gotUser, err := env.userRepo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), gotUser.LoyaltyRateBps)
	assert.Equal(t, 0, gotUser.FulfilledOrders)

	receipts, err := env.outboxRepo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, receipts)
}

func TestPlaceOrder_PriceSnapshotUnaffectedByLaterChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "涨价书", 1000, 10)

	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 1))
	resp, err := env.uc.Execute(ctx, u.ID)
	require.NoError(t, err)

	// 下单后改价
	b.Price = 9999
	require.NoError(t, env.bookRepo.Update(ctx, b))

	o, err := env.orderRepo.FindByID(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(1000), o.Items[0].Price)
}
