package mysql

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
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/outbox"
	"github.com/xiebiao/bookshop/internal/domain/review"
	"github.com/xiebiao/bookshop/internal/domain/user"
)

// newTestDB 内存SQLite数据库,每个测试独立建表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库与连接同生命周期,限制单连接防止串库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func seedBook(t *testing.T, db *gorm.DB, price int64, stock int) *book.Book {
	t.Helper()
	repo := NewBookRepository(db)
	b := &book.Book{
		Title: "Go程序设计语言",
		ISBN:  "9787111558422",
		Price: price,
		Stock: stock,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func seedUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	repo := NewUserRepository(db)
	u := &user.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "$2a$12$fakehash",
		FullName: "测试用户",
		Role:     user.RoleMember,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestBookRepository_UpdateStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, db, 5900, 10)

	// 正常扣减
	assert.NoError(t, repo.UpdateStock(ctx, b.ID, -3))
	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	// 超过库存,拒绝并保持原值
	err = repo.UpdateStock(ctx, b.ID, -8)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)
	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Stock)

	// 图书不存在
	err = repo.UpdateStock(ctx, 9999, -1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	// 取消订单回补库存
	assert.NoError(t, repo.UpdateStock(ctx, b.ID, 3))
	got, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
}

func TestBookRepository_DuplicateISBN(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	seedBook(t, db, 5900, 10)

	err := repo.Create(ctx, &book.Book{Title: "另一本", ISBN: "9787111558422", Price: 100, Stock: 1})
	assert.ErrorIs(t, err, book.ErrISBNDuplicate)
}

func TestCartRepository_AddOrIncrement(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "zhangsan")
	b := seedBook(t, db, 5900, 10)

	require.NoError(t, repo.AddOrIncrement(ctx, u.ID, b.ID, 2))
	// 重复加购累加数量,不产生新行
	require.NoError(t, repo.AddOrIncrement(ctx, u.ID, b.ID, 3))

	items, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestCartRepository_RemoveAndClear(t *testing.T) {
	db := newTestDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "zhangsan")
	b := seedBook(t, db, 5900, 10)

	require.NoError(t, repo.AddOrIncrement(ctx, u.ID, b.ID, 1))
	assert.NoError(t, repo.Remove(ctx, u.ID, b.ID))
	assert.ErrorIs(t, repo.Remove(ctx, u.ID, b.ID), cart.ErrItemNotFound)

	require.NoError(t, repo.AddOrIncrement(ctx, u.ID, b.ID, 1))
	assert.NoError(t, repo.DeleteByUser(ctx, u.ID))
	items, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBookmarkRepository_Toggle(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookmarkRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "zhangsan")
	b := seedBook(t, db, 5900, 10)

	// 第一次toggle → 收藏
	bookmarked, err := repo.Toggle(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, bookmarked)

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 第二次toggle → 取消
	bookmarked, err = repo.Toggle(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, bookmarked)

	list, err = repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "zhangsan")
	b := seedBook(t, db, 1000, 10)

	o := order.NewOrder(u.ID, order.GenerateClaimCode(), []order.Item{
		{BookID: b.ID, Quantity: 3, Price: 1000},
	}, 0)
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)
	require.NotZero(t, o.Items[0].ID)

	// 按领取码查找
	got, err := repo.FindByClaimCode(ctx, o.ClaimCode)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1000), got.Items[0].Price)

	// 错误领取码
	_, err = repo.FindByClaimCode(ctx, "nonexistent")
	assert.ErrorIs(t, err, order.ErrInvalidClaimCode)
}

func TestOrderRepository_HasFulfilledOrderWithBook(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	u := seedUser(t, db, "zhangsan")
	b := seedBook(t, db, 1000, 10)

	o := order.NewOrder(u.ID, order.GenerateClaimCode(), []order.Item{
		{BookID: b.ID, Quantity: 1, Price: 1000},
	}, 0)
	require.NoError(t, repo.Create(ctx, o))

	// 待处理订单不算已购买
	has, err := repo.HasFulfilledOrderWithBook(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, has)

	// 完成后才算
	require.NoError(t, o.Fulfill())
	require.NoError(t, repo.UpdateStatus(ctx, o))

	has, err = repo.HasFulfilledOrderWithBook(ctx, u.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, has)

	// 其他用户不算
	has, err = repo.HasFulfilledOrderWithBook(ctx, u.ID+1, b.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestReviewRepository_AverageAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	u1 := seedUser(t, db, "zhangsan")
	u2 := seedUser(t, db, "lisi")
	b := seedBook(t, db, 1000, 10)

	// 无书评时均分为0
	avg, err := repo.AverageForBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	require.NoError(t, repo.Create(ctx, &review.Review{BookID: b.ID, UserID: u1.ID, Rating: 5, Comment: "很好"}))
	require.NoError(t, repo.Create(ctx, &review.Review{BookID: b.ID, UserID: u2.ID, Rating: 4, Comment: "不错"}))

	avg, err = repo.AverageForBook(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 0.001)

	// 同一用户重复评价撞唯一索引
	err = repo.Create(ctx, &review.Review{BookID: b.ID, UserID: u1.ID, Rating: 3, Comment: "改主意了"})
	assert.ErrorIs(t, err, review.ErrDuplicateReview)
}

func TestOutboxRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	rec := &outbox.Receipt{
		OrderID: 1,
		Email:   "zhangsan@example.com",
		Subject: "订单收据",
		Body:    "感谢您的购买",
	}
	require.NoError(t, repo.Create(ctx, rec))
	assert.Equal(t, outbox.StatusPending, rec.Status)

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// 发送成功后不再出现在pending列表
	require.NoError(t, repo.MarkSent(ctx, rec.ID))
	pending, err = repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxRepository_MarkFailedExhaustsAttempts(t *testing.T) {
	db := newTestDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	rec := &outbox.Receipt{OrderID: 1, Email: "a@b.c", Subject: "s", Body: "b"}
	require.NoError(t, repo.Create(ctx, rec))

	// 失败MaxAttempts次后置为failed,不再被worker取出
	for i := 0; i < outbox.MaxAttempts; i++ {
		require.NoError(t, repo.MarkFailed(ctx, rec.ID, "SMTP连接超时"))
	}

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTxManager_Rollback(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db)
	bookRepo := NewBookRepository(db)
	ctx := context.Background()

	b := seedBook(t, db, 1000, 10)

	// 事务内扣库存后返回错误,应整体回滚
	err := tm.Transaction(ctx, func(txCtx context.Context) error {
		if err := bookRepo.UpdateStock(txCtx, b.ID, -5); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	got, err := bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
}
