package book

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainbook "github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/bookmark"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/review"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/storage"
)

// 图书删除级联的集成测试:内存SQLite + 真实仓储 + 临时目录文件存储

type deleteTestEnv struct {
	uc           *DeleteBookUseCase
	fileStore    *storage.FileStore
	imageDir     string
	bookRepo     domainbook.Repository
	discountRepo domainbook.DiscountRepository
	cartRepo     cart.Repository
	bookmarkRepo bookmark.Repository
	reviewRepo   review.Repository
	orderRepo    order.Repository
	userRepo     user.Repository
}

func newDeleteTestEnv(t *testing.T) *deleteTestEnv {
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

	imageDir := t.TempDir()
	fileStore, err := storage.NewFileStore(imageDir)
	require.NoError(t, err)

	env := &deleteTestEnv{
		fileStore:    fileStore,
		imageDir:     imageDir,
		bookRepo:     mysql.NewBookRepository(db),
		discountRepo: mysql.NewDiscountRepository(db),
		cartRepo:     mysql.NewCartRepository(db),
		bookmarkRepo: mysql.NewBookmarkRepository(db),
		reviewRepo:   mysql.NewReviewRepository(db),
		orderRepo:    mysql.NewOrderRepository(db),
		userRepo:     mysql.NewUserRepository(db),
	}
	env.uc = NewDeleteBookUseCase(
		env.bookRepo, env.discountRepo, env.cartRepo, env.bookmarkRepo,
		env.reviewRepo, env.orderRepo, env.fileStore, mysql.NewTxManager(db),
	)
	return env
}

func TestDeleteBook_CascadesRelatedData(t *testing.T) {
	env := newDeleteTestEnv(t)
	ctx := context.Background()

	u := &user.User{
		Username: "reader",
		Email:    "reader@example.com",
		Password: "$2a$12$fakehash",
		FullName: "测试读者",
		Role:     user.RoleMember,
	}
	require.NoError(t, env.userRepo.Create(ctx, u))

	imagePath, err := env.fileStore.Save(strings.NewReader("fake-jpeg-bytes"), "cover.jpg")
	require.NoError(t, err)

	b := &domainbook.Book{
		Title:     "待下架的书",
		ISBN:      "isbn-delete",
		Price:     1000,
		Stock:     10,
		ImagePath: imagePath,
	}
	require.NoError(t, env.bookRepo.Create(ctx, b))

	// 铺满全部关联数据:购物车、收藏、书评、折扣、订单明细
	require.NoError(t, env.cartRepo.AddOrIncrement(ctx, u.ID, b.ID, 2))
	_, err = env.bookmarkRepo.Toggle(ctx, u.ID, b.ID)
	require.NoError(t, err)

	rv, err := review.NewReview(b.ID, u.ID, 5, "好书")
	require.NoError(t, err)
	require.NoError(t, env.reviewRepo.Create(ctx, rv))

	require.NoError(t, env.discountRepo.Create(ctx, &domainbook.Discount{
		BookID: b.ID, RateBps: 1000, OnSale: true,
	}))

	o := order.NewOrder(u.ID, order.GenerateClaimCode(),
		[]order.Item{{BookID: b.ID, Quantity: 1, Price: 1000}}, 0)
	require.NoError(t, env.orderRepo.Create(ctx, o))

	require.NoError(t, env.uc.Execute(ctx, b.ID))

	_, err = env.bookRepo.FindByID(ctx, b.ID)
	assert.ErrorIs(t, err, domainbook.ErrBookNotFound)

	items, err := env.cartRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	marks, err := env.bookmarkRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, marks)

	reviews, err := env.reviewRepo.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	discounts, err := env.discountRepo.ListByBookID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, discounts)

	// 订单本体保留(交易记录),该书的明细行被清理
	kept, err := env.orderRepo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.Items)

	// 封面文件在事务提交后删除
	_, err = os.Stat(env.fileStore.FullPath(imagePath))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteBook_NotFound(t *testing.T) {
	env := newDeleteTestEnv(t)

	err := env.uc.Execute(context.Background(), 9999)
	assert.ErrorIs(t, err, domainbook.ErrBookNotFound)
}
