package order

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	domainorder "github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// recordingBroadcaster 记录广播事件的测试替身
type recordingBroadcaster struct {
	events []notify.Event
}

func (b *recordingBroadcaster) Broadcast(_ context.Context, event notify.Event) error {
	b.events = append(b.events, event)
	return nil
}

func newFulfillUseCase(env *testEnv, broadcaster notify.Broadcaster) (*FulfillOrderUseCase, notify.NotificationRepository) {
	notificationRepo := mysql.NewNotificationRepository(env.db)
	uc := NewFulfillOrderUseCase(
		env.orderRepo, env.bookRepo, env.userRepo, notificationRepo, broadcaster,
		mysql.NewTxManager(env.db),
	)
	return uc, notificationRepo
}

// placeOrder 下单辅助:两本书各若干本
func placeTestOrder(t *testing.T, env *testEnv, userID uint, lines map[uint]int) *PlaceOrderResponse {
	t.Helper()
	ctx := context.Background()
	for bookID, qty := range lines {
		require.NoError(t, env.cartRepo.AddOrIncrement(ctx, userID, bookID, qty))
	}
	resp, err := env.uc.Execute(ctx, userID)
	require.NoError(t, err)
	return resp
}

func TestFulfillOrder_ByClaimCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b1 := env.seedBook(t, "书一", 1000, 10)
	b2 := env.seedBook(t, "书二", 500, 10)

	placed := placeTestOrder(t, env, u.ID, map[uint]int{b1.ID: 1, b2.ID: 1})

	broadcaster := &recordingBroadcaster{}
	uc, notificationRepo := newFulfillUseCase(env, broadcaster)

	resp, err := uc.Execute(ctx, placed.ClaimCode)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderID, resp.OrderID)
	assert.Equal(t, u.ID, resp.UserID)
	assert.Equal(t, 2, resp.ItemCount)

	o, err := env.orderRepo.FindByID(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domainorder.StatusFulfilled, o.Status)

	// 一本一条通知(携带图书引用),一条一次广播
	notifications, err := notificationRepo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)
	notifiedBooks := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		require.NotNil(t, n.BookID)
		notifiedBooks = append(notifiedBooks, *n.BookID)
	}
	assert.ElementsMatch(t, []uint{b1.ID, b2.ID}, notifiedBooks)

	// 广播事件携带购买人姓名和书名,事件ID互不相同
	assert.Len(t, broadcaster.events, 2)
	eventIDs := make(map[string]bool)
	titles := make([]string, 0, 2)
	for _, event := range broadcaster.events {
		assert.Equal(t, notify.EventOrderFulfilled, event.Type)
		assert.Equal(t, "订单完成", event.Title)
		assert.Contains(t, event.Description, u.FullName)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		eventIDs[event.ID] = true
		titles = append(titles, event.Description)
	}
	assert.Len(t, eventIDs, 2)
	assert.Condition(t, func() bool {
		var hit int
		for _, d := range titles {
			if strings.Contains(d, "书一") || strings.Contains(d, "书二") {
				hit++
			}
		}
		return hit == 2
	}, "广播描述应包含书名")
}

func TestFulfillOrder_InvalidClaimCode(t *testing.T) {
	env := newTestEnv(t)
	uc, _ := newFulfillUseCase(env, &recordingBroadcaster{})

	_, err := uc.Execute(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, domainorder.ErrInvalidClaimCode)
}

func TestFulfillOrder_AlreadyFulfilled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "书", 1000, 10)

	placed := placeTestOrder(t, env, u.ID, map[uint]int{b.ID: 1})
	uc, _ := newFulfillUseCase(env, &recordingBroadcaster{})

	_, err := uc.Execute(ctx, placed.ClaimCode)
	require.NoError(t, err)

	// 重复核销被状态机拒绝
	_, err = uc.Execute(ctx, placed.ClaimCode)
	assert.ErrorIs(t, err, domainorder.ErrInvalidStatusTransition)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "书", 1000, 10)

	placed := placeTestOrder(t, env, u.ID, map[uint]int{b.ID: 3})

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, mysql.NewTxManager(env.db))
	require.NoError(t, cancelUC.Execute(ctx, u.ID, placed.OrderID))

	// 状态变更且库存归还
	o, err := env.orderRepo.FindByID(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domainorder.StatusCancelled, o.Status)

	got, err := env.bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)

	// 取消不归还已消费的忠诚折扣,下单计数也不回退
	gotUser, err := env.userRepo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotUser.FulfilledOrders)
}

func TestCancelOrder_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "书", 1000, 10)

	placed := placeTestOrder(t, env, u.ID, map[uint]int{b.ID: 1})

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, mysql.NewTxManager(env.db))
	err := cancelUC.Execute(ctx, u.ID+999, placed.OrderID)
	assert.ErrorIs(t, err, domainorder.ErrNotOwner)

	o, err := env.orderRepo.FindByID(ctx, placed.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domainorder.StatusPending, o.Status)
}

func TestCancelOrder_FulfilledCannotCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, 0, 0)
	b := env.seedBook(t, "书", 1000, 10)

	placed := placeTestOrder(t, env, u.ID, map[uint]int{b.ID: 1})

	fulfillUC, _ := newFulfillUseCase(env, &recordingBroadcaster{})
	_, err := fulfillUC.Execute(ctx, placed.ClaimCode)
	require.NoError(t, err)

	cancelUC := NewCancelOrderUseCase(env.orderRepo, env.bookRepo, mysql.NewTxManager(env.db))
	err = cancelUC.Execute(ctx, u.ID, placed.OrderID)
	assert.ErrorIs(t, err, domainorder.ErrInvalidStatusTransition)
}
