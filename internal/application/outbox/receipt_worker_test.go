package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/domain/outbox"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
)

// fakeMailer 可编程的邮件发送测试替身
type fakeMailer struct {
	err  error
	sent []string
}

func (m *fakeMailer) Send(_ context.Context, to, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func newOutboxRepo(t *testing.T) outbox.Repository {
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
	return mysql.NewOutboxRepository(db)
}

func seedReceipt(t *testing.T, repo outbox.Repository, email string) *outbox.Receipt {
	t.Helper()
	r := &outbox.Receipt{
		OrderID: 1,
		Email:   email,
		Subject: "订单确认 #1",
		Body:    "请凭领取码到店取书。",
		Status:  outbox.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), r))
	return r
}

func TestReceiptWorker_SendsPending(t *testing.T) {
	repo := newOutboxRepo(t)
	mailer := &fakeMailer{}
	worker := NewReceiptWorker(repo, mailer)
	ctx := context.Background()

	seedReceipt(t, repo, "a@example.com")
	seedReceipt(t, repo, "b@example.com")

	worker.ProcessBatch(ctx)

	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, mailer.sent)

	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReceiptWorker_FailureKeepsPending(t *testing.T) {
	repo := newOutboxRepo(t)
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	worker := NewReceiptWorker(repo, mailer)
	ctx := context.Background()

	seedReceipt(t, repo, "a@example.com")

	worker.ProcessBatch(ctx)

	// 失败记录一次attempt,仍留在发件箱等待重试
	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Contains(t, pending[0].LastError, "connection refused")
}

func TestReceiptWorker_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	repo := newOutboxRepo(t)
	mailer := &fakeMailer{err: errors.New("smtp: down")}
	worker := NewReceiptWorker(repo, mailer)
	ctx := context.Background()

	seedReceipt(t, repo, "a@example.com")

	// 连续3次失败后熔断器打开
	worker.ProcessBatch(ctx)
	worker.ProcessBatch(ctx)
	worker.ProcessBatch(ctx)
	assert.Equal(t, 3, countAttempts(t, repo))

	// 打开后这一轮直接跳过,不再累计失败次数
	worker.ProcessBatch(ctx)
	assert.Equal(t, 3, countAttempts(t, repo))
}

func countAttempts(t *testing.T, repo outbox.Repository) int {
	t.Helper()
	pending, err := repo.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	return pending[0].Attempts
}
