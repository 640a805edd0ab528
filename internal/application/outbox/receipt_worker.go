package outbox

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/bookshop/internal/domain/outbox"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

// ReceiptWorker 收据发件箱后台worker
// 设计说明：
// 1. 定时轮询pending收据批量发送（发件箱模式的消费端）
// 2. SMTP调用经过熔断器：邮件服务器故障时快速失败，
//    收据留在发件箱等下一轮，不会卡死轮询循环
// 3. 同一收据失败累计达到上限后标记为failed，不再重试
type ReceiptWorker struct {
	outboxRepo outbox.Repository
	mailer     outbox.Mailer
	breaker    *circuitbreaker.CircuitBreaker
	interval   time.Duration
	batchSize  int
}

// NewReceiptWorker 创建收据worker
func NewReceiptWorker(outboxRepo outbox.Repository, mailer outbox.Mailer) *ReceiptWorker {
	breaker := circuitbreaker.NewCircuitBreaker("smtp", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s -> %s", name, from, to)
		if metrics.CircuitBreakerState != nil {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		}
	})

	return &ReceiptWorker{
		outboxRepo: outboxRepo,
		mailer:     mailer,
		breaker:    breaker,
		interval:   10 * time.Second,
		batchSize:  20,
	}
}

// Run 启动轮询循环，阻塞直到ctx取消
// 以goroutine方式调用：go worker.Run(ctx)
func (w *ReceiptWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("收据发件箱worker已启动: interval=%s batch=%d", w.interval, w.batchSize)
	for {
		select {
		case <-ctx.Done():
			log.Println("收据发件箱worker已停止")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch 处理一批pending收据
func (w *ReceiptWorker) ProcessBatch(ctx context.Context) {
	receipts, err := w.outboxRepo.ListPending(ctx, w.batchSize)
	if err != nil {
		log.Printf("查询待发送收据失败: %v", err)
		return
	}

	for _, r := range receipts {
		if err := w.send(ctx, r); err != nil {
			// 熔断器打开时这一批剩余的也会立即失败,直接等下一轮
			if err == circuitbreaker.ErrOpenState {
				return
			}
			if markErr := w.outboxRepo.MarkFailed(ctx, r.ID, err.Error()); markErr != nil {
				log.Printf("标记收据失败状态出错: receipt=%d err=%v", r.ID, markErr)
			}
			if metrics.ReceiptsFailedTotal != nil {
				metrics.ReceiptsFailedTotal.Inc()
			}
			log.Printf("收据邮件发送失败: receipt=%d order=%d err=%v", r.ID, r.OrderID, err)
			continue
		}

		if err := w.outboxRepo.MarkSent(ctx, r.ID); err != nil {
			log.Printf("标记收据已发送出错: receipt=%d err=%v", r.ID, err)
			continue
		}
		if metrics.ReceiptsSentTotal != nil {
			metrics.ReceiptsSentTotal.Inc()
		}
	}
}

func (w *ReceiptWorker) send(ctx context.Context, r *outbox.Receipt) error {
	return w.breaker.Execute(func() error {
		return w.mailer.Send(ctx, r.Email, r.Subject, r.Body)
	})
}
