package outbox

import (
	"context"
	"time"
)

// 收据状态
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// MaxAttempts 超过该次数后标记为failed，不再重试
const MaxAttempts = 5

// Receipt 收据发件箱记录
// 设计说明：
// 1. 下单事务内仅插入一条pending记录，邮件发送由后台worker异步完成
// 2. 保证"订单成功但邮件未发"可恢复，避免SMTP阻塞下单主流程
type Receipt struct {
	ID        uint
	OrderID   uint
	Email     string
	Subject   string
	Body      string
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}

// Repository 发件箱仓储接口
type Repository interface {
	Create(ctx context.Context, r *Receipt) error

	// ListPending 取出一批待发送的收据（按创建时间升序）
	ListPending(ctx context.Context, limit int) ([]*Receipt, error)

	// MarkSent 标记发送成功
	MarkSent(ctx context.Context, id uint) error

	// MarkFailed 记录一次失败，attempts达到上限后置为failed
	MarkFailed(ctx context.Context, id uint, reason string) error
}

// Mailer 邮件发送接口，由infrastructure层的SMTP客户端实现
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
