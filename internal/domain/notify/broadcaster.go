package notify

import (
	"context"
	"time"
)

// 广播事件类型
const (
	EventOrderFulfilled     = "order_fulfilled"
	EventAnnouncementOnline = "announcement"
)

// Event 实时广播事件
// 订单完成与公告上线时推送给所有在线客户端
type Event struct {
	Type        string    `json:"type"`
	ID          string    `json:"id,omitempty"`
	Content     string    `json:"content,omitempty"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Broadcaster 实时广播接口
// 实现可以是进程内SSE中心，也可以是RabbitMQ扇出交换机
type Broadcaster interface {
	Broadcast(ctx context.Context, event Event) error
}

// Fanout 组合广播器，依次向多个下游广播
// 任一下游失败不阻断其余下游，返回首个错误
type Fanout []Broadcaster

func (f Fanout) Broadcast(ctx context.Context, event Event) error {
	var firstErr error
	for _, b := range f {
		if err := b.Broadcast(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
