// Package broadcast 提供notify.Broadcaster的两种实现：
// 进程内SSE推送与跨实例的RabbitMQ扇出。
// 多实例部署时用notify.Fanout把两者组合：本实例直推，其余实例经MQ转发。
package broadcast

import (
	"context"
	"encoding/json"

	"github.com/xiebiao/bookshop/internal/domain/notify"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/mq"
	"github.com/xiebiao/bookshop/pkg/realtime"
)

// HubBroadcaster 进程内广播器，事件序列化后交给SSE事件中心
type HubBroadcaster struct {
	hub *realtime.Hub
}

// NewHubBroadcaster 创建进程内广播器
func NewHubBroadcaster(hub *realtime.Hub) *HubBroadcaster {
	return &HubBroadcaster{hub: hub}
}

// Broadcast 实现notify.Broadcaster
func (b *HubBroadcaster) Broadcast(ctx context.Context, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.hub.Broadcast(ctx, payload); err != nil {
		return err
	}
	if metrics.EventsBroadcastTotal != nil {
		metrics.EventsBroadcastTotal.WithLabelValues(event.Type).Inc()
	}
	return nil
}

// MQBroadcaster RabbitMQ广播器，把事件发布到topic交换机
// 路由键为事件类型（order_fulfilled / announcement）
type MQBroadcaster struct {
	publisher *mq.Publisher
	exchange  string
}

// NewMQBroadcaster 创建MQ广播器
func NewMQBroadcaster(publisher *mq.Publisher, exchange string) *MQBroadcaster {
	return &MQBroadcaster{
		publisher: publisher,
		exchange:  exchange,
	}
}

// Broadcast 实现notify.Broadcaster
func (b *MQBroadcaster) Broadcast(ctx context.Context, event notify.Event) error {
	if err := b.publisher.Publish(ctx, event.Type, event); err != nil {
		return err
	}
	if metrics.MessagesPublishedTotal != nil {
		metrics.MessagesPublishedTotal.WithLabelValues(b.exchange, event.Type).Inc()
	}
	return nil
}
