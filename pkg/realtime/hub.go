// Package realtime 提供进程内的实时事件推送中心
//
// 设计说明：
// 1. Hub维护所有在线客户端的事件channel，广播时逐个写入
// 2. 客户端channel带缓冲，写不进去直接丢弃（慢客户端不阻塞广播方）
// 3. HTTP层以SSE（Server-Sent Events）方式把channel里的事件推给浏览器
package realtime

import (
	"context"
	"sync"
)

// 客户端事件缓冲大小，超出即认为客户端过慢
const clientBuffer = 16

// Hub 实时事件中心
type Hub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
}

// NewHub 创建事件中心
func NewHub() *Hub {
	return &Hub{
		clients: make(map[chan []byte]struct{}),
	}
}

// Subscribe 注册一个客户端，返回事件channel与注销函数
// 注销函数幂等，连接断开时必须调用，否则客户端泄漏
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, unsubscribe
}

// Broadcast 向所有在线客户端广播一条消息
// 缓冲已满的客户端直接跳过，不等待
func (h *Hub) Broadcast(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- payload:
		default:
			// 慢客户端,丢弃本条
		}
	}
	return nil
}

// ClientCount 当前在线客户端数（监控用）
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
