package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/realtime"
)

// EventsHandler 实时事件SSE处理器
// 浏览器通过EventSource订阅，服务端把事件中心的广播逐条推送
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler 创建SSE处理器
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream 事件流
// @Summary      实时事件流
// @Description  SSE长连接，推送订单完成与公告上线事件，data为JSON编码的事件体
// @Tags         实时
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {string} string "event stream"
// @Router       /api/v1/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // 关闭nginx缓冲

	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	if metrics.SSEClientsConnected != nil {
		metrics.SSEClientsConnected.Inc()
		defer metrics.SSEClientsConnected.Dec()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("message", string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
