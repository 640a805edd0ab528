package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastToAllClients(t *testing.T) {
	hub := NewHub()

	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub1()
	defer unsub2()

	require.Equal(t, 2, hub.ClientCount())
	require.NoError(t, hub.Broadcast(context.Background(), []byte(`{"type":"order_fulfilled"}`)))

	for _, ch := range []<-chan []byte{ch1, ch2} {
		select {
		case msg := <-ch:
			assert.JSONEq(t, `{"type":"order_fulfilled"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("客户端未收到广播")
		}
	}
}

func TestHub_UnsubscribeRemovesClient(t *testing.T) {
	hub := NewHub()

	ch, unsub := hub.Subscribe()
	unsub()
	// 幂等
	unsub()

	assert.Equal(t, 0, hub.ClientCount())

	// channel已关闭
	_, ok := <-ch
	assert.False(t, ok)

	// 注销后的广播不panic
	assert.NoError(t, hub.Broadcast(context.Background(), []byte("x")))
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, unsub := hub.Subscribe() // 从不读取的慢客户端
	defer unsub()

	done := make(chan struct{})
	go func() {
		// 超出缓冲后应直接丢弃,不阻塞
		for i := 0; i < clientBuffer*2; i++ {
			hub.Broadcast(context.Background(), []byte("event"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("慢客户端阻塞了广播")
	}
}

func TestHub_BroadcastHonorsContext(t *testing.T) {
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, hub.Broadcast(ctx, []byte("x")))
}
