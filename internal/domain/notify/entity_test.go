package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnnouncement_IsActiveAt(t *testing.T) {
	now := time.Now()
	a := &Announcement{
		StartAt: now.Add(-time.Hour),
		EndAt:   now.Add(time.Hour),
	}

	assert.True(t, a.IsActiveAt(now))
	assert.True(t, a.IsActiveAt(a.StartAt))
	assert.True(t, a.IsActiveAt(a.EndAt))
	assert.False(t, a.IsActiveAt(now.Add(-2*time.Hour)))
	assert.False(t, a.IsActiveAt(now.Add(2*time.Hour)))
}

func TestNewAnnouncement_InvalidWindow(t *testing.T) {
	now := time.Now()
	_, err := NewAnnouncement("促销", "全场图书促销", now, now, 1)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewAnnouncement("促销", "全场图书促销", now, now.Add(-time.Hour), 1)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

type recordingBroadcaster struct {
	events []Event
	err    error
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestFanout_Broadcast(t *testing.T) {
	a := &recordingBroadcaster{}
	b := &recordingBroadcaster{err: errors.New("下游不可用")}
	c := &recordingBroadcaster{}

	f := Fanout{a, b, c}
	err := f.Broadcast(context.Background(), Event{Type: EventOrderFulfilled, ID: "1"})

	// 任一失败不阻断其余下游
	assert.Error(t, err)
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.Len(t, c.events, 1)
}
