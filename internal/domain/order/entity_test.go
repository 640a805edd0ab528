package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestOrder(status Status) *Order {
	return &Order{
		ID:        1,
		UserID:    10,
		ClaimCode: "abc123",
		Status:    status,
		Discount:  200,
		Items: []Item{
			{ID: 1, OrderID: 1, BookID: 100, Quantity: 3, Price: 1000},
			{ID: 2, OrderID: 1, BookID: 101, Quantity: 2, Price: 500},
		},
		CreatedAt: time.Now(),
	}
}

func TestOrder_Amounts(t *testing.T) {
	o := newTestOrder(StatusPending)

	// 3×1000 + 2×500 = 4000
	assert.Equal(t, int64(4000), o.BaseAmount())
	assert.Equal(t, int64(3800), o.Payable())
	assert.Equal(t, 5, o.TotalQuantity())
}

func TestOrder_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"待处理可以取消", StatusPending, StatusCancelled, false},
		{"待处理可以完成", StatusPending, StatusFulfilled, false},
		{"已取消不能完成", StatusCancelled, StatusFulfilled, true},
		{"已取消不能再取消", StatusCancelled, StatusCancelled, true},
		{"已完成不能取消", StatusFulfilled, StatusCancelled, true},
		{"已完成不能再完成", StatusFulfilled, StatusFulfilled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(tt.from)
			err := o.TransitionTo(tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, o.Status)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
			}
		})
	}
}

func TestOrder_CancelAndFulfill(t *testing.T) {
	o := newTestOrder(StatusPending)
	assert.NoError(t, o.Cancel())
	assert.Equal(t, StatusCancelled, o.Status)

	o2 := newTestOrder(StatusPending)
	assert.NoError(t, o2.Fulfill())
	assert.Equal(t, StatusFulfilled, o2.Status)
}

func TestOrder_IsOwnedBy(t *testing.T) {
	o := newTestOrder(StatusPending)
	assert.True(t, o.IsOwnedBy(10))
	assert.False(t, o.IsOwnedBy(11))
}

func TestGenerateClaimCode(t *testing.T) {
	code := GenerateClaimCode()
	assert.Len(t, code, 32)
	assert.NotContains(t, code, "-")
	assert.NotEqual(t, code, GenerateClaimCode())
}
