package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRecordOrderPlaced_Milestone 第10、20次下单各累加10%待用折扣
func TestRecordOrderPlaced_Milestone(t *testing.T) {
	u := NewUser("alice", "alice@example.com", "hashed", "Alice", RoleMember)

	for i := 0; i < 9; i++ {
		u.RecordOrderPlaced()
	}
	assert.Equal(t, 9, u.FulfilledOrders)
	assert.Equal(t, int64(0), u.LoyaltyRateBps)

	u.RecordOrderPlaced() // 第10单
	assert.Equal(t, int64(1000), u.LoyaltyRateBps)

	for i := 0; i < 10; i++ {
		u.RecordOrderPlaced()
	}
	// 未消费过，两个里程碑叠加到20%
	assert.Equal(t, 20, u.FulfilledOrders)
	assert.Equal(t, int64(2000), u.LoyaltyRateBps)
}

// TestConsumeLoyaltyRate 消费后清零
func TestConsumeLoyaltyRate(t *testing.T) {
	u := NewUser("bob", "bob@example.com", "hashed", "Bob", RoleMember)
	u.LoyaltyRateBps = 1000

	assert.Equal(t, int64(1000), u.ConsumeLoyaltyRate())
	assert.Equal(t, int64(0), u.LoyaltyRateBps)
	assert.Equal(t, int64(0), u.ConsumeLoyaltyRate())
}

func TestIsStaff(t *testing.T) {
	assert.True(t, NewUser("s", "s@e.com", "h", "S", RoleStaff).IsStaff())
	assert.False(t, NewUser("m", "m@e.com", "h", "M", RoleMember).IsStaff())
}
