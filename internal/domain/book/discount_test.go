package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(startOffset, endOffset time.Duration) (time.Time, time.Time) {
	now := time.Now()
	return now.Add(startOffset), now.Add(endOffset)
}

// TestActiveDiscount_LatestStartWins 多条生效折扣时，最近开始的胜出
func TestActiveDiscount_LatestStartWins(t *testing.T) {
	now := time.Now()
	s1, e1 := window(-48*time.Hour, 24*time.Hour)
	s2, e2 := window(-1*time.Hour, 24*time.Hour)

	discounts := []Discount{
		{ID: 1, RateBps: 2000, OnSale: true, StartAt: s1, EndAt: e1},
		{ID: 2, RateBps: 1000, OnSale: true, StartAt: s2, EndAt: e2},
	}

	d, ok := ActiveDiscount(discounts, now)
	require.True(t, ok)
	assert.Equal(t, uint(2), d.ID)
}

// TestActiveDiscount_IgnoresInactive 停售与窗口外的折扣不参与
func TestActiveDiscount_IgnoresInactive(t *testing.T) {
	now := time.Now()
	s1, e1 := window(-48*time.Hour, -24*time.Hour) // 已结束
	s2, e2 := window(-1*time.Hour, 24*time.Hour)   // 生效但停售

	discounts := []Discount{
		{ID: 1, RateBps: 2000, OnSale: true, StartAt: s1, EndAt: e1},
		{ID: 2, RateBps: 1000, OnSale: false, StartAt: s2, EndAt: e2},
	}

	_, ok := ActiveDiscount(discounts, now)
	assert.False(t, ok)
}

// TestEffectivePrice 有效价格 = 原价 × (1 - 折扣率)
func TestEffectivePrice(t *testing.T) {
	now := time.Now()
	s, e := window(-time.Hour, time.Hour)
	b := &Book{Price: 5900}

	assert.Equal(t, int64(5900), b.EffectivePrice(nil, now))

	withDiscount := []Discount{{RateBps: 2500, OnSale: true, StartAt: s, EndAt: e}}
	// 5900 - 5900*2500/10000 = 5900 - 1475 = 4425
	assert.Equal(t, int64(4425), b.EffectivePrice(withDiscount, now))
}

func TestDiscountApply_RoundsDown(t *testing.T) {
	d := Discount{RateBps: 3333}
	// 999 - 999*3333/10000 = 999 - 332 = 667
	assert.Equal(t, int64(667), d.Apply(999))
}
