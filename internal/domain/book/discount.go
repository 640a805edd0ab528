package book

import (
	"time"
)

// Discount 图书折扣（时间窗口内的百分比降价）
// 设计说明：
// 1. 折扣率以基点存储（1000 = 10%），与价格的"分"同一套整数运算
// 2. OnSale为总开关，关掉即失效，不必等时间窗口结束
// 3. 折扣只影响目录展示价，不参与下单结算
type Discount struct {
	ID        uint
	BookID    uint
	RateBps   int64 // 折扣率（基点，0-10000）
	OnSale    bool
	StartAt   time.Time
	EndAt     time.Time
	CreatedAt time.Time
}

// IsActiveAt 折扣在时刻t是否生效
func (d *Discount) IsActiveAt(t time.Time) bool {
	return d.OnSale && !d.StartAt.After(t) && !d.EndAt.Before(t)
}

// Apply 对价格（分）应用折扣，向下取整
func (d *Discount) Apply(price int64) int64 {
	return price - price*d.RateBps/10000
}

// ActiveDiscount 从折扣列表中选出时刻t的生效折扣
// 业务规则：多条同时生效时，"最近开始"的一条胜出
func ActiveDiscount(discounts []Discount, t time.Time) (*Discount, bool) {
	var winner *Discount
	for i := range discounts {
		d := &discounts[i]
		if !d.IsActiveAt(t) {
			continue
		}
		if winner == nil || d.StartAt.After(winner.StartAt) {
			winner = d
		}
	}
	return winner, winner != nil
}
