package order

import (
	"time"
)

// Status 订单状态
// 设计说明：
// 1. 使用int类型而非string（节省存储空间，便于索引）
// 2. 状态机只有两条合法边：待处理→已取消（会员）、待处理→已完成（员工凭领取码）
//    两个终态之后不允许任何流转
type Status int

const (
	StatusPending   Status = 1 // 待处理
	StatusCancelled Status = 2 // 已取消（终态）
	StatusFulfilled Status = 3 // 已完成（终态）
)

// String 实现Stringer接口（方便日志输出）
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "待处理"
	case StatusCancelled:
		return "已取消"
	case StatusFulfilled:
		return "已完成"
	default:
		return "未知状态"
	}
}

// Order 订单实体（聚合根）
// 设计说明：
// 1. Order是聚合根，OrderItem是子实体，创建后不可增删明细
// 2. ClaimCode是给员工核销用的业务凭证（全局唯一、不可预测）
// 3. Discount冗余存储下单时算出的折扣总额（分）
type Order struct {
	ID        uint
	UserID    uint
	ClaimCode string
	Status    Status
	Discount  int64 // 下单时应用的折扣总额（分）
	Items     []Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item 订单明细项
// Price记录"下单时的单价"快照，之后图书改价不影响历史订单
type Item struct {
	ID       uint
	OrderID  uint
	BookID   uint
	Quantity int
	Price    int64 // 下单时的单价（分）
}

// NewOrder 创建新订单（工厂方法）
// 初始状态为Pending（待处理）
func NewOrder(userID uint, claimCode string, items []Item, discount int64) *Order {
	now := time.Now()
	return &Order{
		UserID:    userID,
		ClaimCode: claimCode,
		Status:    StatusPending,
		Discount:  discount,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusCancelled, StatusFulfilled},
		StatusCancelled: {},
		StatusFulfilled: {},
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
// 非法跳转返回ErrInvalidStatusTransition，不会静默忽略
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单（领域行为，会员触发）
func (o *Order) Cancel() error {
	return o.TransitionTo(StatusCancelled)
}

// Fulfill 完成订单（领域行为，员工凭领取码触发）
func (o *Order) Fulfill() error {
	return o.TransitionTo(StatusFulfilled)
}

// BaseAmount 明细金额合计（折扣前，分）
func (o *Order) BaseAmount() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// Payable 应付金额 = 明细合计 - 折扣
func (o *Order) Payable() int64 {
	return o.BaseAmount() - o.Discount
}

// TotalQuantity 明细数量合计
func (o *Order) TotalQuantity() int {
	var total int
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户（权限校验用）
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
