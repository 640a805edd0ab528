package user

import (
	"time"
)

// 角色常量
// 设计说明：两类使用者——会员（下单、收藏、书评）与员工（上架、处理订单、发公告）
const (
	RoleMember = "member"
	RoleStaff  = "staff"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不暴露明文
// 2. FulfilledOrders与LoyaltyRateBps服务于订单折扣规则：
//    每下满10单，下一单额外获得10%折扣（可累积）
// 3. LoyaltyRateBps以基点存储（1000 = 10%），与金额的"分"保持同一套整数运算
type User struct {
	ID              uint
	Username        string
	Email           string
	Password        string // bcrypt哈希值
	FullName        string
	Role            string // member | staff
	FulfilledOrders int    // 已成功下单次数
	LoyaltyRateBps  int64  // 待消费的忠诚折扣率（基点）
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword, fullName, role string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FullName:  fullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsStaff 是否为员工
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}

// ConsumeLoyaltyRate 消费累积的忠诚折扣率（领域行为）
// 返回被消费的基点数；消费后清零。下单时调用。
func (u *User) ConsumeLoyaltyRate() int64 {
	rate := u.LoyaltyRateBps
	u.LoyaltyRateBps = 0
	u.UpdatedAt = time.Now()
	return rate
}

// RecordOrderPlaced 记录一次成功下单（领域行为）
// 业务规则：计数器每到10的倍数，累加10%（1000基点）到待消费折扣率。
// 折扣率是累加而非覆盖——两次里程碑之间若没有下单消费，会叠到20%。
func (u *User) RecordOrderPlaced() {
	u.FulfilledOrders++
	if u.FulfilledOrders%10 == 0 {
		u.LoyaltyRateBps += 1000
	}
	u.UpdatedAt = time.Now()
}
