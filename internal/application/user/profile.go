package user

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

// ProfileUseCase 用户资料用例
// 会员中心展示用：基础信息+忠诚折扣进度
type ProfileUseCase struct {
	userRepo user.Repository
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo}
}

// Execute 查询用户资料
func (uc *ProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            u.Role,
		FulfilledOrders: u.FulfilledOrders,
		LoyaltyRateBps:  u.LoyaltyRateBps,
		// 距下一档忠诚折扣还差几单
		OrdersToNextReward: 10 - u.FulfilledOrders%10,
	}, nil
}

// ProfileResponse 用户资料响应
type ProfileResponse struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	Role               string `json:"role"`
	FulfilledOrders    int    `json:"fulfilled_orders"`
	LoyaltyRateBps     int64  `json:"loyalty_rate_bps"`
	OrdersToNextReward int    `json:"orders_to_next_reward"`
}
