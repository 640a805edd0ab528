package order

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateClaimCode 生成订单领取码
// 设计说明：领取码是员工核销订单的业务凭证
// 1. 全局唯一（避免冲突，数据库唯一索引兜底）
// 2. 不可预测（防止恶意遍历他人订单）
// 3. 无分隔符的32位hex，便于口头/扫码传达
func GenerateClaimCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
