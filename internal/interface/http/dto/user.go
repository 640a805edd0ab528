package dto

// RegisterRequest HTTP注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32" example:"reader01"`
	Email    string `json:"email" binding:"required,email" example:"reader01@example.com"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"S3cret!pass"`
	FullName string `json:"full_name" binding:"required,max=64" example:"张三"`
	Role     string `json:"role" binding:"omitempty,oneof=member staff" example:"member"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"reader01"`
	Password string `json:"password" binding:"required" example:"S3cret!pass"`
}
