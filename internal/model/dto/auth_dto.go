package dto

// LoginRequest 登录请求。普通学员只需手机号，管理员账号需要密码。
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required,min=5,max=20"`
	Password string `json:"password,omitempty"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateUserRequest 管理员创建学员请求
type CreateUserRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=50"`
	Phone    string  `json:"phone" binding:"required,min=5,max=20"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Role     string  `json:"role,omitempty" binding:"omitempty,oneof=member admin"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8,max=32"`
}
