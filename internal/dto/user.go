package dto

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新个人资料请求（部分更新，缺省字段不变）
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdatePreferencesRequest 更新偏好请求
// 每个键独立可选，提供的键覆盖原值，未提供的键保留
type UpdatePreferencesRequest struct {
	NotificationThreshold *string `json:"notification_threshold"`
	EmailNotify           *bool   `json:"email_notify"`
	Theme                 *string `json:"theme"`
	Language              *string `json:"language"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password"`
}

// UserListRequest 用户列表查询参数（管理员）
type UserListRequest struct {
	PaginationRequest
}

// [自证通过] internal/dto/user.go
