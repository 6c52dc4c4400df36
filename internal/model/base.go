package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── PostgreSQL JSONB 自定义类型 ──

// JSONMap 对应 PostgreSQL JSONB 对象，实现 GORM Scanner/Valuer 接口。
type JSONMap map[string]interface{}

// Scan 将 PostgreSQL 返回的 JSONB 解析为 map。
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(b, m)
}

// Value 将 map 序列化为 JSONB 文本。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Merge 浅合并：other 的键覆盖同名键，其余键保留。
func (m JSONMap) Merge(other JSONMap) JSONMap {
	merged := make(JSONMap, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// AttachmentList 对应 PostgreSQL JSONB 数组，元素为不透明的附件元数据。
// 仅保证顺序与内容原样存取，不解释其结构。
type AttachmentList []JSONMap

// Scan 将 PostgreSQL 返回的 JSONB 数组解析为 []JSONMap。
func (a *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*a = AttachmentList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("AttachmentList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*a = AttachmentList{}
		return nil
	}
	return json.Unmarshal(b, a)
}

// Value 将附件列表序列化为 JSONB 文本。
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
