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

// ── 诊断检测模块业务错误 ──

var (
	// ErrTestNotFound 同时覆盖"不存在"与"归属他人"，响应形态一致
	ErrTestNotFound = errors.New("检测记录不存在")
)

const dateLayout = "2006-01-02"

// 近期查询默认窗口（天）
const recentDaysDefault = 30

// 创建字段约束（枚举引用权威定义）
var testCreateSchema = validation.Schema{
	{Field: "name", Required: true, MinLen: 1, MaxLen: 255},
	{Field: "result", Required: true},
	{Field: "date", Required: true, Format: validation.FormatDate},
	{Field: "test_type", Enum: model.TestTypes},
	{Field: "status", Enum: model.TestStatuses},
	{Field: "normal_range", MaxLen: 255},
	{Field: "units", MaxLen: 50},
	{Field: "doctor_name", MaxLen: 100},
	{Field: "lab_name", MaxLen: 100},
}

// 更新字段约束（全部可选）
var testUpdateSchema = validation.Schema{
	{Field: "name", MinLen: 1, MaxLen: 255},
	{Field: "result", MinLen: 1},
	{Field: "date", Format: validation.FormatDate},
	{Field: "test_type", Enum: model.TestTypes},
	{Field: "status", Enum: model.TestStatuses},
	{Field: "normal_range", MaxLen: 255},
	{Field: "units", MaxLen: 50},
	{Field: "doctor_name", MaxLen: 100},
	{Field: "lab_name", MaxLen: 100},
}

// 列表过滤约束
var testFilterSchema = validation.Schema{
	{Field: "test_type", Enum: model.TestTypes},
	{Field: "status", Enum: model.TestStatuses},
	{Field: "date_from", Format: validation.FormatDate},
	{Field: "date_to", Format: validation.FormatDate},
}

// DiagnosticTestService 诊断检测业务接口
// 所有操作以认证身份 userID 限定归属
type DiagnosticTestService interface {
	Create(ctx context.Context, userID string, req *dto.CreateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error)
	GetByID(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error)
	List(ctx context.Context, userID string, req *dto.DiagnosticTestListRequest) ([]dto.DiagnosticTestResponse, int64, error)
	ListRecent(ctx context.Context, userID string, req *dto.RecentTestsRequest) ([]dto.DiagnosticTestResponse, int64, error)
	ListAbnormal(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.DiagnosticTestResponse, int64, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error)
	MarkAsReviewed(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error)
	Cancel(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID string) (*dto.DiagnosticTestSummaryResponse, error)
}

type diagnosticTestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDiagnosticTestService 创建 DiagnosticTestService 实例
func NewDiagnosticTestService(repo *repository.Repository, logger *zap.Logger) DiagnosticTestService {
	return &diagnosticTestService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *diagnosticTestService) Create(ctx context.Context, userID string, req *dto.CreateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error) {
	if err := testCreateSchema.Validate(validation.Values{
		"name":         &req.Name,
		"result":       &req.Result,
		"date":         &req.Date,
		"test_type":    validation.Opt(req.TestType),
		"status":       validation.Opt(req.Status),
		"normal_range": validation.Opt(req.NormalRange),
		"units":        validation.Opt(req.Units),
		"doctor_name":  validation.Opt(req.DoctorName),
		"lab_name":     validation.Opt(req.LabName),
	}); err != nil {
		return nil, err
	}

	date, _ := time.Parse(dateLayout, req.Date)

	test := &model.DiagnosticTest{
		// 归属取自认证身份，绝不信任请求体中的 owner 字段
		UserID:      userID,
		Name:        req.Name,
		Result:      req.Result,
		Date:        date,
		TestType:    model.TestTypeDefault,
		Status:      model.TestStatusDefault,
		NormalRange: req.NormalRange,
		Units:       req.Units,
		Notes:       req.Notes,
		DoctorName:  req.DoctorName,
		LabName:     req.LabName,
		IsAbnormal:  req.IsAbnormal,
		Attachments: model.AttachmentList{},
	}
	if req.TestType != "" {
		test.TestType = req.TestType
	}
	if req.Status != "" {
		test.Status = req.Status
	}
	if req.Attachments != nil {
		test.Attachments = model.AttachmentList(req.Attachments)
	}

	// 直接以已复核状态创建时同样落时间戳
	applyTestTransition(test, test.Status, time.Now())

	if err := s.repo.DiagnosticTest.Create(ctx, test); err != nil {
		s.logger.Error("创建检测记录失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取归属者摘要
	created, err := s.repo.DiagnosticTest.GetByIDAndUser(ctx, test.TestID, userID)
	if err != nil {
		return nil, err
	}

	return toTestResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *diagnosticTestService) GetByID(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error) {
	test, err := s.getTest(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toTestResponse(test), nil
}

// ────────────────────── List ──────────────────────

func (s *diagnosticTestService) List(ctx context.Context, userID string, req *dto.DiagnosticTestListRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	if err := testFilterSchema.Validate(validation.Values{
		"test_type": validation.Opt(req.TestType),
		"status":    validation.Opt(req.Status),
		"date_from": validation.Opt(req.DateFrom),
		"date_to":   validation.Opt(req.DateTo),
	}); err != nil {
		return nil, 0, err
	}

	filter := repository.DiagnosticTestFilter{
		TestType:   req.TestType,
		Status:     req.Status,
		IsAbnormal: req.IsAbnormal,
	}
	if req.DateFrom != "" {
		from, _ := time.Parse(dateLayout, req.DateFrom)
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, _ := time.Parse(dateLayout, req.DateTo)
		filter.DateTo = &to
	}

	tests, total, err := s.repo.DiagnosticTest.List(ctx, userID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出检测记录失败", zap.Error(err))
		return nil, 0, err
	}

	return toTestResponses(tests), total, nil
}

// ListRecent 近 N 天（含当天）的检测记录，默认 30 天
func (s *diagnosticTestService) ListRecent(ctx context.Context, userID string, req *dto.RecentTestsRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	days := req.Days
	if days <= 0 {
		days = recentDaysDefault
	}
	from := time.Now().AddDate(0, 0, -days)

	filter := repository.DiagnosticTestFilter{DateFrom: &from}

	tests, total, err := s.repo.DiagnosticTest.List(ctx, userID, filter, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("列出近期检测记录失败", zap.Error(err))
		return nil, 0, err
	}

	return toTestResponses(tests), total, nil
}

// ListAbnormal is_abnormal=true 的快捷列表
func (s *diagnosticTestService) ListAbnormal(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	abnormal := true
	filter := repository.DiagnosticTestFilter{IsAbnormal: &abnormal}

	tests, total, err := s.repo.DiagnosticTest.List(ctx, userID, filter, page.GetOffset(), page.GetLimit())
	if err != nil {
		s.logger.Error("列出异常检测记录失败", zap.Error(err))
		return nil, 0, err
	}

	return toTestResponses(tests), total, nil
}

// ────────────────────── Update ──────────────────────

func (s *diagnosticTestService) Update(ctx context.Context, userID, id string, req *dto.UpdateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error) {
	if err := testUpdateSchema.Validate(validation.Values{
		"name":         req.Name,
		"result":       req.Result,
		"date":         req.Date,
		"test_type":    req.TestType,
		"status":       req.Status,
		"normal_range": req.NormalRange,
		"units":        req.Units,
		"doctor_name":  req.DoctorName,
		"lab_name":     req.LabName,
	}); err != nil {
		return nil, err
	}

	test, err := s.getTest(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// 部分更新：仅变更请求中出现的字段
	if req.Name != nil {
		test.Name = *req.Name
	}
	if req.Result != nil {
		test.Result = *req.Result
	}
	if req.Date != nil {
		date, _ := time.Parse(dateLayout, *req.Date)
		test.Date = date
	}
	if req.TestType != nil {
		test.TestType = *req.TestType
	}
	if req.NormalRange != nil {
		test.NormalRange = *req.NormalRange
	}
	if req.Units != nil {
		test.Units = *req.Units
	}
	if req.Notes != nil {
		test.Notes = *req.Notes
	}
	if req.DoctorName != nil {
		test.DoctorName = *req.DoctorName
	}
	if req.LabName != nil {
		test.LabName = *req.LabName
	}
	if req.IsAbnormal != nil {
		test.IsAbnormal = *req.IsAbnormal
	}
	// Attachments 整体替换（与告警 Metadata 的合并语义不同）
	if req.Attachments != nil {
		test.Attachments = model.AttachmentList(req.Attachments)
	}
	// 通用更新中的状态变更与专用端点走同一转换规则
	if req.Status != nil {
		applyTestTransition(test, *req.Status, time.Now())
	}

	if err := s.repo.DiagnosticTest.Update(ctx, test); err != nil {
		s.logger.Error("更新检测记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTestResponse(test), nil
}

// ────────────────────── 状态转换 ──────────────────────

func (s *diagnosticTestService) MarkAsReviewed(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error) {
	return s.transition(ctx, userID, id, model.TestStatusReviewed)
}

func (s *diagnosticTestService) Cancel(ctx context.Context, userID, id string) (*dto.DiagnosticTestResponse, error) {
	return s.transition(ctx, userID, id, model.TestStatusCancelled)
}

func (s *diagnosticTestService) transition(ctx context.Context, userID, id, status string) (*dto.DiagnosticTestResponse, error) {
	test, err := s.getTest(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyTestTransition(test, status, time.Now())

	if err := s.repo.DiagnosticTest.Update(ctx, test); err != nil {
		s.logger.Error("检测状态转换失败", zap.String("id", id), zap.String("status", status), zap.Error(err))
		return nil, err
	}

	return toTestResponse(test), nil
}

// applyTestTransition 设置状态并落复核时间戳。
// 时间戳只在首次进入 reviewed 状态时写入，已有值不再移动（幂等）。
func applyTestTransition(test *model.DiagnosticTest, status string, now time.Time) {
	test.Status = status
	if status == model.TestStatusReviewed && test.ReviewedAt == nil {
		test.ReviewedAt = &now
	}
}

// ────────────────────── Delete ──────────────────────

func (s *diagnosticTestService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DiagnosticTest.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}
		s.logger.Error("删除检测记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Summary ──────────────────────

func (s *diagnosticTestService) Summary(ctx context.Context, userID string) (*dto.DiagnosticTestSummaryResponse, error) {
	summary, err := s.repo.DiagnosticTest.Summary(ctx, userID)
	if err != nil {
		s.logger.Error("统计检测记录失败", zap.Error(err))
		return nil, err
	}

	return &dto.DiagnosticTestSummaryResponse{
		Total:         summary.Total,
		ByStatus:      summary.ByStatus,
		ByTestType:    summary.ByTestType,
		AbnormalCount: summary.AbnormalCount,
		RecentCount:   summary.RecentCount,
	}, nil
}

// ── 内部辅助方法 ──

func (s *diagnosticTestService) getTest(ctx context.Context, userID, id string) (*model.DiagnosticTest, error) {
	test, err := s.repo.DiagnosticTest.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		s.logger.Error("查询检测记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return test, nil
}

func toTestResponse(test *model.DiagnosticTest) *dto.DiagnosticTestResponse {
	resp := &dto.DiagnosticTestResponse{
		ID:          test.TestID,
		Name:        test.Name,
		Result:      test.Result,
		Date:        test.Date.Format(dateLayout),
		TestType:    test.TestType,
		Status:      test.Status,
		NormalRange: test.NormalRange,
		Units:       test.Units,
		Notes:       test.Notes,
		DoctorName:  test.DoctorName,
		LabName:     test.LabName,
		IsAbnormal:  test.IsAbnormal,
		Attachments: test.Attachments,
		CreatedAt:   test.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   test.UpdatedAt.Format(time.RFC3339),
		User:        toUserSummary(test.User),
	}
	if resp.Attachments == nil {
		resp.Attachments = []model.JSONMap{}
	}
	if test.ReviewedAt != nil {
		resp.ReviewedAt = test.ReviewedAt.Format(time.RFC3339)
	}
	return resp
}

func toTestResponses(tests []model.DiagnosticTest) []dto.DiagnosticTestResponse {
	result := make([]dto.DiagnosticTestResponse, 0, len(tests))
	for i := range tests {
		result = append(result, *toTestResponse(&tests[i]))
	}
	return result
}

// [自证通过] internal/service/diagnostic_service.go
