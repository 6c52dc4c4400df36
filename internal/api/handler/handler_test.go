package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"vitaltrack/backend/internal/dto"
	"vitaltrack/backend/internal/service"
	"vitaltrack/backend/internal/validation"
	"vitaltrack/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.UserResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
	refreshResult  *dto.TokenResponse
	refreshErr     error
	logoutErr      error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time) error {
	return m.logoutErr
}

// ── Mock UserService ──

type mockUserService struct {
	profileResult *dto.UserResponse
	profileErr    error
	updateResult  *dto.UserResponse
	updateErr     error
	prefsResult   *dto.PreferencesResponse
	prefsErr      error
	changePassErr error
	deleteErr     error
	listResult    []dto.UserResponse
	listTotal     int64
	listErr       error
}

func (m *mockUserService) GetProfile(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.profileResult, m.profileErr
}
func (m *mockUserService) UpdateProfile(_ context.Context, _ string, _ *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockUserService) UpdatePreferences(_ context.Context, _ string, _ *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	return m.prefsResult, m.prefsErr
}
func (m *mockUserService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}
func (m *mockUserService) DeleteAccount(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}

// ── Mock AlertService ──

type mockAlertService struct {
	createResult     *dto.AlertResponse
	createErr        error
	getResult        *dto.AlertResponse
	getErr           error
	listResult       []dto.AlertResponse
	listTotal        int64
	listErr          error
	updateResult     *dto.AlertResponse
	updateErr        error
	transitionResult *dto.AlertResponse
	transitionErr    error
	deleteErr        error
	summaryResult    *dto.AlertSummaryResponse
	summaryErr       error
}

func (m *mockAlertService) Create(_ context.Context, _ string, _ *dto.CreateAlertRequest) (*dto.AlertResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockAlertService) GetByID(_ context.Context, _, _ string) (*dto.AlertResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockAlertService) List(_ context.Context, _ string, _ *dto.AlertListRequest) ([]dto.AlertResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockAlertService) ListActive(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.AlertResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockAlertService) Update(_ context.Context, _, _ string, _ *dto.UpdateAlertRequest) (*dto.AlertResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockAlertService) Acknowledge(_ context.Context, _, _ string) (*dto.AlertResponse, error) {
	return m.transitionResult, m.transitionErr
}
func (m *mockAlertService) Resolve(_ context.Context, _, _ string) (*dto.AlertResponse, error) {
	return m.transitionResult, m.transitionErr
}
func (m *mockAlertService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockAlertService) Summary(_ context.Context, _ string) (*dto.AlertSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}

// ── Mock DiagnosticTestService ──

type mockDiagnosticTestService struct {
	createResult     *dto.DiagnosticTestResponse
	createErr        error
	getResult        *dto.DiagnosticTestResponse
	getErr           error
	listResult       []dto.DiagnosticTestResponse
	listTotal        int64
	listErr          error
	updateResult     *dto.DiagnosticTestResponse
	updateErr        error
	transitionResult *dto.DiagnosticTestResponse
	transitionErr    error
	deleteErr        error
	summaryResult    *dto.DiagnosticTestSummaryResponse
	summaryErr       error
}

func (m *mockDiagnosticTestService) Create(_ context.Context, _ string, _ *dto.CreateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockDiagnosticTestService) GetByID(_ context.Context, _, _ string) (*dto.DiagnosticTestResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockDiagnosticTestService) List(_ context.Context, _ string, _ *dto.DiagnosticTestListRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockDiagnosticTestService) ListRecent(_ context.Context, _ string, _ *dto.RecentTestsRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockDiagnosticTestService) ListAbnormal(_ context.Context, _ string, _ *dto.PaginationRequest) ([]dto.DiagnosticTestResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockDiagnosticTestService) Update(_ context.Context, _, _ string, _ *dto.UpdateDiagnosticTestRequest) (*dto.DiagnosticTestResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockDiagnosticTestService) MarkAsReviewed(_ context.Context, _, _ string) (*dto.DiagnosticTestResponse, error) {
	return m.transitionResult, m.transitionErr
}
func (m *mockDiagnosticTestService) Cancel(_ context.Context, _, _ string) (*dto.DiagnosticTestResponse, error) {
	return m.transitionResult, m.transitionErr
}
func (m *mockDiagnosticTestService) Delete(_ context.Context, _, _ string) error {
	return m.deleteErr
}
func (m *mockDiagnosticTestService) Summary(_ context.Context, _ string) (*dto.DiagnosticTestSummaryResponse, error) {
	return m.summaryResult, m.summaryErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportTests(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportCalendar(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("is_admin", false)
	c.Set("jti", "test-jti")
	c.Set("token_expires_at", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.UserResponse{ID: "user-1", Email: "new@test.com"},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "新用户", Email: "new@test.com", Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAuthHandler_Register_ValidationError(t *testing.T) {
	mock := &mockAuthService{
		registerErr: &validation.Error{Fields: []validation.FieldError{
			{Field: "email", Message: "邮箱格式无效"},
		}},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "新用户", Email: "bad-email", Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
	if resp.Errors == nil {
		t.Error("expected field errors in response")
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailExists}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name: "新用户", Email: "dup@test.com", Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email: "me@test.com", Password: "password123",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email: "me@test.com", Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AlertHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAlertHandler_List_Success(t *testing.T) {
	mock := &mockAlertService{
		listResult: []dto.AlertResponse{{ID: "alert-1", Title: "测试"}},
		listTotal:  1,
	}
	h := NewAlertHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/alerts?page=1&limit=10", nil)

	r := gin.New()
	r.GET("/alerts", func(c *gin.Context) {
		setAuth(c)
		h.List(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAlertHandler_List_Unauthenticated(t *testing.T) {
	h := NewAlertHandler(&mockAlertService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/alerts", nil)

	r := gin.New()
	r.GET("/alerts", h.List)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAlertHandler_List_LimitTooLarge(t *testing.T) {
	h := NewAlertHandler(&mockAlertService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/alerts?limit=500", nil)

	r := gin.New()
	r.GET("/alerts", func(c *gin.Context) {
		setAuth(c)
		h.List(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAlertHandler_Create_Success(t *testing.T) {
	mock := &mockAlertService{
		createResult: &dto.AlertResponse{ID: "alert-1", Title: "新告警"},
	}
	h := NewAlertHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/alerts", jsonBody(dto.CreateAlertRequest{Title: "新告警"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/alerts", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestAlertHandler_Get_NotFound(t *testing.T) {
	mock := &mockAlertService{getErr: service.ErrAlertNotFound}
	h := NewAlertHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/alerts/nonexistent", nil)

	r := gin.New()
	r.GET("/alerts/:id", func(c *gin.Context) {
		setAuth(c)
		h.Get(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12001 {
		t.Errorf("expected code 12001, got %d", resp.Code)
	}
}

func TestAlertHandler_Acknowledge_Success(t *testing.T) {
	mock := &mockAlertService{
		transitionResult: &dto.AlertResponse{ID: "alert-1", Status: "acknowledged"},
	}
	h := NewAlertHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/alerts/alert-1/acknowledge", nil)

	r := gin.New()
	r.PUT("/alerts/:id/acknowledge", func(c *gin.Context) {
		setAuth(c)
		h.Acknowledge(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAlertHandler_Summary_Success(t *testing.T) {
	mock := &mockAlertService{
		summaryResult: &dto.AlertSummaryResponse{
			Total:    2,
			ByStatus: map[string]int64{"active": 2},
		},
	}
	h := NewAlertHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/alerts/stats/summary", nil)

	r := gin.New()
	r.GET("/alerts/stats/summary", func(c *gin.Context) {
		setAuth(c)
		h.Summary(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DiagnosticTestHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDiagnosticHandler_Create_Success(t *testing.T) {
	mock := &mockDiagnosticTestService{
		createResult: &dto.DiagnosticTestResponse{ID: "test-1", Name: "血常规"},
	}
	h := NewDiagnosticTestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/diagnostic-tests", jsonBody(dto.CreateDiagnosticTestRequest{
		Name: "血常规", Result: "正常", Date: "2026-08-01",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/diagnostic-tests", func(c *gin.Context) {
		setAuth(c)
		h.Create(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestDiagnosticHandler_Review_NotFound(t *testing.T) {
	mock := &mockDiagnosticTestService{transitionErr: service.ErrTestNotFound}
	h := NewDiagnosticTestHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/diagnostic-tests/nonexistent/review", nil)

	r := gin.New()
	r.PUT("/diagnostic-tests/:id/review", func(c *gin.Context) {
		setAuth(c)
		h.Review(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 13001 {
		t.Errorf("expected code 13001, got %d", resp.Code)
	}
}

func TestDiagnosticHandler_ListRecent_InvalidDays(t *testing.T) {
	h := NewDiagnosticTestHandler(&mockDiagnosticTestService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/diagnostic-tests/recent?days=999", nil)

	r := gin.New()
	r.GET("/diagnostic-tests/recent", func(c *gin.Context) {
		setAuth(c)
		h.ListRecent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDiagnosticHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrTestNotFound, 404, 13001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockDiagnosticTestService{getErr: tt.err}
			h := NewDiagnosticTestHandler(mock)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/diagnostic-tests/test-1", nil)

			r := gin.New()
			r.GET("/diagnostic-tests/:id", func(c *gin.Context) {
				setAuth(c)
				h.Get(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// UserHandler Tests
// ═══════════════════════════════════════════════════════════

func TestUserHandler_GetProfile_Success(t *testing.T) {
	mock := &mockUserService{
		profileResult: &dto.UserResponse{ID: "test-user-id", Email: "me@test.com"},
	}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/users/profile", nil)

	r := gin.New()
	r.GET("/users/profile", func(c *gin.Context) {
		setAuth(c)
		h.GetProfile(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestUserHandler_ChangePassword_WrongOld(t *testing.T) {
	mock := &mockUserService{changePassErr: service.ErrWrongOldPassword}
	h := NewUserHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/users/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "newpass456",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/users/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11004 {
		t.Errorf("expected code 11004, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Tests_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "检测记录_2026-08-29.xlsx",
	}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/diagnostic-tests", nil)

	r := gin.New()
	r.GET("/export/diagnostic-tests", func(c *gin.Context) {
		setAuth(c)
		h.ExportTests(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected content type: %s", ct)
	}
	if w.Header().Get("Content-Disposition") == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_Calendar_NoTests(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoTests}
	h := NewExportHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/export/calendar", nil)

	r := gin.New()
	r.GET("/export/calendar", func(c *gin.Context) {
		setAuth(c)
		h.ExportCalendar(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
