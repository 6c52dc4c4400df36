package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"vitaltrack/backend/config"
	"vitaltrack/backend/internal/model"
	"vitaltrack/backend/pkg/jwt"
	"vitaltrack/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authUserRepo 仅实现认证中间件用到的查询
type authUserRepo struct {
	users map[string]*model.User
}

func (r *authUserRepo) Create(_ context.Context, _ *model.User) error { return nil }
func (r *authUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *authUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *authUserRepo) Update(_ context.Context, _ *model.User) error              { return nil }
func (r *authUserRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error { return nil }
func (r *authUserRepo) Delete(_ context.Context, _ string) error                   { return nil }
func (r *authUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	return nil, 0, nil
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
}

func setupAuthRouter(repo *authUserRepo, mgr *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuth(mgr, nil, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	r.GET("/admin", JWTAuth(mgr, nil, repo), AdminAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", OptionalAuth(mgr, nil, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func parseEnvelope(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func TestJWTAuth_Success(t *testing.T) {
	mgr := newTestJWTManager()
	repo := &authUserRepo{users: map[string]*model.User{
		"user-1": {UserID: "user-1", IsActive: true},
	}}
	token, _ := mgr.GenerateAccessToken("user-1", false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	setupAuthRouter(repo, mgr).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := newTestJWTManager()
	active := &model.User{UserID: "user-1", IsActive: true}
	inactive := &model.User{UserID: "user-2", IsActive: false}
	repo := &authUserRepo{users: map[string]*model.User{
		"user-1": active,
		"user-2": inactive,
	}}

	inactiveToken, _ := mgr.GenerateAccessToken("user-2", false)
	ghostToken, _ := mgr.GenerateAccessToken("user-gone", false)
	refreshToken, _ := mgr.GenerateRefreshToken("user-1", false)

	expiredMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL: -time.Minute,
	})
	expiredToken, _ := expiredMgr.GenerateAccessToken("user-1", false)

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{"MissingHeader", "", "缺少认证头"},
		{"MalformedHeader", "NotBearer xyz", "认证头格式无效"},
		{"GarbageToken", "Bearer not.a.jwt", "Token 无效"},
		{"ExpiredToken", "Bearer " + expiredToken, "Token 已过期"},
		{"RefreshTokenRejected", "Bearer " + refreshToken, "Token 类型无效"},
		{"UnknownUser", "Bearer " + ghostToken, "Token 无效"},
		{"InactiveUser", "Bearer " + inactiveToken, "账号已停用"},
	}

	r := setupAuthRouter(repo, mgr)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			// 所有拒绝形态一致：401 + 统一 code，仅 message 不同
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			resp := parseEnvelope(w)
			if resp.Code != 10002 {
				t.Errorf("expected code 10002, got %d", resp.Code)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestOptionalAuth_AnonymousPassThrough(t *testing.T) {
	mgr := newTestJWTManager()
	repo := &authUserRepo{users: map[string]*model.User{
		"user-2": {UserID: "user-2", IsActive: false},
	}}
	inactiveToken, _ := mgr.GenerateAccessToken("user-2", false)

	r := setupAuthRouter(repo, mgr)

	// 无 Token、非法 Token、停用账号的 Token 均匿名放行
	for _, header := range []string{"", "Bearer garbage", "Bearer " + inactiveToken} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/open", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("header %q: expected 200, got %d", header, w.Code)
		}
		var body map[string]string
		json.Unmarshal(w.Body.Bytes(), &body)
		if body["user_id"] != "" {
			t.Errorf("header %q: expected anonymous, got user_id=%s", header, body["user_id"])
		}
	}
}

func TestOptionalAuth_InjectsValidIdentity(t *testing.T) {
	mgr := newTestJWTManager()
	repo := &authUserRepo{users: map[string]*model.User{
		"user-1": {UserID: "user-1", IsActive: true},
	}}
	token, _ := mgr.GenerateAccessToken("user-1", false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	setupAuthRouter(repo, mgr).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["user_id"] != "user-1" {
		t.Errorf("expected user_id=user-1, got %s", body["user_id"])
	}
}

func TestAdminAuth_Forbidden(t *testing.T) {
	mgr := newTestJWTManager()
	repo := &authUserRepo{users: map[string]*model.User{
		"user-1": {UserID: "user-1", IsActive: true, IsAdmin: false},
		"admin-1": {UserID: "admin-1", IsActive: true, IsAdmin: true},
	}}
	userToken, _ := mgr.GenerateAccessToken("user-1", false)
	adminToken, _ := mgr.GenerateAccessToken("admin-1", true)

	r := setupAuthRouter(repo, mgr)

	// 普通用户：已认证但无权限，403 与 401 区分
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseEnvelope(w); resp.Code != 10003 {
		t.Errorf("expected code 10003, got %d", resp.Code)
	}

	// 管理员放行
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
