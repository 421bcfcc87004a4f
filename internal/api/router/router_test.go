package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tdjunwei/lostark-raid-schedule/config"
	"github.com/tdjunwei/lostark-raid-schedule/internal/api/handler"
	"github.com/tdjunwei/lostark-raid-schedule/internal/model"
	"github.com/tdjunwei/lostark-raid-schedule/internal/service"
	"github.com/tdjunwei/lostark-raid-schedule/pkg/jwt"
)

func setupTestRouter(t *testing.T) (http.Handler, *jwt.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}}},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", Issuer: "test", AccessTokenTTL: time.Hour},
		Import: config.ImportConfig{MaxUploadSize: 1 << 20, RateLimit: 5, RateWindow: time.Minute},
	}
	mgr := jwt.NewManager(&cfg.Auth)
	// 服务为空：用例只走到鉴权或参数校验为止
	h := handler.NewHandler(&service.Service{}, map[string]handler.Pinger{})
	return Setup(cfg, h, mgr, nil, zap.NewNop()), mgr
}

func request(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetup_Health(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := request(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("响应应带 X-Request-ID")
	}
}

func TestSetup_RequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, path := range []string{"/api/v1/raids", "/api/v1/availability/me", "/api/v1/jobs"} {
		if w := request(r, http.MethodGet, path, "", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s 未认证应返回 401，实际 %d", path, w.Code)
		}
	}
}

func TestSetup_RoleGuards(t *testing.T) {
	r, mgr := setupTestRouter(t)
	player, _ := mgr.GenerateAccessToken("user-1", string(model.RolePlayer), "")
	scheduler, _ := mgr.GenerateAccessToken("user-2", string(model.RoleScheduler), "")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"玩家不能导出全员表", http.MethodGet, "/api/v1/availability/roster.xlsx", player, http.StatusForbidden},
		{"玩家不能变更关卡", http.MethodPatch, "/api/v1/raids/raid-1/timeline/gate-1", player, http.StatusForbidden},
		{"排程员不能删除关卡", http.MethodDelete, "/api/v1/raids/raid-1/timeline/gate-1", scheduler, http.StatusForbidden},
		{"排程员不能导入", http.MethodPost, "/api/v1/admin/excel-import", scheduler, http.StatusForbidden},
		{"排程员可变更关卡", http.MethodPatch, "/api/v1/raids/raid-1/timeline/gate-1", scheduler, http.StatusBadRequest},
		{"静态路径优先于 :id", http.MethodPut, "/api/v1/availability/week", player, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 非法请求体：通过鉴权后在参数校验处返回 400
			if w := request(r, tt.method, tt.path, tt.token, "{"); w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestSetup_BodyLimit(t *testing.T) {
	r, mgr := setupTestRouter(t)
	player, _ := mgr.GenerateAccessToken("user-1", string(model.RolePlayer), "")

	w := request(r, http.MethodPost, "/api/v1/availability/parse", player, strings.Repeat("x", defaultBodyLimit+1))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}
