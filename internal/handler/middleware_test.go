package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JosephChoi/investment-report-sub001/internal/auth"
	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret, email, role string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: 7,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newGatedRouter(roles ...string) *gin.Engine {
	r := gin.New()
	authCfg := &config.AuthConfig{JWTSecret: testSecret}
	group := r.Group("/gated")
	group.Use(AuthMiddleware(authCfg), RequireRole(roles...))
	group.GET("/ping", func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		c.String(http.StatusOK, principal.Email)
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin)

	w := doGet(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin)

	w := doGet(r, "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin)

	w := doGet(r, signToken(t, "other-secret", "ops@firm.com", model.RoleAdmin))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole_AdmitsAllowedRole(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin)

	w := doGet(r, signToken(t, testSecret, "ops@firm.com", model.RoleAdmin))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "ops@firm.com" {
		t.Fatalf("principal email = %q, want ops@firm.com", got)
	}
}

func TestRequireRole_RejectsOtherRole(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin)

	w := doGet(r, signToken(t, testSecret, "kim@example.com", model.RoleCustomer))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "insufficient role") {
		t.Fatalf("body = %s, want role rejection", w.Body.String())
	}
}

func TestRequireRole_MultipleRoles(t *testing.T) {
	r := newGatedRouter(model.RoleAdmin, model.RoleCustomer)

	w := doGet(r, signToken(t, testSecret, "kim@example.com", model.RoleCustomer))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil)
	r := gin.New()
	r.POST("/upload", h.UploadPortfolio)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "file is required") {
		t.Fatalf("body = %s, want missing file error", w.Body.String())
	}
}
