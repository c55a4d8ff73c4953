package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bakery-next/internal/config"
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

var testJWTConfig = config.JWTConfig{
	CustomerSecret: "customer-secret",
	AdminSecret:    "admin-secret",
	Issuer:         "bakery-test",
}

func newAuthTestRouter(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"customer_id": handlershared.OptionalCustomerID(c),
			"email":       handlershared.ContextString(c, handlershared.ContextKeyCustomerEmail),
			"admin_id":    c.GetUint(handlershared.ContextKeyAdminID),
		})
	})
	return r
}

func doWhoami(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCustomerAuthMiddleware(t *testing.T) {
	r := newAuthTestRouter(CustomerAuthMiddleware(testJWTConfig))

	if w := doWhoami(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header want 401 got %d", w.Code)
	}
	if w := doWhoami(r, "Token abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header want 401 got %d", w.Code)
	}

	token, err := service.SignCustomerToken(testJWTConfig.CustomerSecret, testJWTConfig.Issuer, 7, "lan@example.com", time.Hour)
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	w := doWhoami(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		CustomerID uint   `json:"customer_id"`
		Email      string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.CustomerID != 7 || resp.Email != "lan@example.com" {
		t.Fatalf("unexpected identity: %+v", resp)
	}

	adminToken, _ := service.SignAdminToken(testJWTConfig.AdminSecret, testJWTConfig.Issuer, 1, time.Hour)
	if w := doWhoami(r, "Bearer "+adminToken); w.Code != http.StatusUnauthorized {
		t.Fatalf("token signed with another secret want 401 got %d", w.Code)
	}
}

func TestOptionalCustomerAuthMiddleware(t *testing.T) {
	r := newAuthTestRouter(OptionalCustomerAuthMiddleware(testJWTConfig))

	w := doWhoami(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("guest request want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"customer_id":0`) {
		t.Fatalf("guest should have no customer id, got %s", w.Body.String())
	}
	if w := doWhoami(r, "Bearer broken"); w.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token want 401 got %d", w.Code)
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	r := newAuthTestRouter(AdminAuthMiddleware(testJWTConfig))

	if w := doWhoami(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header want 401 got %d", w.Code)
	}

	token, _ := service.SignAdminToken(testJWTConfig.AdminSecret, testJWTConfig.Issuer, 3, time.Hour)
	w := doWhoami(r, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("admin token want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"admin_id":3`) {
		t.Fatalf("admin id not propagated: %s", w.Body.String())
	}

	wrongRole, _ := service.SignCustomerToken(testJWTConfig.AdminSecret, testJWTConfig.Issuer, 3, "", time.Hour)
	if w := doWhoami(r, "Bearer "+wrongRole); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin role want 403 got %d", w.Code)
	}
}

func TestCartSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CartSessionMiddleware("X-Cart-Token"))
	r.GET("/cart", func(c *gin.Context) {
		c.String(http.StatusOK, service.CartTokenFromContext(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Cart-Token", " cart-abc ")
	r.ServeHTTP(w, req)
	if w.Body.String() != "cart-abc" || w.Header().Get("X-Cart-Token") != "cart-abc" {
		t.Fatalf("existing token should be reused, body=%s header=%s", w.Body.String(), w.Header().Get("X-Cart-Token"))
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/cart", nil))
	issued := w2.Header().Get("X-Cart-Token")
	if issued == "" || issued != w2.Body.String() {
		t.Fatalf("new token should be issued and echoed, body=%s header=%s", w2.Body.String(), issued)
	}
}
