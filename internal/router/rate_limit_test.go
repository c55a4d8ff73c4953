package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONFieldRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/coupons/validate", strings.NewReader(`{"code":" Sale10 ","subtotal":"100000"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("code")(c)
	if key != "sale10|1.2.3.4" {
		t.Fatalf("key want sale10|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Sale10") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldIgnoresNonString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/coupons/validate", strings.NewReader(`{"code":42}`))
	c.Request.RemoteAddr = "5.6.7.8:1000"

	if key := KeyByIPAndJSONField("code")(c); key != "5.6.7.8" {
		t.Fatalf("non-string field should fall back to ip, got %s", key)
	}
}

func TestKeyByCustomerOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/orders", nil)
	c.Request.RemoteAddr = "9.9.9.9:80"

	if key := KeyByCustomerOrIP(c); key != "ip:9.9.9.9" {
		t.Fatalf("guest key want ip:9.9.9.9 got %s", key)
	}
	c.Set(handlershared.ContextKeyCustomerID, uint(15))
	if key := KeyByCustomerOrIP(c); key != "customer:15" {
		t.Fatalf("customer key want customer:15 got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status want 200 got %d", i, w.Code)
		}
	}
}

func TestRateLimitRuleEnabled(t *testing.T) {
	if (RateLimitRule{WindowSeconds: 0, MaxRequests: 5}).enabled() {
		t.Fatalf("zero window should disable rule")
	}
	if !(RateLimitRule{WindowSeconds: 60, MaxRequests: 5}).enabled() {
		t.Fatalf("valid rule should be enabled")
	}
}
