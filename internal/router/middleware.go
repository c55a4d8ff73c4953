package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/metrics"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			constants.DefaultCartSessionHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// MetricsMiddleware 记录 HTTP 请求指标，路由模板作为 label 避免高基数
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// bearerToken 读取 Authorization 头中的 Bearer 令牌
// present 表示是否携带了 Authorization 头。
func bearerToken(c *gin.Context) (token string, present bool, ok bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false, false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", true, false
	}
	token = strings.TrimSpace(parts[1])
	return token, true, token != ""
}

func abortUnauthorized(c *gin.Context, key string) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	response.Unauthorized(c, msg)
	c.Abort()
}

func setCustomerContext(c *gin.Context, claims *service.CustomerClaims) {
	c.Set(handlershared.ContextKeyCustomerID, claims.CustomerID)
	if email := strings.TrimSpace(claims.Email); email != "" {
		c.Set(handlershared.ContextKeyCustomerEmail, strings.ToLower(email))
	}
	if phone := strings.TrimSpace(claims.Phone); phone != "" {
		c.Set(handlershared.ContextKeyCustomerPhone, phone)
	}
}

// CustomerAuthMiddleware 顾客 JWT 鉴权中间件
func CustomerAuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, ok := bearerToken(c)
		if !present {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !ok {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		claims, err := service.ParseCustomerToken(cfg.CustomerSecret, cfg.Issuer, tokenString)
		if err != nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		setCustomerContext(c, claims)
		c.Next()
	}
}

// OptionalCustomerAuthMiddleware 可选顾客鉴权：未携带令牌按游客处理，携带了无效令牌则拒绝
func OptionalCustomerAuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, ok := bearerToken(c)
		if !present {
			c.Next()
			return
		}
		if !ok {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		claims, err := service.ParseCustomerToken(cfg.CustomerSecret, cfg.Issuer, tokenString)
		if err != nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		setCustomerContext(c, claims)
		c.Next()
	}
}

// AdminAuthMiddleware 管理员 JWT 鉴权中间件
func AdminAuthMiddleware(cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present, ok := bearerToken(c)
		if !present {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !ok {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		claims, err := service.ParseAdminToken(cfg.AdminSecret, cfg.Issuer, tokenString)
		if err != nil {
			if _, customerErr := service.ParseCustomerToken(cfg.AdminSecret, cfg.Issuer, tokenString); customerErr == nil {
				msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
				response.Forbidden(c, msg)
				c.Abort()
				return
			}
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		c.Set(handlershared.ContextKeyAdminID, claims.AdminID)
		c.Next()
	}
}

// CartSessionMiddleware 购物车会话中间件
// 请求未携带会话头时签发新的令牌，并通过响应头回传给客户端。
func CartSessionMiddleware(header string) gin.HandlerFunc {
	header = strings.TrimSpace(header)
	if header == "" {
		header = constants.DefaultCartSessionHeader
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(header))
		if token == "" || len(token) > 128 {
			token = uuid.NewString()
		}
		c.Writer.Header().Set(header, token)
		c.Request = c.Request.WithContext(service.WithCartToken(c.Request.Context(), token))
		c.Next()
	}
}
