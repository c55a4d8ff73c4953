package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bakery-next/internal/cache"
	"github.com/bakery-next/internal/config"
	adminhandlers "github.com/bakery-next/internal/http/handlers/admin"
	publichandlers "github.com/bakery-next/internal/http/handlers/public"
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidatorTagNames()
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bk"
	}
	redisClient := cache.Client()
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon_validate", redisPrefix),
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}
	orderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_create", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(MetricsMiddleware(c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	customerAuth := CustomerAuthMiddleware(cfg.JWT)
	optionalAuth := OptionalCustomerAuthMiddleware(cfg.JWT)
	adminAuth := AdminAuthMiddleware(cfg.JWT)
	cartSession := CartSessionMiddleware(cfg.Cart.SessionHeader)

	apiV1 := r.Group("/api/v1")
	{
		// 商品目录
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// 下单：携带购物车会话以便下单后清空
		apiV1.POST("/orders", optionalAuth, cartSession, RateLimitMiddleware(redisClient, orderRule, KeyByCustomerOrIP), publicHandler.CreateOrder)

		// 顾客订单
		my := apiV1.Group("/orders/my", customerAuth)
		{
			my.GET("", publicHandler.ListMyOrders)
			my.GET("/:id", publicHandler.GetMyOrder)
			my.POST("/:id/cancel", publicHandler.CancelMyOrder)
		}

		// 兼容旧后台调用路径
		legacy := apiV1.Group("/orders", adminAuth)
		{
			legacy.PUT("/:id", adminHandler.AdminUpdateOrder)
			legacy.POST("/:id/cancel", adminHandler.AdminCancelOrder)
		}

		apiV1.POST("/coupons/validate", optionalAuth, RateLimitMiddleware(redisClient, couponRule, KeyByIPAndJSONField("code")), publicHandler.ValidateCoupon)

		// 购物车
		cart := apiV1.Group("/cart", optionalAuth, cartSession)
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.UpsertCartItem)
			cart.DELETE("/items/:product_id", publicHandler.RemoveCartItem)
			cart.POST("/apply-coupon", publicHandler.ApplyCartCoupon)
			cart.POST("/remove-coupon", publicHandler.RemoveCartCoupon)
		}

		apiV1.GET("/membership/me", customerAuth, publicHandler.GetMyMembership)

		// 管理端
		admin := apiV1.Group("/admin", adminAuth)
		{
			admin.GET("/orders", adminHandler.AdminListOrders)
			admin.GET("/orders/:id", adminHandler.AdminGetOrder)
			admin.PUT("/orders/:id", adminHandler.AdminUpdateOrder)
			admin.POST("/orders/:id/cancel", adminHandler.AdminCancelOrder)
			admin.DELETE("/orders/:id", adminHandler.AdminTrashOrder)
			admin.POST("/orders/:id/restore", adminHandler.AdminRestoreOrder)
			admin.DELETE("/orders/:id/purge", adminHandler.AdminPurgeOrder)

			admin.GET("/coupons", adminHandler.ListCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.GET("/coupons/:id", adminHandler.GetCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			admin.POST("/products/:id/stock-in", adminHandler.StockIn)
			admin.POST("/products/:id/stock-out", adminHandler.StockOut)
			admin.GET("/products/:id/stock-movements", adminHandler.ListStockMovements)

			admin.POST("/customers/:id/membership/recompute", adminHandler.RecomputeCustomerMembership)
		}
	}

	// 指标
	if cfg.Metrics.Enabled && c.MetricsRegistry != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(c.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	// 健康检查
	r.GET("/healthz", healthz)

	return r
}

func healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
	code := http.StatusOK
	if models.DB == nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["status"] = "degraded"
		status["database"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if cache.Enabled() {
		status["redis"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			status["redis"] = "unavailable"
		}
	}
	c.JSON(code, status)
}
