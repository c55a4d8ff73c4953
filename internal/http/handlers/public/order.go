package public

import (
	"strings"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 订单项请求，product_id 为空时按自由行处理
type OrderItemRequest struct {
	ProductID uint          `json:"product_id"`
	VariantID uint          `json:"variant_id"`
	Name      string        `json:"name" binding:"max=255"`
	Qty       int           `json:"qty" binding:"required,gt=0,max=999"`
	Price     *models.Money `json:"price"`
}

// createOrderResponse 下单响应：订单字段平铺，附带库存与优惠券、邮件结果
type createOrderResponse struct {
	*models.Order
	StockFailures  []service.StockFailure `json:"stock_failures"`
	CouponRecorded bool                   `json:"coupon_recorded"`
	EmailQueued    bool                   `json:"email_queued"`
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required,max=120"`
	CustomerEmail   string             `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone   string             `json:"customer_phone" binding:"max=32"`
	ShippingAddress string             `json:"shipping_address" binding:"max=500"`
	Note            string             `json:"note" binding:"max=1000"`
	PaymentMethod   string             `json:"payment_method" binding:"omitempty,oneof=cod bank_transfer"`
	CouponID        uint               `json:"coupon_id"`
	CouponCode      string             `json:"coupon_code" binding:"max=64"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

var createOrderErrorRules = handlershared.ConcatMappedErrors(handlershared.OrderErrorRules, handlershared.CouponCheckoutErrorRules)

// CreateOrder 下单（游客或已登录顾客）
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	customerID := handlershared.OptionalCustomerID(c)
	if customerID == 0 && strings.TrimSpace(req.CustomerPhone) == "" && strings.TrimSpace(req.CustomerEmail) == "" {
		handlershared.ValidationFailed(c, "customer_phone", "validation.required")
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		line := service.CreateOrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      strings.TrimSpace(item.Name),
			Qty:       item.Qty,
		}
		if item.Price != nil {
			line.Price = *item.Price
		}
		items = append(items, line)
	}

	result, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		CustomerID:      customerID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Note:            strings.TrimSpace(req.Note),
		PaymentMethod:   req.PaymentMethod,
		CouponID:        req.CouponID,
		CouponCode:      req.CouponCode,
		Locale:          i18n.ResolveLocale(c),
		Items:           items,
	})
	if err != nil {
		respondMappedError(c, err, createOrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if len(result.StockFailures) > 0 {
		requestLog(c).Warnw("order_created_with_stock_failures",
			"order_id", result.Order.ID,
			"order_no", result.Order.OrderNo,
			"failures", len(result.StockFailures),
		)
	}
	failures := result.StockFailures
	if failures == nil {
		failures = []service.StockFailure{}
	}
	response.Created(c, createOrderResponse{
		Order:          result.Order,
		StockFailures:  failures,
		CouponRecorded: result.CouponRecorded,
		EmailQueued:    result.EmailQueued,
	})
}

// ListMyOrders 顾客订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: customerID,
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := service.ParseOrderStatus(raw)
		if err != nil {
			respondError(c, response.CodeUnprocessableEntity, "error.order_status_invalid", nil)
			return
		}
		filter.Status = &status
	}
	orders, total, err := h.OrderService.ListMyOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetMyOrder 顾客订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetMyOrder(customerID, orderID)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// CancelMyOrder 顾客自助取消
func (h *Handler) CancelMyOrder(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CancelOrderRequest
	if c.Request.ContentLength > 0 && !handlershared.BindJSON(c, &req) {
		return
	}
	order, err := h.OrderService.CancelMyOrder(c.Request.Context(), customerID, orderID, strings.TrimSpace(req.Reason))
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}
