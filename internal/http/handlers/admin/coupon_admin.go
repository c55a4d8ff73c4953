package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 优惠券创建/更新请求
type CouponRequest struct {
	Code                  string       `json:"code" binding:"required,max=64"`
	Name                  string       `json:"name" binding:"max=255"`
	DiscountType          string       `json:"discount_type" binding:"required,oneof=fixed percent free_ship"`
	DiscountValue         models.Money `json:"discount_value"`
	MaxDiscount           models.Money `json:"max_discount"`
	MinOrderAmount        models.Money `json:"min_order_amount"`
	StartDate             string       `json:"start_date"`
	EndDate               string       `json:"end_date"`
	TimeRestriction       string       `json:"time_restriction" binding:"max=32"`
	TotalUsageLimit       int          `json:"total_usage_limit" binding:"gte=0"`
	UsagePerCustomer      int          `json:"usage_per_customer" binding:"gte=0"`
	AllowedCustomerEmails []string     `json:"allowed_customer_emails" binding:"dive,email"`
	Status                *int         `json:"status" binding:"omitempty,oneof=0 1"`
}

func (h *Handler) couponInput(c *gin.Context, req CouponRequest) (service.CouponInput, bool) {
	loc := h.Config.Server.Location()
	startDate, err := parseTimeNullable(req.StartDate, loc, false)
	if err != nil {
		handlershared.ValidationFailed(c, "start_date", "validation.invalid")
		return service.CouponInput{}, false
	}
	endDate, err := parseTimeNullable(req.EndDate, loc, true)
	if err != nil {
		handlershared.ValidationFailed(c, "end_date", "validation.invalid")
		return service.CouponInput{}, false
	}
	return service.CouponInput{
		Code:                  req.Code,
		Name:                  strings.TrimSpace(req.Name),
		DiscountType:          req.DiscountType,
		DiscountValue:         req.DiscountValue,
		MaxDiscount:           req.MaxDiscount,
		MinOrderAmount:        req.MinOrderAmount,
		StartDate:             startDate,
		EndDate:               endDate,
		TimeRestriction:       req.TimeRestriction,
		TotalUsageLimit:       req.TotalUsageLimit,
		UsagePerCustomer:      req.UsagePerCustomer,
		AllowedCustomerEmails: req.AllowedCustomerEmails,
		Status:                req.Status,
	}, true
}

// ListCoupons 优惠券列表
func (h *Handler) ListCoupons(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		filter.Status = &status
	}
	coupons, total, err := h.CouponAdminService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// GetCoupon 优惠券详情
func (h *Handler) GetCoupon(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Get(id)
	if err != nil {
		respondMappedError(c, err, handlershared.CouponAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input, ok := h.couponInput(c, req)
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Create(input)
	if err != nil {
		respondMappedError(c, err, handlershared.CouponAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	requestLog(c).Infow("admin_coupon_created", "coupon_id", coupon.ID, "code", coupon.Code)
	response.Created(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	input, ok := h.couponInput(c, req)
	if !ok {
		return
	}
	coupon, err := h.CouponAdminService.Update(id, input)
	if err != nil {
		respondMappedError(c, err, handlershared.CouponAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponAdminService.Delete(id); err != nil {
		respondMappedError(c, err, handlershared.CouponAdminErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
