package public

import (
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加购请求，qty 为 0 表示移除
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id"`
	Qty       int  `json:"qty" binding:"gte=0,max=999"`
}

// ApplyCartCouponRequest 购物车使用优惠券
type ApplyCartCouponRequest struct {
	Code  string `json:"code" binding:"required,max=64"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"max=32"`
}

// GetCart 获取当前会话的购物车
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.CartService.GetCart(c.Request.Context(), couponIdentity(c, "", ""), i18n.ResolveLocale(c))
	if err != nil {
		respondMappedError(c, err, handlershared.CartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// UpsertCartItem 添加/更新购物车项
func (h *Handler) UpsertCartItem(c *gin.Context) {
	var req CartItemRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	view, err := h.CartService.UpsertItem(c.Request.Context(), service.CartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Qty:       req.Qty,
		Locale:    i18n.ResolveLocale(c),
	}, couponIdentity(c, "", ""))
	if err != nil {
		respondMappedError(c, err, handlershared.CartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		return
	}
	view, err := h.CartService.RemoveItem(c.Request.Context(), productID, couponIdentity(c, "", ""), i18n.ResolveLocale(c))
	if err != nil {
		respondMappedError(c, err, handlershared.CartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// ApplyCartCoupon 购物车使用优惠券，不可用时返回 valid=false 与原因
func (h *Handler) ApplyCartCoupon(c *gin.Context) {
	var req ApplyCartCouponRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	view, validation, err := h.CartService.ApplyCoupon(c.Request.Context(), req.Code, couponIdentity(c, req.Email, req.Phone), i18n.ResolveLocale(c))
	if err != nil {
		respondMappedError(c, err, handlershared.CartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	payload := couponValidationPayload(validation)
	payload["cart"] = view
	response.Success(c, payload)
}

// RemoveCartCoupon 购物车移除优惠券
func (h *Handler) RemoveCartCoupon(c *gin.Context) {
	view, err := h.CartService.RemoveCoupon(c.Request.Context(), couponIdentity(c, "", ""), i18n.ResolveLocale(c))
	if err != nil {
		respondMappedError(c, err, handlershared.CartErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}
