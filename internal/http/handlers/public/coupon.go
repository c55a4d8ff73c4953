package public

import (
	handlershared "github.com/bakery-next/internal/http/handlers/shared"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponCartItemRequest 校验优惠券时提交的购物车行
type CouponCartItemRequest struct {
	ProductID uint         `json:"product_id"`
	Qty       int          `json:"qty" binding:"gte=0"`
	Price     models.Money `json:"price"`
}

// ValidateCouponRequest 优惠券校验请求
type ValidateCouponRequest struct {
	CouponID  uint                    `json:"coupon_id"`
	Code      string                  `json:"code" binding:"required_without=CouponID,max=64"`
	Subtotal  models.Money            `json:"subtotal"`
	CartItems []CouponCartItemRequest `json:"cart_items" binding:"dive"`
	Email     string                  `json:"email" binding:"omitempty,email"`
	Phone     string                  `json:"phone" binding:"max=32"`
}

// ValidateCoupon 校验优惠券；业务拒绝同样返回 200，由 valid 字段表达
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if !handlershared.BindJSON(c, &req) {
		return
	}
	items := make([]service.CouponCartItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		items = append(items, service.CouponCartItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}
	validation, err := h.CouponService.Validate(service.CouponValidateInput{
		CouponID: req.CouponID,
		Code:     req.Code,
		Subtotal: req.Subtotal,
		Items:    items,
		Identity: couponIdentity(c, req.Email, req.Phone),
		Locale:   i18n.ResolveLocale(c),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, couponValidationPayload(validation))
}

func couponValidationPayload(validation *service.CouponValidation) gin.H {
	return gin.H{
		"valid": validation.Valid,
		"coupon": gin.H{
			"code":            validation.Code,
			"discount_amount": validation.DiscountAmount,
			"message":         validation.Message,
			"free_ship":       validation.FreeShip,
		},
	}
}
