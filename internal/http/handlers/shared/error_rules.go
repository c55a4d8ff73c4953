package shared

import (
	"github.com/bakery-next/internal/cache"
	"github.com/bakery-next/internal/http/response"
	"github.com/bakery-next/internal/service"
)

// OrderErrorRules 订单相关错误映射
var OrderErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrCustomerNotFound, Code: response.CodeNotFound, Key: "error.customer_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeUnprocessableEntity, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderItemsEmpty, Code: response.CodeUnprocessableEntity, Key: "error.order_items_empty"},
	{Target: service.ErrInvalidOrderItem, Code: response.CodeUnprocessableEntity, Key: "error.order_item_invalid"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeUnprocessableEntity, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrOrderCancelWindowExpired, Code: response.CodeUnprocessableEntity, Key: "error.order_cancel_window_expired"},
	{Target: service.ErrOrderAlreadyCancelled, Code: response.CodeUnprocessableEntity, Key: "error.order_already_cancelled"},
	{Target: service.ErrOrderNotTrashed, Code: response.CodeUnprocessableEntity, Key: "error.order_not_trashed"},
	{Target: service.ErrProductNotFound, Code: response.CodeUnprocessableEntity, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeUnprocessableEntity, Key: "error.product_unavailable"},
	{Target: service.ErrVariantNotFound, Code: response.CodeUnprocessableEntity, Key: "error.variant_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeUnprocessableEntity, Key: "error.validation_failed"},
}

// CouponCheckoutErrorRules 下单时优惠券不可用的错误映射
var CouponCheckoutErrorRules = []MappedError{
	{Target: service.ErrCouponNotFound, Code: response.CodeUnprocessableEntity, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponInactive, Code: response.CodeUnprocessableEntity, Key: "error.coupon_inactive"},
	{Target: service.ErrCouponNotAllowed, Code: response.CodeUnprocessableEntity, Key: "error.coupon_not_allowed"},
	{Target: service.ErrCouponUsageLimit, Code: response.CodeUnprocessableEntity, Key: "error.coupon_usage_limit"},
	{Target: service.ErrCouponPerCustomerLimit, Code: response.CodeUnprocessableEntity, Key: "error.coupon_customer_limit"},
	{Target: service.ErrCouponIdentityRequired, Code: response.CodeUnprocessableEntity, Key: "error.coupon_identity_required"},
	{Target: service.ErrCouponMinAmount, Code: response.CodeUnprocessableEntity, Key: "error.coupon_below_minimum"},
	{Target: service.ErrCouponTypeInvalid, Code: response.CodeUnprocessableEntity, Key: "error.coupon_type_invalid"},
}

// CouponAdminErrorRules 优惠券管理错误映射
var CouponAdminErrorRules = []MappedError{
	{Target: service.ErrCouponNotFound, Code: response.CodeNotFound, Key: "error.coupon_not_found"},
	{Target: service.ErrCouponCodeExists, Code: response.CodeConflict, Key: "error.coupon_code_exists"},
	{Target: service.ErrCouponTypeInvalid, Code: response.CodeUnprocessableEntity, Key: "error.coupon_type_invalid"},
	{Target: service.ErrCouponValueInvalid, Code: response.CodeUnprocessableEntity, Key: "error.coupon_value_invalid"},
	{Target: service.ErrCouponTimeRestrictionInvalid, Code: response.CodeUnprocessableEntity, Key: "error.coupon_time_restriction_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeUnprocessableEntity, Key: "error.validation_failed"},
}

// StockErrorRules 库存操作错误映射
var StockErrorRules = []MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrStockInsufficient, Code: response.CodeUnprocessableEntity, Key: "error.stock_insufficient"},
	{Target: service.ErrStockQtyInvalid, Code: response.CodeUnprocessableEntity, Key: "error.stock_qty_invalid"},
	{Target: service.ErrInvalidInput, Code: response.CodeUnprocessableEntity, Key: "error.validation_failed"},
}

// CartErrorRules 购物车错误映射
var CartErrorRules = []MappedError{
	{Target: service.ErrCartTokenMissing, Code: response.CodeBadRequest, Key: "error.cart_token_missing"},
	{Target: service.ErrCartEmpty, Code: response.CodeUnprocessableEntity, Key: "error.cart_empty"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeUnprocessableEntity, Key: "error.product_unavailable"},
	{Target: service.ErrVariantNotFound, Code: response.CodeUnprocessableEntity, Key: "error.variant_not_found"},
	{Target: cache.ErrCartLockTimeout, Code: response.CodeConflict, Key: "error.cart_busy"},
}
