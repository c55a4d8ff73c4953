package i18n

var catalogs = map[string]map[string]string{
	LocaleVI: messagesVI,
	LocaleEN: messagesEN,
	LocaleZH: messagesZH,
}

var messagesVI = map[string]string{
	"error.bad_request":                     "Yêu cầu không hợp lệ",
	"error.unauthorized":                    "Vui lòng đăng nhập",
	"error.token_invalid":                   "Phiên đăng nhập không hợp lệ hoặc đã hết hạn",
	"error.forbidden":                       "Bạn không có quyền thực hiện thao tác này",
	"error.not_found":                       "Không tìm thấy dữ liệu",
	"error.internal":                        "Hệ thống đang bận, vui lòng thử lại sau",
	"error.validation_failed":               "Dữ liệu không hợp lệ",
	"error.rate_limited":                    "Bạn thao tác quá nhanh, vui lòng thử lại sau",
	"error.order_not_found":                 "Không tìm thấy đơn hàng",
	"error.order_status_invalid":            "Trạng thái đơn hàng không hợp lệ",
	"error.order_items_empty":               "Đơn hàng chưa có sản phẩm",
	"error.order_item_invalid":              "Sản phẩm trong đơn hàng không hợp lệ",
	"error.order_cancel_not_allowed":        "Đơn hàng ở trạng thái này không thể hủy",
	"error.order_cancel_window_expired":     "Đã quá thời gian cho phép tự hủy đơn hàng",
	"error.order_already_cancelled":         "Đơn hàng đã bị hủy",
	"error.order_not_trashed":               "Đơn hàng chưa nằm trong thùng rác",
	"error.product_not_found":               "Không tìm thấy sản phẩm",
	"error.product_unavailable":             "Sản phẩm hiện không bán",
	"error.variant_not_found":               "Không tìm thấy quy cách sản phẩm",
	"error.stock_insufficient":              "Sản phẩm không đủ tồn kho",
	"error.stock_qty_invalid":               "Số lượng tồn kho không hợp lệ",
	"error.coupon_not_found":                "Mã giảm giá không tồn tại",
	"error.coupon_inactive":                 "Mã giảm giá đã hết hạn hoặc chưa đến thời gian sử dụng",
	"error.coupon_not_allowed":              "Mã giảm giá không áp dụng cho tài khoản của bạn",
	"error.coupon_usage_limit":              "Mã giảm giá đã hết lượt sử dụng",
	"error.coupon_customer_limit":           "Bạn đã sử dụng hết lượt cho mã giảm giá này",
	"error.coupon_identity_required":        "Vui lòng cung cấp email hoặc số điện thoại để dùng mã này",
	"error.coupon_min_amount":               "Đơn hàng chưa đạt giá trị tối thiểu %s",
	"error.coupon_below_minimum":            "Đơn hàng chưa đạt giá trị tối thiểu để dùng mã giảm giá",
	"error.cart_busy":                       "Giỏ hàng đang được cập nhật, vui lòng thử lại",
	"error.coupon_code_exists":              "Mã giảm giá đã tồn tại",
	"error.coupon_type_invalid":             "Loại giảm giá không hợp lệ",
	"error.coupon_value_invalid":            "Giá trị giảm giá không hợp lệ",
	"error.coupon_time_restriction_invalid": "Khung giờ áp dụng phải có dạng HH:MM-HH:MM",
	"error.customer_not_found":              "Không tìm thấy khách hàng",
	"error.cart_token_missing":              "Thiếu phiên giỏ hàng",
	"error.cart_empty":                      "Giỏ hàng trống",
	"coupon.valid":                          "Áp dụng mã giảm giá thành công",
	"coupon.free_ship":                      "Mã giảm giá miễn phí vận chuyển",
	"coupon.removed":                        "Đã gỡ mã giảm giá",
	"cart.coupon_dropped":                   "Mã giảm giá đã bị gỡ: %s",
	"validation.required":                   "Trường này là bắt buộc",
	"validation.email":                      "Email không hợp lệ",
	"validation.min":                        "Giá trị phải lớn hơn hoặc bằng %s",
	"validation.max":                        "Giá trị phải nhỏ hơn hoặc bằng %s",
	"validation.gt":                         "Giá trị phải lớn hơn %s",
	"validation.gte":                        "Giá trị phải lớn hơn hoặc bằng %s",
	"validation.oneof":                      "Giá trị phải là một trong: %s",
	"validation.invalid":                    "Giá trị không hợp lệ",
	"email.order_confirmation.subject":      "Xác nhận đơn hàng %s",
	"email.order_confirmation.body":         "Xin chào %s,\n\nCảm ơn bạn đã đặt hàng. Mã đơn hàng: %s\nTổng tiền: %s\n",
	"email.order_status.subject":            "Cập nhật đơn hàng %s",
	"email.order_status.body":               "Xin chào %s,\n\nĐơn hàng %s đã chuyển sang trạng thái: %s\n",
	"order.status.pending":                  "Chờ xác nhận",
	"order.status.processing":               "Đang xử lý",
	"order.status.shipped":                  "Đang giao",
	"order.status.delivered":                "Đã giao",
	"order.status.cancelled":                "Đã hủy",
}

var messagesEN = map[string]string{
	"error.bad_request":                     "Bad request",
	"error.unauthorized":                    "Please sign in",
	"error.token_invalid":                   "Invalid or expired token",
	"error.forbidden":                       "You are not allowed to do this",
	"error.not_found":                       "Not found",
	"error.internal":                        "Internal error, please try again later",
	"error.validation_failed":               "Validation failed",
	"error.rate_limited":                    "Too many requests, please try again later",
	"error.order_not_found":                 "Order not found",
	"error.order_status_invalid":            "Invalid order status",
	"error.order_items_empty":               "Order has no items",
	"error.order_item_invalid":              "Invalid order item",
	"error.order_cancel_not_allowed":        "Order cannot be cancelled in its current status",
	"error.order_cancel_window_expired":     "The self-cancel window for this order has passed",
	"error.order_already_cancelled":         "Order is already cancelled",
	"error.order_not_trashed":               "Order is not in the trash",
	"error.product_not_found":               "Product not found",
	"error.product_unavailable":             "Product is not available",
	"error.variant_not_found":               "Product variant not found",
	"error.stock_insufficient":              "Insufficient stock",
	"error.stock_qty_invalid":               "Invalid stock quantity",
	"error.coupon_not_found":                "Coupon not found",
	"error.coupon_inactive":                 "Coupon is expired or not yet active",
	"error.coupon_not_allowed":              "Coupon is not available for your account",
	"error.coupon_usage_limit":              "Coupon usage limit reached",
	"error.coupon_customer_limit":           "You have already used this coupon",
	"error.coupon_identity_required":        "An email or phone number is required to use this coupon",
	"error.coupon_min_amount":               "Order amount must be at least %s",
	"error.coupon_below_minimum":            "Order amount is below the coupon minimum",
	"error.cart_busy":                       "Cart is being updated, please retry",
	"error.coupon_code_exists":              "Coupon code already exists",
	"error.coupon_type_invalid":             "Invalid discount type",
	"error.coupon_value_invalid":            "Invalid discount value",
	"error.coupon_time_restriction_invalid": "Time restriction must look like HH:MM-HH:MM",
	"error.customer_not_found":              "Customer not found",
	"error.cart_token_missing":              "Missing cart session",
	"error.cart_empty":                      "Cart is empty",
	"coupon.valid":                          "Coupon applied",
	"coupon.free_ship":                      "Free shipping coupon",
	"coupon.removed":                        "Coupon removed",
	"cart.coupon_dropped":                   "Coupon removed: %s",
	"validation.required":                   "This field is required",
	"validation.email":                      "Invalid email",
	"validation.min":                        "Must be at least %s",
	"validation.max":                        "Must be at most %s",
	"validation.gt":                         "Must be greater than %s",
	"validation.gte":                        "Must be greater than or equal to %s",
	"validation.oneof":                      "Must be one of: %s",
	"validation.invalid":                    "Invalid value",
	"email.order_confirmation.subject":      "Order %s confirmed",
	"email.order_confirmation.body":         "Hello %s,\n\nThank you for your order. Order number: %s\nTotal: %s\n",
	"email.order_status.subject":            "Order %s updated",
	"email.order_status.body":               "Hello %s,\n\nYour order %s is now: %s\n",
	"order.status.pending":                  "Pending",
	"order.status.processing":               "Processing",
	"order.status.shipped":                  "Shipped",
	"order.status.delivered":                "Delivered",
	"order.status.cancelled":                "Cancelled",
}

var messagesZH = map[string]string{
	"error.bad_request":                     "请求参数错误",
	"error.unauthorized":                    "请先登录",
	"error.token_invalid":                   "登录状态无效或已过期",
	"error.forbidden":                       "无权执行该操作",
	"error.not_found":                       "数据不存在",
	"error.internal":                        "系统繁忙，请稍后再试",
	"error.validation_failed":               "参数校验失败",
	"error.rate_limited":                    "操作过于频繁，请稍后再试",
	"error.order_not_found":                 "订单不存在",
	"error.order_status_invalid":            "订单状态无效",
	"error.order_items_empty":               "订单没有商品",
	"error.order_item_invalid":              "订单商品无效",
	"error.order_cancel_not_allowed":        "当前状态的订单不可取消",
	"error.order_cancel_window_expired":     "已超过自助取消时限",
	"error.order_already_cancelled":         "订单已取消",
	"error.order_not_trashed":               "订单不在回收站中",
	"error.product_not_found":               "商品不存在",
	"error.product_unavailable":             "商品已下架",
	"error.variant_not_found":               "商品规格不存在",
	"error.stock_insufficient":              "库存不足",
	"error.stock_qty_invalid":               "库存数量无效",
	"error.coupon_not_found":                "优惠券不存在",
	"error.coupon_inactive":                 "优惠券已过期或未到使用时间",
	"error.coupon_not_allowed":              "当前账户不可使用该优惠券",
	"error.coupon_usage_limit":              "优惠券已达使用上限",
	"error.coupon_customer_limit":           "您已用完该优惠券的使用次数",
	"error.coupon_identity_required":        "使用该优惠券需要提供邮箱或手机号",
	"error.coupon_min_amount":               "订单金额需满 %s",
	"error.coupon_below_minimum":            "订单金额未达到优惠券使用门槛",
	"error.cart_busy":                       "购物车正在更新，请稍后重试",
	"error.coupon_code_exists":              "优惠码已存在",
	"error.coupon_type_invalid":             "优惠类型无效",
	"error.coupon_value_invalid":            "优惠数值无效",
	"error.coupon_time_restriction_invalid": "可用时段格式应为 HH:MM-HH:MM",
	"error.customer_not_found":              "顾客不存在",
	"error.cart_token_missing":              "缺少购物车会话",
	"error.cart_empty":                      "购物车为空",
	"coupon.valid":                          "优惠券可用",
	"coupon.free_ship":                      "免运费优惠券",
	"coupon.removed":                        "已移除优惠券",
	"cart.coupon_dropped":                   "优惠券已移除：%s",
	"validation.required":                   "该字段为必填项",
	"validation.email":                      "邮箱格式不正确",
	"validation.min":                        "不能小于 %s",
	"validation.max":                        "不能大于 %s",
	"validation.gt":                         "必须大于 %s",
	"validation.gte":                        "必须大于或等于 %s",
	"validation.oneof":                      "必须为以下之一：%s",
	"validation.invalid":                    "取值无效",
	"email.order_confirmation.subject":      "订单 %s 已确认",
	"email.order_confirmation.body":         "%s 您好：\n\n感谢您的订购。订单号：%s\n应付金额：%s\n",
	"email.order_status.subject":            "订单 %s 状态更新",
	"email.order_status.body":               "%s 您好：\n\n您的订单 %s 当前状态：%s\n",
	"order.status.pending":                  "待确认",
	"order.status.processing":               "处理中",
	"order.status.shipped":                  "配送中",
	"order.status.delivered":                "已送达",
	"order.status.cancelled":                "已取消",
}
