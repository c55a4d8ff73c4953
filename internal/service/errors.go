package service

import "errors"

// 通用
var (
	ErrNotFound         = errors.New("数据不存在")
	ErrInvalidInput     = errors.New("参数无效")
	ErrCustomerNotFound = errors.New("顾客不存在")
)

// 订单
var (
	ErrOrderNotFound            = errors.New("订单不存在")
	ErrOrderStatusInvalid       = errors.New("订单状态无效")
	ErrOrderItemsEmpty          = errors.New("订单没有商品")
	ErrInvalidOrderItem         = errors.New("订单项无效")
	ErrOrderCancelNotAllowed    = errors.New("当前状态的订单不可取消")
	ErrOrderCancelWindowExpired = errors.New("已超过自助取消时限")
	ErrOrderAlreadyCancelled    = errors.New("订单已取消")
	ErrOrderNotTrashed          = errors.New("订单不在回收站中")
	ErrProductNotFound          = errors.New("商品不存在")
	ErrProductUnavailable       = errors.New("商品已下架")
	ErrVariantNotFound          = errors.New("商品规格不存在")
)

// 库存
var (
	ErrStockInsufficient = errors.New("库存不足")
	ErrStockQtyInvalid   = errors.New("库存数量无效")
)

// 优惠券
var (
	ErrCouponNotFound               = errors.New("优惠券不存在")
	ErrCouponInactive               = errors.New("优惠券不可用")
	ErrCouponNotAllowed             = errors.New("当前顾客不可使用该优惠券")
	ErrCouponUsageLimit             = errors.New("优惠券已达使用上限")
	ErrCouponPerCustomerLimit       = errors.New("已达每人使用上限")
	ErrCouponIdentityRequired       = errors.New("缺少顾客身份信息")
	ErrCouponMinAmount              = errors.New("未达到优惠券使用门槛")
	ErrCouponCodeExists             = errors.New("优惠码已存在")
	ErrCouponTypeInvalid            = errors.New("优惠类型无效")
	ErrCouponValueInvalid           = errors.New("优惠数值无效")
	ErrCouponTimeRestrictionInvalid = errors.New("可用时段格式无效")
)

// 购物车
var (
	ErrCartTokenMissing = errors.New("缺少购物车会话")
	ErrCartEmpty        = errors.New("购物车为空")
)

// 邮件
var (
	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrInvalidEmail              = errors.New("邮箱格式无效")
	ErrEmailRecipientRejected    = errors.New("收件人被拒绝")
)
