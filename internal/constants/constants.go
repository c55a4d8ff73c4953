package constants

// 订单状态常量（数值与存储一致）
const (
	OrderStatusPending    = 0
	OrderStatusProcessing = 1
	OrderStatusShipped    = 2
	OrderStatusDelivered  = 3
	OrderStatusCancelled  = 4
)

// 订单状态名称
const (
	OrderStatusNamePending    = "pending"
	OrderStatusNameProcessing = "processing"
	OrderStatusNameShipped    = "shipped"
	OrderStatusNameDelivered  = "delivered"
	OrderStatusNameCancelled  = "cancelled"
)

// 库存流水类型
const (
	StockTypeIn      = "IN"
	StockTypeOut     = "OUT"
	StockTypeReserve = "RESERVE"
	StockTypeRelease = "RELEASE"
)

// 库存流水状态
const (
	StockStatusPurged = 0
	StockStatusActive = 1
)

// 库存流水关联单据类型
const (
	StockRefOrder   = "order"
	StockRefStockIn = "stock_in"
	StockRefManual  = "manual"
)

// 优惠券折扣类型
const (
	CouponTypeFixed    = "fixed"
	CouponTypePercent  = "percent"
	CouponTypeFreeShip = "free_ship"
)

// 优惠券状态
const (
	CouponStatusDisabled = 0
	CouponStatusActive   = 1
)

// 会员等级
const (
	MembershipLevelDong    = "dong"
	MembershipLevelBac     = "bac"
	MembershipLevelVang    = "vang"
	MembershipLevelBachKim = "bachkim"
)

// 支付方式
const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
)

// 取消操作方
const (
	CanceledByAdmin    = "admin"
	CanceledByCustomer = "customer"
	CanceledBySystem   = "system"
)

// 队列与任务
const (
	QueueDefault               = "default"
	QueueCritical              = "critical"
	TaskOrderConfirmationEmail = "order:confirmation_email"
	TaskOrderStatusEmail       = "order:status_email"
	TaskMembershipRecompute    = "membership:recompute"
)

// 默认值
const (
	DefaultOrderNoPrefix         = "BK"
	DefaultCartSessionHeader     = "X-Cart-Token"
	DefaultSelfCancelWindowHours = 12
)
