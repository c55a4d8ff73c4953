package models

import (
	"time"

	"github.com/bakery-next/internal/constants"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                             // 主键
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                             // 订单编号
	CustomerID      *uint          `gorm:"index" json:"customer_id,omitempty"`                               // 会员ID（游客为空）
	CustomerName    string         `gorm:"type:varchar(120);not null" json:"customer_name"`                  // 收货人
	CustomerEmail   string         `gorm:"type:varchar(255);index" json:"customer_email"`                    // 联系邮箱
	CustomerPhone   string         `gorm:"type:varchar(32);index" json:"customer_phone"`                     // 联系电话
	ShippingAddress string         `gorm:"type:varchar(500)" json:"shipping_address"`                        // 收货地址
	Note            string         `gorm:"type:varchar(1000)" json:"note"`                                   // 订单备注
	PaymentMethod   string         `gorm:"type:varchar(32);not null" json:"payment_method"`                  // 支付方式
	Status          int            `gorm:"index;not null;default:0" json:"status"`                           // 订单状态（0-4）
	StatusText      string         `gorm:"-" json:"status_text"`                                             // 状态名称（不落库）
	Subtotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`           // 商品小计
	DiscountAmount  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`    // 优惠金额
	ShippingFee     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_fee"`       // 运费
	Total           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total"`              // 应付金额
	CouponID        *uint          `gorm:"index" json:"coupon_id,omitempty"`                                 // 优惠券ID
	CouponCode      string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                    // 优惠码
	FreeShip        bool           `gorm:"not null;default:false" json:"free_ship"`                          // 是否免运费
	StockReserved   bool           `gorm:"not null;default:false" json:"stock_reserved"`                     // 库存是否全部预占成功
	CancelReason    string         `gorm:"type:varchar(500)" json:"cancel_reason,omitempty"`                 // 取消原因
	CanceledBy      string         `gorm:"type:varchar(32)" json:"canceled_by,omitempty"`                    // 取消操作方
	CanceledAt      *time.Time     `gorm:"index" json:"canceled_at"`                                         // 取消时间
	DeliveredAt     *time.Time     `gorm:"index" json:"delivered_at"`                                        // 送达时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                          // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`                                // 软删除时间（回收站）

	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"details"` // 订单明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// AfterFind 填充状态名称
func (o *Order) AfterFind(_ *gorm.DB) error {
	o.StatusText = OrderStatusText(o.Status)
	return nil
}

var orderStatusTexts = map[int]string{
	constants.OrderStatusPending:    constants.OrderStatusNamePending,
	constants.OrderStatusProcessing: constants.OrderStatusNameProcessing,
	constants.OrderStatusShipped:    constants.OrderStatusNameShipped,
	constants.OrderStatusDelivered:  constants.OrderStatusNameDelivered,
	constants.OrderStatusCancelled:  constants.OrderStatusNameCancelled,
}

// OrderStatusText 返回订单状态名称
func OrderStatusText(status int) string {
	if text, ok := orderStatusTexts[status]; ok {
		return text
	}
	return "unknown"
}
