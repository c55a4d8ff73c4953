package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bakery-next/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠券使用记录数据访问接口
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByCustomer(couponID, customerID uint) (int64, error)
	CountByEmail(couponID uint, email string) (int64, error)
	CountByPhone(couponID uint, phone string) (int64, error)
	GetByOrderID(orderID uint) (*models.CouponUsage, error)
	MarkReleasedByOrderID(orderID uint, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormCouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建优惠券使用记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) *GormCouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByCustomer 统计会员使用次数（不含已回退记录）
func (r *GormCouponUsageRepository) CountByCustomer(couponID, customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ? AND released_at IS NULL", couponID, customerID).
		Count(&count).Error
	return count, err
}

// CountByEmail 按邮箱统计使用次数（不区分大小写）
func (r *GormCouponUsageRepository) CountByEmail(couponID uint, email string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND LOWER(email) = ? AND released_at IS NULL", couponID, strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count, err
}

// CountByPhone 按电话统计使用次数
func (r *GormCouponUsageRepository) CountByPhone(couponID uint, phone string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND phone = ? AND released_at IS NULL", couponID, strings.TrimSpace(phone)).
		Count(&count).Error
	return count, err
}

// GetByOrderID 获取订单尚未回退的使用记录
func (r *GormCouponUsageRepository) GetByOrderID(orderID uint) (*models.CouponUsage, error) {
	var usage models.CouponUsage
	if err := r.db.Where("order_id = ? AND released_at IS NULL", orderID).First(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &usage, nil
}

// MarkReleasedByOrderID 标记订单的使用记录为已回退，记录本身保留
func (r *GormCouponUsageRepository) MarkReleasedByOrderID(orderID uint, at time.Time) (int64, error) {
	res := r.db.Model(&models.CouponUsage{}).
		Where("order_id = ? AND released_at IS NULL", orderID).
		Update("released_at", at)
	return res.RowsAffected, res.Error
}
