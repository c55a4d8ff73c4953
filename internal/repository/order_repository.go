package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	Create(order *models.Order, details []models.OrderDetail) error
	GetByID(id uint, withTrashed bool) (*models.Order, error)
	GetByIDForUpdate(id uint) (*models.Order, error)
	GetByIDAndCustomer(id uint, customerID uint) (*models.Order, error)
	ListByCustomer(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	Update(id uint, updates map[string]interface{}) error
	MarkDetailsReserved(orderID uint, detailIDs []uint) error
	SoftDelete(id uint) error
	Restore(id uint) error
	Purge(id uint) error
	ListDeliveredByCustomer(customerID uint, since *time.Time) ([]models.Order, error)
	ListCustomerIDsWithDelivered() ([]uint, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单与订单明细
func (r *GormOrderRepository) Create(order *models.Order, details []models.OrderDetail) error {
	if err := r.db.Omit("Details").Create(order).Error; err != nil {
		return err
	}
	for i := range details {
		details[i].OrderID = order.ID
	}
	if len(details) > 0 {
		if err := r.db.Create(&details).Error; err != nil {
			return err
		}
	}
	order.Details = details
	return nil
}

// GetByID 根据 ID 获取订单，withTrashed 为 true 时包含回收站中的订单
func (r *GormOrderRepository) GetByID(id uint, withTrashed bool) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	query := r.db
	if withTrashed {
		query = query.Unscoped()
	}
	var order models.Order
	if err := query.Preload("Details").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate 锁定订单行，串行化同一订单的状态流转
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Details").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDAndCustomer 获取会员自己的订单
func (r *GormOrderRepository) GetByIDAndCustomer(id uint, customerID uint) (*models.Order, error) {
	if id == 0 || customerID == 0 {
		return nil, nil
	}
	var order models.Order
	err := r.db.Preload("Details").
		Where("id = ? AND customer_id = ?", id, customerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByCustomer 会员订单列表
func (r *GormOrderRepository) ListByCustomer(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.CustomerID == 0 {
		return []models.Order{}, 0, nil
	}
	query := r.db.Model(&models.Order{}).Where("customer_id = ?", filter.CustomerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return r.paginate(query, filter)
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.OnlyTrashed {
		query = query.Unscoped().Where("deleted_at IS NOT NULL")
	}
	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+orderNo+"%")
	}
	if email := strings.TrimSpace(filter.Email); email != "" {
		query = query.Where("LOWER(customer_email) = ?", strings.ToLower(email))
	}
	if phone := strings.TrimSpace(filter.Phone); phone != "" {
		query = query.Where("customer_phone = ?", phone)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return r.paginate(query, filter)
}

func (r *GormOrderRepository) paginate(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var orders []models.Order
	if err := query.Preload("Details").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Update 更新订单字段
func (r *GormOrderRepository) Update(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// MarkDetailsReserved 标记已预占库存的明细
func (r *GormOrderRepository) MarkDetailsReserved(orderID uint, detailIDs []uint) error {
	if len(detailIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.OrderDetail{}).
		Where("order_id = ? AND id IN ?", orderID, detailIDs).
		Update("reserved", true).Error
}

// SoftDelete 移入回收站
func (r *GormOrderRepository) SoftDelete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

// Restore 从回收站恢复
func (r *GormOrderRepository) Restore(id uint) error {
	return r.db.Unscoped().Model(&models.Order{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// Purge 彻底删除订单与明细
func (r *GormOrderRepository) Purge(id uint) error {
	if err := r.db.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&models.Order{}, id).Error
}

// ListDeliveredByCustomer 获取会员已送达订单（含明细），since 为空时不限时间
func (r *GormOrderRepository) ListDeliveredByCustomer(customerID uint, since *time.Time) ([]models.Order, error) {
	if customerID == 0 {
		return []models.Order{}, nil
	}
	query := r.db.Preload("Details").
		Where("customer_id = ? AND status = ?", customerID, constants.OrderStatusDelivered)
	if since != nil {
		// 窗口按送达时间计算，历史数据缺少送达时间时回退到下单时间
		query = query.Where("COALESCE(delivered_at, created_at) >= ?", *since)
	}
	var orders []models.Order
	if err := query.Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListCustomerIDsWithDelivered 获取存在已送达订单的会员ID
func (r *GormOrderRepository) ListCustomerIDsWithDelivered() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Order{}).
		Where("customer_id IS NOT NULL AND status = ?", constants.OrderStatusDelivered).
		Distinct().
		Pluck("customer_id", &ids).Error
	return ids, err
}
