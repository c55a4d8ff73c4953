package repository

import (
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository 库存流水数据访问接口
type InventoryRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	Append(entry *models.ProductStock) error
	SumAvailable(productID uint) (int64, error)
	SumAvailableByProductIDs(productIDs []uint) (map[uint]int64, error)
	FlipReserved(refType string, refID uint) (int64, error)
	ListByReference(refType string, refID uint) ([]models.ProductStock, error)
	PurgeByReference(refType string, refID uint) (int64, error)
	List(filter StockMovementFilter) ([]models.ProductStock, int64, error)
	WithTx(tx *gorm.DB) *GormInventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存流水仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) *GormInventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInventoryRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Append 追加一条流水
func (r *GormInventoryRepository) Append(entry *models.ProductStock) error {
	if entry.Status == 0 {
		entry.Status = constants.StockStatusActive
	}
	return r.db.Create(entry).Error
}

// SumAvailable 汇总单个商品的有效流水
func (r *GormInventoryRepository) SumAvailable(productID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.ProductStock{}).
		Where("product_id = ? AND status = ?", productID, constants.StockStatusActive).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&total).Error
	return total, err
}

// SumAvailableByProductIDs 批量汇总商品可用量，缺失的商品按 0 返回
func (r *GormInventoryRepository) SumAvailableByProductIDs(productIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		ProductID uint
		Total     int64
	}
	err := r.db.Model(&models.ProductStock{}).
		Select("product_id, COALESCE(SUM(qty), 0) AS total").
		Where("product_id IN ? AND status = ?", productIDs, constants.StockStatusActive).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		result[id] = 0
	}
	for _, row := range rows {
		result[row.ProductID] = row.Total
	}
	return result, nil
}

// FlipReserved 将单据的 RESERVE 流水原地改为 OUT，数量与符号不变
func (r *GormInventoryRepository) FlipReserved(refType string, refID uint) (int64, error) {
	res := r.db.Model(&models.ProductStock{}).
		Where("ref_type = ? AND ref_id = ? AND type = ? AND status = ?", refType, refID, constants.StockTypeReserve, constants.StockStatusActive).
		Update("type", constants.StockTypeOut)
	return res.RowsAffected, res.Error
}

// ListByReference 获取单据关联的流水
func (r *GormInventoryRepository) ListByReference(refType string, refID uint) ([]models.ProductStock, error) {
	var entries []models.ProductStock
	err := r.db.Where("ref_type = ? AND ref_id = ?", refType, refID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// PurgeByReference 将单据关联的流水标记为已清除，不再参与汇总
func (r *GormInventoryRepository) PurgeByReference(refType string, refID uint) (int64, error) {
	res := r.db.Model(&models.ProductStock{}).
		Where("ref_type = ? AND ref_id = ? AND status = ?", refType, refID, constants.StockStatusActive).
		Update("status", constants.StockStatusPurged)
	return res.RowsAffected, res.Error
}

// List 流水列表（审计）
func (r *GormInventoryRepository) List(filter StockMovementFilter) ([]models.ProductStock, int64, error) {
	query := r.db.Model(&models.ProductStock{})
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.RefType != "" {
		query = query.Where("ref_type = ?", filter.RefType)
	}
	if filter.RefID != 0 {
		query = query.Where("ref_id = ?", filter.RefID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var entries []models.ProductStock
	if err := query.Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
