package service

import (
	"strings"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"gorm.io/gorm"
)

// InventoryService 库存流水服务，所有变动均以追加带符号流水实现
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
	inTx          bool
}

// NewInventoryService 创建库存服务
func NewInventoryService(inventoryRepo repository.InventoryRepository, productRepo repository.ProductRepository) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

// WithTx 绑定外部事务（下单、状态流转）
func (s *InventoryService) WithTx(tx *gorm.DB) *InventoryService {
	if tx == nil {
		return s
	}
	return &InventoryService{
		inventoryRepo: s.inventoryRepo.WithTx(tx),
		productRepo:   s.productRepo.WithTx(tx),
		inTx:          true,
	}
}

// StockMovementInput 库存变动输入
type StockMovementInput struct {
	ProductID uint
	Qty       int64
	RefType   string
	RefID     uint
	Note      string
}

func (in StockMovementInput) magnitude() (int64, error) {
	qty := in.Qty
	if qty < 0 {
		qty = -qty
	}
	if qty == 0 || in.ProductID == 0 {
		return 0, ErrStockQtyInvalid
	}
	return qty, nil
}

// ReserveStock 预占库存：锁定商品行后校验可用量，追加 RESERVE（负数）
func (s *InventoryService) ReserveStock(input StockMovementInput) (*models.ProductStock, error) {
	return s.appendGuarded(input, constants.StockTypeReserve)
}

// DecreaseStock 直接出库（线下销售等），追加 OUT（负数）
func (s *InventoryService) DecreaseStock(input StockMovementInput) (*models.ProductStock, error) {
	return s.appendGuarded(input, constants.StockTypeOut)
}

// ReleaseStock 释放预占，追加 RELEASE（正数）
func (s *InventoryService) ReleaseStock(input StockMovementInput) (*models.ProductStock, error) {
	qty, err := input.magnitude()
	if err != nil {
		return nil, err
	}
	entry := buildStockEntry(input, constants.StockTypeRelease, qty)
	if err := s.inventoryRepo.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// IncreaseStock 入库，追加 IN（正数）
func (s *InventoryService) IncreaseStock(input StockMovementInput) (*models.ProductStock, error) {
	qty, err := input.magnitude()
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if strings.TrimSpace(input.RefType) == "" {
		input.RefType = constants.StockRefStockIn
	}
	entry := buildStockEntry(input, constants.StockTypeIn, qty)
	if err := s.inventoryRepo.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CommitReserved 将单据的预占转为出库，仅翻转类型，返回翻转行数
func (s *InventoryService) CommitReserved(refType string, refID uint) (int64, error) {
	return s.inventoryRepo.FlipReserved(refType, refID)
}

// PurgeByReference 清除单据关联流水，使其不再参与可用量汇总
// 已有出库（OUT）流水的单据整体保留：货物已离店，清除会让可用量虚增。
func (s *InventoryService) PurgeByReference(refType string, refID uint) (int64, error) {
	committed, err := s.HasCommitted(refType, refID)
	if err != nil {
		return 0, err
	}
	if committed {
		return 0, nil
	}
	return s.inventoryRepo.PurgeByReference(refType, refID)
}

// HasCommitted 单据是否存在有效的出库流水
func (s *InventoryService) HasCommitted(refType string, refID uint) (bool, error) {
	entries, err := s.inventoryRepo.ListByReference(refType, refID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.Status == constants.StockStatusActive && entry.Type == constants.StockTypeOut {
			return true, nil
		}
	}
	return false, nil
}

// GetAvailableQuantity 可用量 = 有效流水之和（含未提交的预占）
func (s *InventoryService) GetAvailableQuantity(productID uint) (int64, error) {
	return s.inventoryRepo.SumAvailable(productID)
}

// IsInStock 是否有货
func (s *InventoryService) IsInStock(productID uint) (bool, error) {
	available, err := s.GetAvailableQuantity(productID)
	if err != nil {
		return false, err
	}
	return available > 0, nil
}

// AvailabilityByProductIDs 批量查询可用量
func (s *InventoryService) AvailabilityByProductIDs(productIDs []uint) (map[uint]int64, error) {
	return s.inventoryRepo.SumAvailableByProductIDs(productIDs)
}

// FillAvailability 回填商品的派生库存字段
func (s *InventoryService) FillAvailability(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	sums, err := s.AvailabilityByProductIDs(ids)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].AvailableQuantity = sums[products[i].ID]
		products[i].IsInStock = products[i].AvailableQuantity > 0
	}
	return nil
}

// ListMovements 库存流水审计列表
func (s *InventoryService) ListMovements(filter repository.StockMovementFilter) ([]models.ProductStock, int64, error) {
	return s.inventoryRepo.List(filter)
}

func (s *InventoryService) appendGuarded(input StockMovementInput, stockType string) (*models.ProductStock, error) {
	qty, err := input.magnitude()
	if err != nil {
		return nil, err
	}
	if !s.inTx {
		var entry *models.ProductStock
		err := s.inventoryRepo.Transaction(func(tx *gorm.DB) error {
			var txErr error
			entry, txErr = s.WithTx(tx).appendGuarded(input, stockType)
			return txErr
		})
		return entry, err
	}

	product, err := s.productRepo.GetByIDForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	available, err := s.inventoryRepo.SumAvailable(input.ProductID)
	if err != nil {
		return nil, err
	}
	if available < qty {
		return nil, ErrStockInsufficient
	}
	entry := buildStockEntry(input, stockType, -qty)
	if err := s.inventoryRepo.Append(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func buildStockEntry(input StockMovementInput, stockType string, signedQty int64) *models.ProductStock {
	return &models.ProductStock{
		ProductID: input.ProductID,
		Qty:       signedQty,
		Type:      stockType,
		RefType:   strings.TrimSpace(input.RefType),
		RefID:     input.RefID,
		Note:      strings.TrimSpace(input.Note),
		Status:    constants.StockStatusActive,
	}
}
