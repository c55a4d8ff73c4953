package service

import (
	"strings"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo      repository.ProductRepository
	inventory *InventoryService
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, inventory *InventoryService) *ProductService {
	return &ProductService{repo: repo, inventory: inventory}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Slug            string
	NameJSON        map[string]interface{}
	DescriptionJSON map[string]interface{}
	BasePrice       models.Money
	Images          []string
	SortOrder       int
	InitialStock    int64
	Variants        []models.ProductVariant
}

// ListPublic 获取上架商品列表（含可用库存）
func (s *ProductService) ListPublic(search string, page, pageSize int) ([]models.Product, int64, error) {
	products, total, err := s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       search,
		OnlyActive:   true,
		WithVariants: true,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.inventory.FillAvailability(products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetPublic 获取上架商品详情
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	available, err := s.inventory.GetAvailableQuantity(product.ID)
	if err != nil {
		return nil, err
	}
	product.AvailableQuantity = available
	product.IsInStock = available > 0
	return product, nil
}

// Create 创建商品，InitialStock 大于 0 时写入入库流水
func (s *ProductService) Create(input CreateProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" || len(input.NameJSON) == 0 || input.BasePrice.Decimal.IsNegative() {
		return nil, ErrInvalidInput
	}
	product := &models.Product{
		Slug:            slug,
		NameJSON:        models.JSON(input.NameJSON),
		DescriptionJSON: models.JSON(input.DescriptionJSON),
		BasePrice:       input.BasePrice,
		Images:          models.StringArray(input.Images),
		IsActive:        true,
		SortOrder:       input.SortOrder,
		Variants:        input.Variants,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	if input.InitialStock > 0 {
		if _, err := s.StockIn(product.ID, input.InitialStock, "initial stock"); err != nil {
			return nil, err
		}
	}
	return s.GetPublic(product.ID)
}

// StockIn 入库
func (s *ProductService) StockIn(productID uint, qty int64, note string) (*models.ProductStock, error) {
	if qty <= 0 {
		return nil, ErrStockQtyInvalid
	}
	return s.inventory.IncreaseStock(StockMovementInput{
		ProductID: productID,
		Qty:       qty,
		RefType:   constants.StockRefStockIn,
		Note:      note,
	})
}

// StockOut 直接出库（门店零售、损耗）
func (s *ProductService) StockOut(productID uint, qty int64, note string) (*models.ProductStock, error) {
	if qty <= 0 {
		return nil, ErrStockQtyInvalid
	}
	return s.inventory.DecreaseStock(StockMovementInput{
		ProductID: productID,
		Qty:       qty,
		RefType:   constants.StockRefManual,
		Note:      note,
	})
}

// ListMovements 商品库存流水
func (s *ProductService) ListMovements(filter repository.StockMovementFilter) ([]models.ProductStock, int64, error) {
	if filter.ProductID != 0 {
		product, err := s.repo.GetByID(filter.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product == nil {
			return nil, 0, ErrProductNotFound
		}
	}
	return s.inventory.ListMovements(filter)
}
