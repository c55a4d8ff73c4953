package service

import (
	"errors"
	"testing"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"
)

func TestProductStockInOut(t *testing.T) {
	env := newServiceTestEnv(t)
	product := env.createProduct(t, "baguette", 15000, 5)

	if _, err := env.products.StockIn(product.ID, 0, ""); !errors.Is(err, ErrStockQtyInvalid) {
		t.Fatalf("expected ErrStockQtyInvalid, got %v", err)
	}
	movement, err := env.products.StockIn(product.ID, 7, "mẻ sáng")
	if err != nil {
		t.Fatalf("stock in failed: %v", err)
	}
	if movement.Type != constants.StockTypeIn || movement.RefType != constants.StockRefStockIn {
		t.Fatalf("unexpected movement: %+v", movement)
	}
	if got := env.available(t, product.ID); got != 12 {
		t.Fatalf("expected 12 available, got %d", got)
	}

	if _, err := env.products.StockOut(product.ID, 20, "hỏng"); !errors.Is(err, ErrStockInsufficient) {
		t.Fatalf("expected ErrStockInsufficient, got %v", err)
	}
	if _, err := env.products.StockOut(product.ID, 2, "hỏng"); err != nil {
		t.Fatalf("stock out failed: %v", err)
	}
	if got := env.available(t, product.ID); got != 10 {
		t.Fatalf("expected 10 available, got %d", got)
	}

	movements, total, err := env.products.ListMovements(repository.StockMovementFilter{ProductID: product.ID})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 3 || len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d/%d", total, len(movements))
	}
	if _, _, err := env.products.ListMovements(repository.StockMovementFilter{ProductID: 9999}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductPublicVisibility(t *testing.T) {
	env := newServiceTestEnv(t)
	visible := env.createProduct(t, "macaron", 12000, 3)
	hidden := env.createProduct(t, "eclair", 20000, 3)
	if err := env.db.Model(&models.Product{}).Where("id = ?", hidden.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable product failed: %v", err)
	}

	product, err := env.products.GetPublic(visible.ID)
	if err != nil {
		t.Fatalf("get public failed: %v", err)
	}
	if product.AvailableQuantity != 3 || !product.IsInStock {
		t.Fatalf("unexpected availability: %+v", product)
	}
	if _, err := env.products.GetPublic(hidden.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected hidden product not found, got %v", err)
	}

	products, total, err := env.products.ListPublic("", 1, 20)
	if err != nil {
		t.Fatalf("list public failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].ID != visible.ID {
		t.Fatalf("expected only active product, got total=%d items=%d", total, len(products))
	}
}
