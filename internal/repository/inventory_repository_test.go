package repository

import (
	"testing"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
)

func appendTestMovement(t *testing.T, repo *GormInventoryRepository, productID uint, qty int64, typ string, refType string, refID uint) {
	t.Helper()
	entry := &models.ProductStock{ProductID: productID, Qty: qty, Type: typ, RefType: refType, RefID: refID}
	if err := repo.Append(entry); err != nil {
		t.Fatalf("append movement failed: %v", err)
	}
}

func TestInventoryRepositorySumIgnoresPurgedRows(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewInventoryRepository(db)
	product := createTestProduct(t, db, "brioche", 30000)

	appendTestMovement(t, repo, product.ID, 10, constants.StockTypeIn, constants.StockRefStockIn, 1)
	appendTestMovement(t, repo, product.ID, -3, constants.StockTypeReserve, constants.StockRefOrder, 7)

	got, err := repo.SumAvailable(product.ID)
	if err != nil {
		t.Fatalf("sum available failed: %v", err)
	}
	if got != 7 {
		t.Fatalf("available want 7 got %d", got)
	}

	purged, err := repo.PurgeByReference(constants.StockRefOrder, 7)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 1 {
		t.Fatalf("purged rows want 1 got %d", purged)
	}
	got, err = repo.SumAvailable(product.ID)
	if err != nil {
		t.Fatalf("sum available after purge failed: %v", err)
	}
	if got != 10 {
		t.Fatalf("available after purge want 10 got %d", got)
	}
}

func TestInventoryRepositoryFlipReservedKeepsQuantity(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewInventoryRepository(db)
	product := createTestProduct(t, db, "eclair", 20000)

	appendTestMovement(t, repo, product.ID, 10, constants.StockTypeIn, constants.StockRefStockIn, 1)
	appendTestMovement(t, repo, product.ID, -2, constants.StockTypeReserve, constants.StockRefOrder, 9)
	appendTestMovement(t, repo, product.ID, -1, constants.StockTypeReserve, constants.StockRefOrder, 9)
	appendTestMovement(t, repo, product.ID, -4, constants.StockTypeReserve, constants.StockRefOrder, 10)

	flipped, err := repo.FlipReserved(constants.StockRefOrder, 9)
	if err != nil {
		t.Fatalf("flip reserved failed: %v", err)
	}
	if flipped != 2 {
		t.Fatalf("flipped want 2 got %d", flipped)
	}

	entries, err := repo.ListByReference(constants.StockRefOrder, 9)
	if err != nil {
		t.Fatalf("list by reference failed: %v", err)
	}
	for _, entry := range entries {
		if entry.Type != constants.StockTypeOut {
			t.Fatalf("entry %d type want OUT got %s", entry.ID, entry.Type)
		}
		if entry.Qty >= 0 {
			t.Fatalf("entry %d qty should stay negative, got %d", entry.ID, entry.Qty)
		}
	}

	sums, err := repo.SumAvailableByProductIDs([]uint{product.ID, product.ID + 100})
	if err != nil {
		t.Fatalf("sum by ids failed: %v", err)
	}
	if sums[product.ID] != 3 {
		t.Fatalf("available want 3 got %d", sums[product.ID])
	}
	if v, ok := sums[product.ID+100]; !ok || v != 0 {
		t.Fatalf("missing product should report 0, got %d ok=%v", v, ok)
	}
}

func TestInventoryRepositoryListFilters(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewInventoryRepository(db)
	product := createTestProduct(t, db, "donut", 15000)

	appendTestMovement(t, repo, product.ID, 5, constants.StockTypeIn, constants.StockRefStockIn, 1)
	appendTestMovement(t, repo, product.ID, -1, constants.StockTypeOut, constants.StockRefManual, 0)
	appendTestMovement(t, repo, product.ID, -2, constants.StockTypeReserve, constants.StockRefOrder, 3)

	items, total, err := repo.List(StockMovementFilter{ProductID: product.ID, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list movements failed: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("unexpected page total=%d len=%d", total, len(items))
	}
	if items[0].Type != constants.StockTypeReserve {
		t.Fatalf("movements should be newest first, got %s", items[0].Type)
	}

	_, total, err = repo.List(StockMovementFilter{ProductID: product.ID, Type: constants.StockTypeIn})
	if err != nil {
		t.Fatalf("list IN movements failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("IN movements want 1 got %d", total)
	}
}
