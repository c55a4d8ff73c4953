//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := models.AllModels()
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(cleanupModels...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresLocalizedProductSearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)

	product := &models.Product{
		Slug:      "pg-banh-mi",
		NameJSON:  models.JSON{"vi-VN": "Bánh mì thịt", "en-US": "Pork baguette"},
		BasePrice: models.NewMoney(25000),
		IsActive:  true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	for _, keyword := range []string{"thịt", "baguette"} {
		rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: keyword})
		if err != nil {
			t.Fatalf("search %q failed: %v", keyword, err)
		}
		if total != 1 || len(rows) != 1 {
			t.Fatalf("search %q want 1 got total=%d len=%d", keyword, total, len(rows))
		}
	}
}

// 并发预占时行锁保证不会超卖
func TestPostgresConcurrentReservationHonoursRowLock(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	productRepo := NewProductRepository(db)
	inventoryRepo := NewInventoryRepository(db)

	product := &models.Product{Slug: "pg-lock", NameJSON: models.JSON{"vi-VN": "Khóa"}, BasePrice: models.NewMoney(1000), IsActive: true}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := inventoryRepo.Append(&models.ProductStock{ProductID: product.ID, Qty: 5, Type: constants.StockTypeIn, RefType: constants.StockRefStockIn}); err != nil {
		t.Fatalf("stock in failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(ref uint) {
			defer wg.Done()
			_ = inventoryRepo.Transaction(func(tx *gorm.DB) error {
				if _, err := productRepo.WithTx(tx).GetByIDForUpdate(product.ID); err != nil {
					return err
				}
				available, err := inventoryRepo.WithTx(tx).SumAvailable(product.ID)
				if err != nil || available < 1 {
					return err
				}
				return inventoryRepo.WithTx(tx).Append(&models.ProductStock{
					ProductID: product.ID, Qty: -1, Type: constants.StockTypeReserve,
					RefType: constants.StockRefOrder, RefID: ref,
				})
			})
		}(uint(i + 1))
	}
	wg.Wait()

	available, err := inventoryRepo.SumAvailable(product.ID)
	if err != nil {
		t.Fatalf("sum available failed: %v", err)
	}
	if available != 0 {
		t.Fatalf("available want 0 got %d", available)
	}
}
