package repository

import (
	"testing"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
)

func TestCouponRepositoryIncrementUsageRespectsLimit(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCouponRepository(db)
	coupon := &models.Coupon{
		Code:            "SWEET10",
		DiscountType:    constants.CouponTypeFixed,
		DiscountValue:   models.NewMoney(10000),
		TotalUsageLimit: 2,
		Status:          constants.CouponStatusActive,
	}
	if err := repo.Create(coupon); err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		ok, err := repo.IncrementUsage(coupon.ID)
		if err != nil || !ok {
			t.Fatalf("increment %d should succeed: ok=%v err=%v", i, ok, err)
		}
	}
	ok, err := repo.IncrementUsage(coupon.ID)
	if err != nil {
		t.Fatalf("increment over limit failed: %v", err)
	}
	if ok {
		t.Fatalf("increment over limit should be rejected")
	}

	if err := repo.DecrementUsage(coupon.ID); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	got, err := repo.GetByCode("sweet10")
	if err != nil || got == nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if got.CurrentUsageCount != 1 {
		t.Fatalf("usage count want 1 got %d", got.CurrentUsageCount)
	}
}

func TestCouponUsageRepositoryCounts(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCouponUsageRepository(db)
	customerID := uint(5)

	usages := []models.CouponUsage{
		{CouponID: 1, OrderID: 10, CustomerID: &customerID, Email: "Mai@Example.com"},
		{CouponID: 1, OrderID: 11, Phone: "0901234567"},
		{CouponID: 2, OrderID: 12, CustomerID: &customerID},
	}
	for i := range usages {
		if err := repo.Create(&usages[i]); err != nil {
			t.Fatalf("create usage failed: %v", err)
		}
	}

	if n, _ := repo.CountByCustomer(1, customerID); n != 1 {
		t.Fatalf("count by customer want 1 got %d", n)
	}
	if n, _ := repo.CountByEmail(1, "mai@example.com"); n != 1 {
		t.Fatalf("count by email want 1 got %d", n)
	}
	if n, _ := repo.CountByPhone(1, "0901234567"); n != 1 {
		t.Fatalf("count by phone want 1 got %d", n)
	}

	released, err := repo.MarkReleasedByOrderID(10, time.Now())
	if err != nil || released != 1 {
		t.Fatalf("mark released failed: released=%d err=%v", released, err)
	}
	usage, err := repo.GetByOrderID(10)
	if err != nil {
		t.Fatalf("get by order failed: %v", err)
	}
	if usage != nil {
		t.Fatalf("released usage should not be returned as active")
	}
	if n, _ := repo.CountByCustomer(1, customerID); n != 0 {
		t.Fatalf("released usage should not count, got %d", n)
	}
	if n, _ := repo.CountByEmail(1, "mai@example.com"); n != 0 {
		t.Fatalf("released usage should not count by email, got %d", n)
	}
	var rows int64
	if err := db.Model(&models.CouponUsage{}).Where("order_id = ?", 10).Count(&rows).Error; err != nil {
		t.Fatalf("count usage rows failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("usage row should be kept for audit, got %d", rows)
	}
	again, err := repo.MarkReleasedByOrderID(10, time.Now())
	if err != nil || again != 0 {
		t.Fatalf("second release should be a no-op: released=%d err=%v", again, err)
	}
}
