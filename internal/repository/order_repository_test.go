package repository

import (
	"testing"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, orderNo string, customerID *uint, status int, amounts ...int64) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:       orderNo,
		CustomerID:    customerID,
		CustomerName:  "Lan",
		CustomerEmail: "lan@example.com",
		PaymentMethod: constants.PaymentMethodCOD,
		Status:        status,
	}
	details := make([]models.OrderDetail, 0, len(amounts))
	var subtotal int64
	for _, amount := range amounts {
		details = append(details, models.OrderDetail{Name: "item", Qty: 1, Price: models.NewMoney(amount), Amount: models.NewMoney(amount)})
		subtotal += amount
	}
	order.Subtotal = models.NewMoney(subtotal)
	order.Total = models.NewMoney(subtotal)
	if err := repo.Create(order, details); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderRepositoryTrashRestorePurge(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := createTestOrder(t, repo, "BK-TRASH", nil, constants.OrderStatusPending, 10000, 20000)

	if err := repo.SoftDelete(order.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	got, err := repo.GetByID(order.ID, false)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got != nil {
		t.Fatalf("trashed order should be hidden")
	}

	trashed, total, err := repo.ListAdmin(OrderListFilter{OnlyTrashed: true})
	if err != nil {
		t.Fatalf("list trashed failed: %v", err)
	}
	if total != 1 || trashed[0].ID != order.ID {
		t.Fatalf("trashed list want order %d got total=%d", order.ID, total)
	}

	if err := repo.Restore(order.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, err = repo.GetByID(order.ID, false)
	if err != nil || got == nil {
		t.Fatalf("restored order should be visible: %v", err)
	}
	if len(got.Details) != 2 {
		t.Fatalf("details want 2 got %d", len(got.Details))
	}
	if got.StatusText != constants.OrderStatusNamePending {
		t.Fatalf("status text want pending got %s", got.StatusText)
	}

	if err := repo.Purge(order.ID); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	got, err = repo.GetByID(order.ID, true)
	if err != nil {
		t.Fatalf("get purged order failed: %v", err)
	}
	if got != nil {
		t.Fatalf("purged order should be gone")
	}
	var detailCount int64
	db.Model(&models.OrderDetail{}).Where("order_id = ?", order.ID).Count(&detailCount)
	if detailCount != 0 {
		t.Fatalf("purged order details want 0 got %d", detailCount)
	}
}

func TestOrderRepositoryListDeliveredByCustomerWindow(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	customerID := uint(42)

	recent := createTestOrder(t, repo, "BK-RECENT", &customerID, constants.OrderStatusDelivered, 50000)
	old := createTestOrder(t, repo, "BK-OLD", &customerID, constants.OrderStatusDelivered, 70000)
	createTestOrder(t, repo, "BK-PENDING", &customerID, constants.OrderStatusPending, 90000)
	if err := db.Model(&models.Order{}).Where("id = ?", old.ID).UpdateColumn("created_at", time.Now().AddDate(-2, 0, 0)).Error; err != nil {
		t.Fatalf("age order failed: %v", err)
	}
	// 很久以前下单、最近才送达的订单仍在窗口内
	late := createTestOrder(t, repo, "BK-LATE", &customerID, constants.OrderStatusDelivered, 30000)
	deliveredAt := time.Now().AddDate(0, 0, -1)
	if err := db.Model(&models.Order{}).Where("id = ?", late.ID).UpdateColumns(map[string]interface{}{
		"created_at":   time.Now().AddDate(-1, -1, 0),
		"delivered_at": deliveredAt,
	}).Error; err != nil {
		t.Fatalf("age late order failed: %v", err)
	}

	all, err := repo.ListDeliveredByCustomer(customerID, nil)
	if err != nil {
		t.Fatalf("list delivered failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("delivered orders want 3 got %d", len(all))
	}

	since := time.Now().AddDate(-1, 0, 0)
	windowed, err := repo.ListDeliveredByCustomer(customerID, &since)
	if err != nil {
		t.Fatalf("list windowed failed: %v", err)
	}
	if len(windowed) != 2 || windowed[0].ID != recent.ID || windowed[1].ID != late.ID {
		t.Fatalf("windowed orders want [%d %d] got %+v", recent.ID, late.ID, windowed)
	}
	if len(windowed[0].Details) != 1 {
		t.Fatalf("details should be preloaded")
	}

	ids, err := repo.ListCustomerIDsWithDelivered()
	if err != nil {
		t.Fatalf("list customer ids failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != customerID {
		t.Fatalf("customer ids want [42] got %v", ids)
	}
}

func TestOrderRepositoryScopedToCustomer(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	owner := uint(1)
	other := uint(2)
	order := createTestOrder(t, repo, "BK-OWNER", &owner, constants.OrderStatusPending, 10000)

	got, err := repo.GetByIDAndCustomer(order.ID, other)
	if err != nil {
		t.Fatalf("get by customer failed: %v", err)
	}
	if got != nil {
		t.Fatalf("order must not be visible to another customer")
	}

	err = repo.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).GetByIDForUpdate(order.ID)
		if err != nil {
			return err
		}
		return repo.WithTx(tx).Update(locked.ID, map[string]interface{}{"status": constants.OrderStatusProcessing})
	})
	if err != nil {
		t.Fatalf("update in transaction failed: %v", err)
	}
	list, total, err := repo.ListByCustomer(OrderListFilter{CustomerID: owner, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by customer failed: %v", err)
	}
	if total != 1 || list[0].Status != constants.OrderStatusProcessing {
		t.Fatalf("unexpected customer list total=%d list=%+v", total, list)
	}
}
