package service

import (
	"context"
	"testing"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"github.com/shopspring/decimal"
)

type countingCustomerRepo struct {
	repository.CustomerRepository
	updates int
}

func (r *countingCustomerRepo) UpdateMembership(id uint, updates map[string]interface{}) error {
	r.updates++
	return r.CustomerRepository.UpdateMembership(id, updates)
}

func (env *serviceTestEnv) createDeliveredOrder(t *testing.T, customerID uint, createdAt time.Time, total int64, details []models.OrderDetail) *models.Order {
	t.Helper()
	id := customerID
	order := &models.Order{
		OrderNo:       "BK-DELIVERED-" + createdAt.Format("20060102150405") + "-" + decimal.NewFromInt(total).String(),
		CustomerID:    &id,
		CustomerName:  "Khách",
		PaymentMethod: constants.PaymentMethodCOD,
		Status:        constants.OrderStatusDelivered,
		Total:         models.NewMoney(total),
		CreatedAt:     createdAt,
	}
	if err := env.orderRepo.Create(order, details); err != nil {
		t.Fatalf("create delivered order failed: %v", err)
	}
	return order
}

func TestBuildMembershipTiersSortsAndFallsBack(t *testing.T) {
	tiers := BuildMembershipTiers([]config.MembershipTierConfig{
		{Level: "vang", Label: "Vàng", MinSpent: "5000000"},
		{Level: "dong", Label: "Đồng", MinSpent: "0"},
		{Level: "broken", MinSpent: "abc"},
		{Level: "bac", MinSpent: "2000000"},
	})
	if len(tiers) != 3 {
		t.Fatalf("expected invalid tier skipped, got %d", len(tiers))
	}
	if tiers[0].Level != "dong" || tiers[1].Level != "bac" || tiers[2].Level != "vang" {
		t.Fatalf("expected ascending ladder, got %+v", tiers)
	}
	if tiers[1].Label != "bac" {
		t.Fatalf("expected label to default to level, got %s", tiers[1].Label)
	}
	if fallback := BuildMembershipTiers(nil); len(fallback) != 4 || fallback[3].Level != constants.MembershipLevelBachKim {
		t.Fatalf("expected default ladder, got %+v", fallback)
	}
}

func TestResolveTierThresholds(t *testing.T) {
	svc := NewMembershipService(nil, nil, DefaultMembershipTiers(), 0)
	cases := []struct {
		spent int64
		want  string
	}{
		{spent: 0, want: constants.MembershipLevelDong},
		{spent: 1999999, want: constants.MembershipLevelDong},
		{spent: 2000000, want: constants.MembershipLevelBac},
		{spent: 5000000, want: constants.MembershipLevelVang},
		{spent: 25000000, want: constants.MembershipLevelBachKim},
	}
	for _, tc := range cases {
		if got := svc.Tiers()[svc.ResolveTier(decimal.NewFromInt(tc.spent), 1)].Level; got != tc.want {
			t.Fatalf("spent %d: want %s got %s", tc.spent, tc.want, got)
		}
	}
}

func TestRecomputeUsesNetDetailsAndSkipsUnchangedWrites(t *testing.T) {
	env := newServiceTestEnv(t)
	customer := env.createCustomer(t, "member@example.com")
	now := time.Now()

	env.createDeliveredOrder(t, customer.ID, now.Add(-24*time.Hour), 0, []models.OrderDetail{
		{Name: "Bánh kem", Qty: 1, Price: models.NewMoney(1500000), Amount: models.NewMoney(1500000), Discount: models.NewMoney(100000)},
		{Name: "Nến", Qty: 1, Price: models.NewMoney(600000), Amount: models.NewMoney(600000)},
	})
	env.createDeliveredOrder(t, customer.ID, now.Add(-48*time.Hour), 300000, nil)
	env.createDeliveredOrder(t, customer.ID, now.AddDate(-2, 0, 0), 9000000, nil)

	repo := &countingCustomerRepo{CustomerRepository: env.customerRepo}
	svc := NewMembershipService(repo, env.orderRepo, DefaultMembershipTiers(), 12)

	updated, err := svc.Recompute(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if updated.TotalOrders != 2 || updated.TotalSpent.String() != "2300000.00" {
		t.Fatalf("unexpected aggregate: orders=%d spent=%s", updated.TotalOrders, updated.TotalSpent)
	}
	if updated.MembershipLevel != constants.MembershipLevelBac || updated.MembershipChangedAt == nil {
		t.Fatalf("expected bac tier with change time, got %+v", updated)
	}
	if _, err := svc.Recompute(context.Background(), customer.ID); err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	if repo.updates != 1 {
		t.Fatalf("expected unchanged recompute to skip the write, got %d writes", repo.updates)
	}

	lifetime := NewMembershipService(env.customerRepo, env.orderRepo, DefaultMembershipTiers(), 0)
	spent, count, err := lifetime.SpendForCustomer(customer.ID)
	if err != nil {
		t.Fatalf("spend failed: %v", err)
	}
	if count != 3 || !spent.Equal(decimal.NewFromInt(11300000)) {
		t.Fatalf("unexpected lifetime spend: %s over %d orders", spent, count)
	}
}

func TestGetMyMembershipProgress(t *testing.T) {
	env := newServiceTestEnv(t)
	customer := env.createCustomer(t, "progress@example.com")
	env.createDeliveredOrder(t, customer.ID, time.Now().Add(-time.Hour), 3500000, nil)

	summary, err := env.membership.GetMyMembership(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("get membership failed: %v", err)
	}
	if summary.Level != constants.MembershipLevelBac || summary.NextLevel != constants.MembershipLevelVang {
		t.Fatalf("unexpected levels: %+v", summary)
	}
	if summary.AmountToNext.String() != "1500000.00" || summary.ProgressPercent != 50 {
		t.Fatalf("unexpected progress: to_next=%s percent=%d", summary.AmountToNext, summary.ProgressPercent)
	}

	top := env.createCustomer(t, "top@example.com")
	env.createDeliveredOrder(t, top.ID, time.Now().Add(-time.Hour), 12000000, nil)
	topSummary, err := env.membership.GetMyMembership(context.Background(), top.ID)
	if err != nil {
		t.Fatalf("get membership failed: %v", err)
	}
	if topSummary.NextLevel != "" || topSummary.ProgressPercent != 100 {
		t.Fatalf("expected top tier to be complete, got %+v", topSummary)
	}

	if _, err := env.membership.GetMyMembership(context.Background(), 9999); err != ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestRefreshAllDecaysAgedSpend(t *testing.T) {
	env := newServiceTestEnv(t)
	customer := env.createCustomer(t, "decay@example.com")
	env.createDeliveredOrder(t, customer.ID, time.Now().AddDate(0, -11, 0), 6000000, nil)

	if _, err := env.membership.Recompute(context.Background(), customer.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	env.membership.now = func() time.Time { return time.Now().AddDate(0, 2, 0) }
	refreshed, err := env.membership.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed != 1 {
		t.Fatalf("expected one customer refreshed, got %d", refreshed)
	}
	reloaded, _ := env.customerRepo.GetByID(customer.ID)
	if reloaded.MembershipLevel != constants.MembershipLevelDong || reloaded.TotalOrders != 0 {
		t.Fatalf("expected tier to decay, got %+v", reloaded)
	}
}
