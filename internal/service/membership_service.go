package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"github.com/shopspring/decimal"
)

// MembershipTier 会员等级门槛
type MembershipTier struct {
	Level     string
	Label     string
	MinSpent  decimal.Decimal
	MinOrders int
}

// DefaultMembershipTiers 默认等级阶梯
func DefaultMembershipTiers() []MembershipTier {
	return []MembershipTier{
		{Level: constants.MembershipLevelDong, Label: "Đồng", MinSpent: decimal.Zero},
		{Level: constants.MembershipLevelBac, Label: "Bạc", MinSpent: decimal.NewFromInt(2000000)},
		{Level: constants.MembershipLevelVang, Label: "Vàng", MinSpent: decimal.NewFromInt(5000000)},
		{Level: constants.MembershipLevelBachKim, Label: "Bạch Kim", MinSpent: decimal.NewFromInt(10000000)},
	}
}

// BuildMembershipTiers 从配置构建升序等级阶梯，配置无效时使用默认值
func BuildMembershipTiers(items []config.MembershipTierConfig) []MembershipTier {
	tiers := make([]MembershipTier, 0, len(items))
	for _, item := range items {
		level := strings.TrimSpace(item.Level)
		if level == "" {
			continue
		}
		minSpent := decimal.Zero
		if raw := strings.TrimSpace(item.MinSpent); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				logger.Warnw("membership_tier_invalid", "level", level, "min_spent", raw, "error", err)
				continue
			}
			minSpent = parsed
		}
		label := strings.TrimSpace(item.Label)
		if label == "" {
			label = level
		}
		tiers = append(tiers, MembershipTier{
			Level:     level,
			Label:     label,
			MinSpent:  minSpent,
			MinOrders: item.MinOrders,
		})
	}
	if len(tiers) == 0 {
		return DefaultMembershipTiers()
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinSpent.LessThan(tiers[j].MinSpent)
	})
	return tiers
}

// MembershipSummary 会员概览
type MembershipSummary struct {
	Level           string       `json:"level"`
	Label           string       `json:"label"`
	TotalOrders     int          `json:"total_orders"`
	TotalSpent      models.Money `json:"total_spent"`
	NextLevel       string       `json:"next_level,omitempty"`
	NextLabel       string       `json:"next_label,omitempty"`
	NextThreshold   models.Money `json:"next_threshold"`
	AmountToNext    models.Money `json:"amount_to_next"`
	ProgressPercent int          `json:"progress_percent"`
}

// MembershipService 会员等级聚合服务
type MembershipService struct {
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	tiers        []MembershipTier
	windowMonths int
	now          func() time.Time
}

// NewMembershipService 创建会员服务
func NewMembershipService(customerRepo repository.CustomerRepository, orderRepo repository.OrderRepository, tiers []MembershipTier, windowMonths int) *MembershipService {
	if len(tiers) == 0 {
		tiers = DefaultMembershipTiers()
	}
	if windowMonths < 0 {
		windowMonths = 0
	}
	return &MembershipService{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		tiers:        tiers,
		windowMonths: windowMonths,
		now:          time.Now,
	}
}

// Tiers 返回当前等级阶梯
func (s *MembershipService) Tiers() []MembershipTier {
	return s.tiers
}

// SpendForCustomer 统计窗口内已送达订单的消费额与单数
func (s *MembershipService) SpendForCustomer(customerID uint) (decimal.Decimal, int, error) {
	var since *time.Time
	if s.windowMonths > 0 {
		from := s.now().AddDate(0, -s.windowMonths, 0)
		since = &from
	}
	orders, err := s.orderRepo.ListDeliveredByCustomer(customerID, since)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, order := range orders {
		total = total.Add(orderSpend(&order))
	}
	return total, len(orders), nil
}

// orderSpend 明细净额之和，无明细时取订单总额
func orderSpend(order *models.Order) decimal.Decimal {
	if len(order.Details) == 0 {
		return order.Total.Decimal
	}
	sum := decimal.Zero
	for _, detail := range order.Details {
		net := detail.Amount.Decimal.Sub(detail.Discount.Decimal)
		if net.IsNegative() {
			continue
		}
		sum = sum.Add(net)
	}
	return sum
}

// ResolveTier 返回满足门槛的最高等级下标
func (s *MembershipService) ResolveTier(spent decimal.Decimal, orders int) int {
	index := 0
	for i, tier := range s.tiers {
		if spent.GreaterThanOrEqual(tier.MinSpent) && orders >= tier.MinOrders {
			index = i
		}
	}
	return index
}

// Recompute 全量重算会员汇总，未变化时不写库
func (s *MembershipService) Recompute(ctx context.Context, customerID uint) (*models.Customer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	spent, count, err := s.SpendForCustomer(customerID)
	if err != nil {
		return nil, err
	}
	tier := s.tiers[s.ResolveTier(spent, count)]
	totalSpent := models.NewMoneyFromDecimal(spent)

	if customer.TotalOrders == count &&
		customer.TotalSpent.Decimal.Equal(totalSpent.Decimal) &&
		customer.MembershipLevel == tier.Level &&
		customer.MembershipLabel == tier.Label {
		return customer, nil
	}

	updates := map[string]interface{}{
		"total_orders":     count,
		"total_spent":      totalSpent,
		"membership_label": tier.Label,
	}
	if customer.MembershipLevel != tier.Level {
		now := s.now()
		updates["membership_level"] = tier.Level
		updates["membership_changed_at"] = now
		customer.MembershipChangedAt = &now
		logger.Infow("membership_level_changed",
			"customer_id", customerID,
			"from", customer.MembershipLevel,
			"to", tier.Level,
		)
	}
	if err := s.customerRepo.UpdateMembership(customerID, updates); err != nil {
		return nil, err
	}
	customer.TotalOrders = count
	customer.TotalSpent = totalSpent
	customer.MembershipLevel = tier.Level
	customer.MembershipLabel = tier.Label
	return customer, nil
}

// GetMyMembership 重算后返回等级与升级进度
func (s *MembershipService) GetMyMembership(ctx context.Context, customerID uint) (*MembershipSummary, error) {
	customer, err := s.Recompute(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.summarize(customer), nil
}

func (s *MembershipService) summarize(customer *models.Customer) *MembershipSummary {
	index := s.ResolveTier(customer.TotalSpent.Decimal, customer.TotalOrders)
	current := s.tiers[index]
	summary := &MembershipSummary{
		Level:           current.Level,
		Label:           current.Label,
		TotalOrders:     customer.TotalOrders,
		TotalSpent:      customer.TotalSpent,
		NextThreshold:   models.NewMoney(0),
		AmountToNext:    models.NewMoney(0),
		ProgressPercent: 100,
	}
	if index+1 >= len(s.tiers) {
		return summary
	}
	next := s.tiers[index+1]
	summary.NextLevel = next.Level
	summary.NextLabel = next.Label
	summary.NextThreshold = models.NewMoneyFromDecimal(next.MinSpent)
	summary.AmountToNext = summary.NextThreshold.Minus(customer.TotalSpent)

	span := next.MinSpent.Sub(current.MinSpent)
	if span.LessThanOrEqual(decimal.Zero) {
		summary.ProgressPercent = 0
		return summary
	}
	progress := customer.TotalSpent.Decimal.Sub(current.MinSpent).Mul(decimal.NewFromInt(100)).Div(span).IntPart()
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	summary.ProgressPercent = int(progress)
	return summary
}

// RefreshAll 重算所有有送达订单的顾客，用于窗口滚动后的等级衰减
func (s *MembershipService) RefreshAll(ctx context.Context) (int, error) {
	ids, err := s.orderRepo.ListCustomerIDsWithDelivered()
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.Recompute(ctx, id); err != nil {
			logger.Warnw("membership_refresh_customer_failed", "customer_id", id, "error", err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}
