package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券引擎：资格判断、折扣计算与使用记录
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
	location   *time.Location
}

// NewCouponService 创建优惠券服务，location 用于每日可用时段判断
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, location *time.Location) *CouponService {
	if location == nil {
		location = time.Local
	}
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		location:   location,
	}
}

// CouponIdentity 使用者身份，按 customer_id > email > phone 的优先级计数
type CouponIdentity struct {
	CustomerID uint
	Email      string
	Phone      string
}

// CouponCartItem 校验用的购物车行
type CouponCartItem struct {
	ProductID uint
	Qty       int
	Price     models.Money
}

// DiscountResult 折扣计算结果
type DiscountResult struct {
	Amount   models.Money
	FreeShip bool
}

// CouponValidateInput 优惠券校验输入
type CouponValidateInput struct {
	CouponID uint
	Code     string
	Subtotal models.Money
	Items    []CouponCartItem
	Identity CouponIdentity
	Locale   string
	Now      time.Time
}

// CouponValidation 校验结果，业务拒绝通过 Valid=false 与 Reason 表达
type CouponValidation struct {
	Valid          bool           `json:"valid"`
	Coupon         *models.Coupon `json:"-"`
	Code           string         `json:"code,omitempty"`
	DiscountAmount models.Money   `json:"discount_amount"`
	FreeShip       bool           `json:"free_ship"`
	Message        string         `json:"message"`
	Reason         error          `json:"-"`
}

// IsActive 判断优惠券当前是否可用
func (s *CouponService) IsActive(coupon *models.Coupon, now time.Time) bool {
	return s.checkActive(coupon, now) == nil
}

func (s *CouponService) checkActive(coupon *models.Coupon, now time.Time) error {
	if coupon == nil || coupon.Status != constants.CouponStatusActive {
		return ErrCouponInactive
	}
	if coupon.StartDate != nil && now.Before(*coupon.StartDate) {
		return ErrCouponInactive
	}
	if coupon.EndDate != nil && now.After(*coupon.EndDate) {
		return ErrCouponInactive
	}
	if restriction := strings.TrimSpace(coupon.TimeRestriction); restriction != "" {
		window, err := ParseTimeRestriction(restriction)
		if err != nil || !window.Contains(now.In(s.location)) {
			return ErrCouponInactive
		}
	}
	if coupon.TotalUsageLimit > 0 && coupon.CurrentUsageCount >= coupon.TotalUsageLimit {
		return ErrCouponUsageLimit
	}
	return nil
}

// CanUseByCustomer 判断顾客是否可使用该优惠券
func (s *CouponService) CanUseByCustomer(coupon *models.Coupon, identity CouponIdentity, now time.Time) error {
	if err := s.checkActive(coupon, now); err != nil {
		return err
	}
	if len(coupon.AllowedCustomerEmails) > 0 {
		email := strings.TrimSpace(identity.Email)
		if email == "" || !coupon.AllowedCustomerEmails.ContainsFold(email) {
			return ErrCouponNotAllowed
		}
	}
	if coupon.UsagePerCustomer <= 0 {
		return nil
	}
	count, err := countCouponUsage(s.usageRepo, coupon.ID, identity)
	if err != nil {
		return err
	}
	if count >= int64(coupon.UsagePerCustomer) {
		return ErrCouponPerCustomerLimit
	}
	return nil
}

func countCouponUsage(usageRepo repository.CouponUsageRepository, couponID uint, identity CouponIdentity) (int64, error) {
	switch {
	case identity.CustomerID != 0:
		return usageRepo.CountByCustomer(couponID, identity.CustomerID)
	case strings.TrimSpace(identity.Email) != "":
		return usageRepo.CountByEmail(couponID, identity.Email)
	case strings.TrimSpace(identity.Phone) != "":
		return usageRepo.CountByPhone(couponID, identity.Phone)
	default:
		return 0, ErrCouponIdentityRequired
	}
}

// CalculateDiscount 计算折扣；免运费券折扣为 0，由调用方免除运费
func (s *CouponService) CalculateDiscount(coupon *models.Coupon, orderAmount models.Money) (DiscountResult, error) {
	if coupon == nil {
		return DiscountResult{}, ErrCouponNotFound
	}
	amount := orderAmount.Decimal
	if coupon.MinOrderAmount.Decimal.GreaterThan(decimal.Zero) && amount.LessThan(coupon.MinOrderAmount.Decimal) {
		return DiscountResult{}, ErrCouponMinAmount
	}
	switch strings.ToLower(strings.TrimSpace(coupon.DiscountType)) {
	case constants.CouponTypeFixed:
		return DiscountResult{Amount: models.NewMoneyFromDecimal(decimal.Min(coupon.DiscountValue.Decimal, amount))}, nil
	case constants.CouponTypePercent:
		discount := amount.Mul(coupon.DiscountValue.Decimal).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Decimal.GreaterThan(decimal.Zero) {
			discount = decimal.Min(discount, coupon.MaxDiscount.Decimal)
		}
		discount = decimal.Min(discount, amount)
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		return DiscountResult{Amount: models.NewMoneyFromDecimal(discount)}, nil
	case constants.CouponTypeFreeShip:
		return DiscountResult{Amount: models.NewMoney(0), FreeShip: true}, nil
	default:
		return DiscountResult{}, ErrCouponTypeInvalid
	}
}

// Resolve 按 id+code 或仅 code 查找优惠券
func (s *CouponService) Resolve(couponID uint, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if couponID != 0 {
		coupon, err := s.couponRepo.GetByID(couponID)
		if err != nil {
			return nil, err
		}
		if coupon == nil || (code != "" && !strings.EqualFold(coupon.Code, code)) {
			return nil, ErrCouponNotFound
		}
		return coupon, nil
	}
	if code == "" {
		return nil, ErrCouponNotFound
	}
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Validate 综合查找、资格与折扣计算，业务拒绝不返回 error
func (s *CouponService) Validate(input CouponValidateInput) (*CouponValidation, error) {
	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	subtotal := input.Subtotal
	if subtotal.Decimal.IsZero() && len(input.Items) > 0 {
		subtotal = sumCouponCartItems(input.Items)
	}

	coupon, err := s.Resolve(input.CouponID, input.Code)
	if err != nil {
		return s.reject(input.Locale, nil, err)
	}
	if err := s.CanUseByCustomer(coupon, input.Identity, now); err != nil {
		return s.reject(input.Locale, coupon, err)
	}
	result, err := s.CalculateDiscount(coupon, subtotal)
	if err != nil {
		return s.reject(input.Locale, coupon, err)
	}
	messageKey := "coupon.valid"
	if result.FreeShip {
		messageKey = "coupon.free_ship"
	}
	return &CouponValidation{
		Valid:          true,
		Coupon:         coupon,
		Code:           coupon.Code,
		DiscountAmount: result.Amount,
		FreeShip:       result.FreeShip,
		Message:        i18n.T(input.Locale, messageKey),
	}, nil
}

func (s *CouponService) reject(locale string, coupon *models.Coupon, reason error) (*CouponValidation, error) {
	key, ok := couponRejectionKey(reason)
	if !ok {
		return nil, reason
	}
	validation := &CouponValidation{
		Valid:          false,
		Coupon:         coupon,
		DiscountAmount: models.NewMoney(0),
		Reason:         reason,
		Message:        i18n.T(locale, key),
	}
	if coupon != nil {
		validation.Code = coupon.Code
		if errors.Is(reason, ErrCouponMinAmount) {
			validation.Message = i18n.Sprintf(locale, key, coupon.MinOrderAmount.String())
		}
	}
	return validation, nil
}

var couponRejectionKeys = []struct {
	target error
	key    string
}{
	{target: ErrCouponNotFound, key: "error.coupon_not_found"},
	{target: ErrCouponInactive, key: "error.coupon_inactive"},
	{target: ErrCouponUsageLimit, key: "error.coupon_usage_limit"},
	{target: ErrCouponNotAllowed, key: "error.coupon_not_allowed"},
	{target: ErrCouponPerCustomerLimit, key: "error.coupon_customer_limit"},
	{target: ErrCouponIdentityRequired, key: "error.coupon_identity_required"},
	{target: ErrCouponMinAmount, key: "error.coupon_min_amount"},
	{target: ErrCouponTypeInvalid, key: "error.coupon_type_invalid"},
}

// couponRejectionKey 返回业务拒绝对应的消息键，非业务错误返回 false
func couponRejectionKey(err error) (string, bool) {
	for _, rule := range couponRejectionKeys {
		if errors.Is(err, rule.target) {
			return rule.key, true
		}
	}
	return "", false
}

// RecordUsage 在下单事务内写入使用记录并条件递增使用次数
// 递增会锁定优惠券行，之后在同一事务内复核每人次数，并发下单不会超出限制。
func (s *CouponService) RecordUsage(tx *gorm.DB, coupon *models.Coupon, order *models.Order, identity CouponIdentity, discount models.Money) error {
	if coupon == nil || order == nil {
		return nil
	}
	couponRepo := s.couponRepo.WithTx(tx)
	usageRepo := s.usageRepo.WithTx(tx)

	ok, err := couponRepo.IncrementUsage(coupon.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCouponUsageLimit
	}
	if coupon.UsagePerCustomer > 0 {
		count, err := countCouponUsage(usageRepo, coupon.ID, identity)
		if err != nil {
			return err
		}
		if count >= int64(coupon.UsagePerCustomer) {
			return ErrCouponPerCustomerLimit
		}
	}
	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		OrderID:        order.ID,
		Email:          strings.ToLower(strings.TrimSpace(identity.Email)),
		Phone:          strings.TrimSpace(identity.Phone),
		OrderAmount:    order.Subtotal,
		DiscountAmount: discount,
	}
	if identity.CustomerID != 0 {
		customerID := identity.CustomerID
		usage.CustomerID = &customerID
	}
	if err := usageRepo.Create(usage); err != nil {
		return err
	}
	coupon.CurrentUsageCount++
	return nil
}

// ReleaseUsage 回退订单占用的优惠券次数，使用记录保留并标记回退时间，返回是否存在可回退的记录
func (s *CouponService) ReleaseUsage(tx *gorm.DB, orderID uint) (bool, error) {
	usageRepo := s.usageRepo.WithTx(tx)
	usage, err := usageRepo.GetByOrderID(orderID)
	if err != nil {
		return false, err
	}
	if usage == nil {
		return false, nil
	}
	released, err := usageRepo.MarkReleasedByOrderID(orderID, time.Now())
	if err != nil {
		return false, err
	}
	if released == 0 {
		return false, nil
	}
	if err := s.couponRepo.WithTx(tx).DecrementUsage(usage.CouponID); err != nil {
		return false, err
	}
	return true, nil
}

func sumCouponCartItems(items []CouponCartItem) models.Money {
	total := decimal.Zero
	for _, item := range items {
		if item.Qty <= 0 {
			continue
		}
		total = total.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return models.NewMoneyFromDecimal(total)
}

// TimeWindow 每日可用时段（分钟），End 小于 Start 时表示跨越午夜
type TimeWindow struct {
	Start int
	End   int
}

// ParseTimeRestriction 解析 HH:MM-HH:MM
func ParseTimeRestriction(raw string) (TimeWindow, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return TimeWindow{}, ErrCouponTimeRestrictionInvalid
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return TimeWindow{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return TimeWindow{}, err
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Contains 判断时刻是否落在时段内（含开始，不含结束）
func (w TimeWindow) Contains(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	if w.Start == w.End {
		return true
	}
	if w.Start < w.End {
		return minute >= w.Start && minute < w.End
	}
	return minute >= w.Start || minute < w.End
}

// String 格式化为 HH:MM-HH:MM
func (w TimeWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Start/60, w.Start%60, w.End/60, w.End%60)
}

func parseClock(raw string) (int, error) {
	pieces := strings.Split(strings.TrimSpace(raw), ":")
	if len(pieces) != 2 || len(pieces[0]) != 2 || len(pieces[1]) != 2 {
		return 0, ErrCouponTimeRestrictionInvalid
	}
	hour, err := strconv.Atoi(pieces[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, ErrCouponTimeRestrictionInvalid
	}
	minute, err := strconv.Atoi(pieces[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, ErrCouponTimeRestrictionInvalid
	}
	return hour*60 + minute, nil
}
