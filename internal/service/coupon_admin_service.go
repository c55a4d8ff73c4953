package service

import (
	"strings"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code                  string
	Name                  string
	DiscountType          string
	DiscountValue         models.Money
	MaxDiscount           models.Money
	MinOrderAmount        models.Money
	StartDate             *time.Time
	EndDate               *time.Time
	TimeRestriction       string
	TotalUsageLimit       int
	UsagePerCustomer      int
	AllowedCustomerEmails []string
	Status                *int
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{Status: constants.CouponStatusActive}
	if err := s.apply(coupon, input); err != nil {
		return nil, err
	}
	exist, err := s.repo.GetByCode(coupon.Code)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCouponCodeExists
	}
	status := coupon.Status
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	// status 列带默认值，零值写入会被替换，需要补写
	if status == constants.CouponStatusDisabled {
		coupon.Status = status
		if err := s.repo.Update(coupon); err != nil {
			return nil, err
		}
	}
	return coupon, nil
}

// Update 更新优惠券，使用计数不受影响
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	if id == 0 {
		return nil, ErrCouponNotFound
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}
	previousCode := existing.Code
	if err := s.apply(existing, input); err != nil {
		return nil, err
	}
	if existing.Code != previousCode {
		dup, err := s.repo.GetByCode(existing.Code)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != existing.ID {
			return nil, ErrCouponCodeExists
		}
	}
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get 获取优惠券详情
func (s *CouponAdminService) Get(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// List 获取优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

func (s *CouponAdminService) apply(coupon *models.Coupon, input CouponInput) error {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return ErrInvalidInput
	}
	couponType := strings.ToLower(strings.TrimSpace(input.DiscountType))
	switch couponType {
	case constants.CouponTypeFixed:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) {
			return ErrCouponValueInvalid
		}
	case constants.CouponTypePercent:
		if input.DiscountValue.Decimal.LessThanOrEqual(decimal.Zero) || input.DiscountValue.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return ErrCouponValueInvalid
		}
	case constants.CouponTypeFreeShip:
	default:
		return ErrCouponTypeInvalid
	}
	if input.MaxDiscount.Decimal.IsNegative() || input.MinOrderAmount.Decimal.IsNegative() {
		return ErrCouponValueInvalid
	}
	if input.TotalUsageLimit < 0 || input.UsagePerCustomer < 0 {
		return ErrInvalidInput
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return ErrInvalidInput
	}
	restriction := strings.TrimSpace(input.TimeRestriction)
	if restriction != "" {
		window, err := ParseTimeRestriction(restriction)
		if err != nil {
			return err
		}
		restriction = window.String()
	}

	emails := make(models.StringArray, 0, len(input.AllowedCustomerEmails))
	for _, email := range input.AllowedCustomerEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || emails.ContainsFold(email) {
			continue
		}
		emails = append(emails, email)
	}

	coupon.Code = code
	coupon.Name = strings.TrimSpace(input.Name)
	coupon.DiscountType = couponType
	coupon.DiscountValue = input.DiscountValue
	coupon.MaxDiscount = input.MaxDiscount
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.StartDate = input.StartDate
	coupon.EndDate = input.EndDate
	coupon.TimeRestriction = restriction
	coupon.TotalUsageLimit = input.TotalUsageLimit
	coupon.UsagePerCustomer = input.UsagePerCustomer
	coupon.AllowedCustomerEmails = emails
	if input.Status != nil {
		if *input.Status != constants.CouponStatusActive && *input.Status != constants.CouponStatusDisabled {
			return ErrInvalidInput
		}
		coupon.Status = *input.Status
	}
	return nil
}
