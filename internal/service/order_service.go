package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/metrics"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/queue"
	"github.com/bakery-next/internal/repository"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// membershipRetryDelay 会员重算失败后经队列重试的延迟
const membershipRetryDelay = 30 * time.Second

// OrderService 订单服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	customerRepo     repository.CustomerRepository
	inventory        *InventoryService
	coupons          *CouponService
	membership       *MembershipService
	carts            *CartService
	queueClient      *queue.Client
	metrics          *metrics.Metrics
	noPrefix         string
	selfCancelWindow time.Duration
	shippingFee      models.Money
	now              func() time.Time
}

// OrderServiceOptions 订单服务依赖
type OrderServiceOptions struct {
	OrderRepo             repository.OrderRepository
	ProductRepo           repository.ProductRepository
	CustomerRepo          repository.CustomerRepository
	Inventory             *InventoryService
	Coupons               *CouponService
	Membership            *MembershipService
	Carts                 *CartService
	QueueClient           *queue.Client
	Metrics               *metrics.Metrics
	NoPrefix              string
	SelfCancelWindowHours int
	ShippingFee           models.Money
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	prefix := strings.TrimSpace(opts.NoPrefix)
	if prefix == "" {
		prefix = constants.DefaultOrderNoPrefix
	}
	windowHours := opts.SelfCancelWindowHours
	if windowHours <= 0 {
		windowHours = constants.DefaultSelfCancelWindowHours
	}
	shippingFee := opts.ShippingFee
	if shippingFee.Decimal.IsNegative() {
		shippingFee = models.NewMoney(0)
	}
	return &OrderService{
		orderRepo:        opts.OrderRepo,
		productRepo:      opts.ProductRepo,
		customerRepo:     opts.CustomerRepo,
		inventory:        opts.Inventory,
		coupons:          opts.Coupons,
		membership:       opts.Membership,
		carts:            opts.Carts,
		queueClient:      opts.QueueClient,
		metrics:          opts.Metrics,
		noPrefix:         prefix,
		selfCancelWindow: time.Duration(windowHours) * time.Hour,
		shippingFee:      shippingFee,
		now:              time.Now,
	}
}

// CreateOrderItem 下单商品行；ProductID 为 0 时为自由行，使用提交的名称与单价
type CreateOrderItem struct {
	ProductID uint
	VariantID uint
	Name      string
	Qty       int
	Price     models.Money
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	CustomerID      uint
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress string
	Note            string
	PaymentMethod   string
	CouponID        uint
	CouponCode      string
	Locale          string
	Items           []CreateOrderItem
}

// StockFailure 预占失败的订单行
type StockFailure struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	Reason    string `json:"reason"`
}

// CreateOrderResult 下单结果：订单已落库，库存与邮件等附带结果单独报告
type CreateOrderResult struct {
	Order          *models.Order  `json:"order"`
	StockReserved  bool           `json:"stock_reserved"`
	StockFailures  []StockFailure `json:"stock_failures"`
	CouponRecorded bool           `json:"coupon_recorded"`
	EmailQueued    bool           `json:"email_queued"`
}

// CreateOrder 创建订单
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if len(input.Items) == 0 {
		return nil, ErrOrderItemsEmpty
	}
	paymentMethod, err := normalizePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	items, err := mergeCreateOrderItems(input.Items)
	if err != nil {
		return nil, err
	}
	details, subtotal, err := s.buildOrderDetails(items, i18n.Normalize(input.Locale))
	if err != nil {
		return nil, err
	}

	identity, err := s.resolveIdentity(input)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var coupon *models.Coupon
	discount := DiscountResult{Amount: models.NewMoney(0)}
	if input.CouponID != 0 || strings.TrimSpace(input.CouponCode) != "" {
		coupon, err = s.coupons.Resolve(input.CouponID, input.CouponCode)
		if err != nil {
			return nil, err
		}
		if err := s.coupons.CanUseByCustomer(coupon, identity, now); err != nil {
			return nil, err
		}
		discount, err = s.coupons.CalculateDiscount(coupon, models.NewMoneyFromDecimal(subtotal))
		if err != nil {
			return nil, err
		}
	}
	allocateDiscount(details, discount.Amount.Decimal)

	shippingFee := s.shippingFee
	if discount.FreeShip {
		shippingFee = models.NewMoney(0)
	}
	subtotalMoney := models.NewMoneyFromDecimal(subtotal)
	order := &models.Order{
		OrderNo:         s.generateOrderNo(),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   identity.Email,
		CustomerPhone:   identity.Phone,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Note:            strings.TrimSpace(input.Note),
		PaymentMethod:   paymentMethod,
		Status:          constants.OrderStatusPending,
		Subtotal:        subtotalMoney,
		DiscountAmount:  discount.Amount,
		ShippingFee:     shippingFee,
		Total:           subtotalMoney.Minus(discount.Amount).Plus(shippingFee),
		FreeShip:        discount.FreeShip,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if identity.CustomerID != 0 {
		customerID := identity.CustomerID
		order.CustomerID = &customerID
	}
	if coupon != nil {
		couponID := coupon.ID
		order.CouponID = &couponID
		order.CouponCode = coupon.Code
	}

	result := &CreateOrderResult{StockFailures: []StockFailure{}}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.Create(order, details); err != nil {
			return err
		}
		if coupon != nil {
			if err := s.coupons.RecordUsage(tx, coupon, order, identity, discount.Amount); err != nil {
				return err
			}
			result.CouponRecorded = true
		}
		failures, err := s.reserveOrderStock(tx, order)
		if err != nil {
			return err
		}
		result.StockFailures = failures
		if len(failures) == 0 {
			if err := orderRepo.Update(order.ID, map[string]interface{}{"stock_reserved": true}); err != nil {
				return err
			}
			order.StockReserved = true
		}
		return nil
	})
	if err != nil {
		if isOrderBusinessError(err) {
			return nil, err
		}
		logger.Errorw("order_create_failed", "order_no", order.OrderNo, "error", err)
		return nil, fmt.Errorf("create order: %w", err)
	}
	result.StockReserved = order.StockReserved

	s.metrics.IncOrderCreated(paymentMethod)
	if coupon != nil {
		s.metrics.IncCouponRedemption(coupon.DiscountType)
	}
	s.clearCartAfterOrder(ctx, order)
	queued, err := enqueueOrderConfirmationEmailTaskIfEligible(s.queueClient, order, input.Locale)
	if err != nil {
		logger.Warnw("order_enqueue_confirmation_email_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
	}
	result.EmailQueued = queued

	result.Order = order
	if full, fetchErr := s.orderRepo.GetByID(order.ID, false); fetchErr == nil && full != nil {
		result.Order = full
	}
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"total", order.Total.String(),
		"stock_reserved", result.StockReserved,
		"stock_failures", len(result.StockFailures),
	)
	return result, nil
}

// reserveOrderStock 逐行预占库存，单行失败通过保存点回滚并记录，不影响订单落库
func (s *OrderService) reserveOrderStock(tx *gorm.DB, order *models.Order) ([]StockFailure, error) {
	inventory := s.inventory.WithTx(tx)
	failures := make([]StockFailure, 0)
	reservedIDs := make([]uint, 0, len(order.Details))
	for i := range order.Details {
		detail := &order.Details[i]
		if detail.ProductID == nil {
			continue
		}
		savepoint := fmt.Sprintf("reserve_line_%d", i)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return nil, err
		}
		_, err := inventory.ReserveStock(StockMovementInput{
			ProductID: *detail.ProductID,
			Qty:       int64(detail.Qty),
			RefType:   constants.StockRefOrder,
			RefID:     order.ID,
			Note:      order.OrderNo,
		})
		if err != nil {
			if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
				return nil, rbErr
			}
			reason := stockFailureReason(err)
			failures = append(failures, StockFailure{
				ProductID: *detail.ProductID,
				Name:      detail.Name,
				Qty:       detail.Qty,
				Reason:    reason,
			})
			s.metrics.IncStockReservationFailure(reason)
			logger.Warnw("order_stock_reserve_failed",
				"order_no", order.OrderNo,
				"product_id", *detail.ProductID,
				"qty", detail.Qty,
				"reason", reason,
				"error", err,
			)
			continue
		}
		detail.Reserved = true
		reservedIDs = append(reservedIDs, detail.ID)
	}
	if err := s.orderRepo.WithTx(tx).MarkDetailsReserved(order.ID, reservedIDs); err != nil {
		return nil, err
	}
	return failures, nil
}

func stockFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrStockInsufficient):
		return "insufficient"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	default:
		return "error"
	}
}

// isOrderBusinessError 下单事务中需要原样返回给调用方的业务错误
func isOrderBusinessError(err error) bool {
	for _, target := range []error{ErrCouponUsageLimit, ErrCouponPerCustomerLimit, ErrCouponNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *OrderService) clearCartAfterOrder(ctx context.Context, order *models.Order) {
	if s.carts == nil || CartTokenFromContext(ctx) == "" {
		return
	}
	if err := s.carts.Clear(ctx); err != nil {
		logger.Warnw("order_cart_clear_failed", "order_no", order.OrderNo, "error", err)
	}
}

// resolveIdentity 会员下单时补全邮箱与电话
func (s *OrderService) resolveIdentity(input CreateOrderInput) (CouponIdentity, error) {
	identity := CouponIdentity{
		CustomerID: input.CustomerID,
		Email:      strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		Phone:      strings.TrimSpace(input.CustomerPhone),
	}
	if identity.CustomerID == 0 || s.customerRepo == nil {
		return identity, nil
	}
	customer, err := s.customerRepo.GetByID(identity.CustomerID)
	if err != nil {
		return identity, err
	}
	if customer == nil {
		return identity, ErrCustomerNotFound
	}
	if identity.Email == "" {
		identity.Email = strings.ToLower(strings.TrimSpace(customer.Email))
	}
	if identity.Phone == "" {
		identity.Phone = strings.TrimSpace(customer.Phone)
	}
	return identity, nil
}

// buildOrderDetails 重新解析商品价格并生成明细
func (s *OrderService) buildOrderDetails(items []CreateOrderItem, locale string) ([]models.OrderDetail, decimal.Decimal, error) {
	details := make([]models.OrderDetail, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		detail := models.OrderDetail{Qty: item.Qty}
		if item.ProductID == 0 {
			name := strings.TrimSpace(item.Name)
			if name == "" || item.Price.Decimal.IsNegative() {
				return nil, decimal.Zero, ErrInvalidOrderItem
			}
			detail.Name = name
			detail.Price = item.Price
		} else {
			product, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if product == nil {
				return nil, decimal.Zero, ErrProductNotFound
			}
			if !product.IsActive {
				return nil, decimal.Zero, ErrProductUnavailable
			}
			productID := product.ID
			detail.ProductID = &productID
			detail.Name = product.NameJSON.Localized(locale)
			detail.Price = product.BasePrice
			if item.VariantID != 0 {
				variant, err := s.productRepo.GetVariant(product.ID, item.VariantID)
				if err != nil {
					return nil, decimal.Zero, err
				}
				if variant == nil || !variant.IsActive {
					return nil, decimal.Zero, ErrVariantNotFound
				}
				variantID := variant.ID
				detail.VariantID = &variantID
				detail.Price = variant.Price
				detail.Name = detail.Name + " - " + variant.Name
			}
		}
		amount := detail.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Qty)))
		detail.Amount = models.NewMoneyFromDecimal(amount)
		detail.Discount = models.NewMoney(0)
		subtotal = subtotal.Add(detail.Amount.Decimal)
		details = append(details, detail)
	}
	return details, subtotal, nil
}

// mergeCreateOrderItems 合并相同商品与规格的订单项，自由行保持独立
func mergeCreateOrderItems(items []CreateOrderItem) ([]CreateOrderItem, error) {
	if len(items) == 0 {
		return nil, ErrOrderItemsEmpty
	}
	merged := make([]CreateOrderItem, 0, len(items))
	indexMap := make(map[string]int)
	for _, item := range items {
		if item.Qty <= 0 {
			return nil, ErrInvalidOrderItem
		}
		if item.ProductID == 0 {
			merged = append(merged, item)
			continue
		}
		key := fmt.Sprintf("%d:%d", item.ProductID, item.VariantID)
		if idx, ok := indexMap[key]; ok {
			merged[idx].Qty += item.Qty
			continue
		}
		indexMap[key] = len(merged)
		merged = append(merged, CreateOrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Qty:       item.Qty,
		})
	}
	return merged, nil
}

// allocateDiscount 按行金额比例分摊折扣，最后一行承担舍入差额
func allocateDiscount(details []models.OrderDetail, discount decimal.Decimal) {
	if discount.LessThanOrEqual(decimal.Zero) || len(details) == 0 {
		return
	}
	total := decimal.Zero
	lastIndex := -1
	for i := range details {
		if details[i].Amount.Decimal.GreaterThan(decimal.Zero) {
			total = total.Add(details[i].Amount.Decimal)
			lastIndex = i
		}
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return
	}
	remaining := decimal.Min(discount, total)
	for i := range details {
		amount := details[i].Amount.Decimal
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		alloc := remaining
		if i != lastIndex {
			alloc = discount.Mul(amount).Div(total).Round(2)
			alloc = decimal.Min(alloc, remaining)
		}
		alloc = decimal.Min(alloc, amount)
		if alloc.IsNegative() {
			alloc = decimal.Zero
		}
		details[i].Discount = models.NewMoneyFromDecimal(alloc)
		remaining = remaining.Sub(alloc)
	}
}

func normalizePaymentMethod(raw string) (string, error) {
	method := strings.ToLower(strings.TrimSpace(raw))
	switch method {
	case "":
		return constants.PaymentMethodCOD, nil
	case constants.PaymentMethodCOD, constants.PaymentMethodBankTransfer:
		return method, nil
	default:
		return "", ErrInvalidInput
	}
}

func (s *OrderService) generateOrderNo() string {
	return s.noPrefix + ulid.Make().String()
}

// UpdateOrderInput 后台更新订单（部分字段）
type UpdateOrderInput struct {
	Status          *int
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	ShippingAddress *string
	Note            *string
	CancelReason    string
}

// UpdateOrder 更新订单，状态流转的副作用与状态写入在同一事务内完成
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint, input UpdateOrderInput, actor string) (*models.Order, error) {
	return s.applyUpdate(ctx, orderID, input, actor, nil)
}

// CancelOrder 后台取消订单
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint, reason, actor string) (*models.Order, error) {
	status := constants.OrderStatusCancelled
	if strings.TrimSpace(actor) == "" {
		actor = constants.CanceledByAdmin
	}
	return s.applyUpdate(ctx, orderID, UpdateOrderInput{Status: &status, CancelReason: reason}, actor, func(order *models.Order) error {
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderAlreadyCancelled
		}
		return nil
	})
}

// CancelMyOrder 顾客自助取消：仅限本人、待处理/处理中且在时限内
func (s *OrderService) CancelMyOrder(ctx context.Context, customerID, orderID uint, reason string) (*models.Order, error) {
	if customerID == 0 {
		return nil, ErrOrderNotFound
	}
	status := constants.OrderStatusCancelled
	return s.applyUpdate(ctx, orderID, UpdateOrderInput{Status: &status, CancelReason: reason}, constants.CanceledByCustomer, func(order *models.Order) error {
		if order.CustomerID == nil || *order.CustomerID != customerID {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderAlreadyCancelled
		}
		if !customerCancellable(order.Status) {
			return ErrOrderCancelNotAllowed
		}
		if s.now().Sub(order.CreatedAt) > s.selfCancelWindow {
			return ErrOrderCancelWindowExpired
		}
		return nil
	})
}

func (s *OrderService) applyUpdate(ctx context.Context, orderID uint, input UpdateOrderInput, actor string, guard func(*models.Order) error) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	var (
		from       int
		to         int
		transition bool
		customerID *uint
	)
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if guard != nil {
			if err := guard(order); err != nil {
				return err
			}
		}
		from = order.Status
		to = order.Status
		customerID = order.CustomerID

		updates := contactUpdates(input)
		if input.Status != nil && *input.Status != order.Status {
			to = *input.Status
			if err := checkOrderTransition(from, to); err != nil {
				return err
			}
			sideEffects, err := s.applyTransitionEffects(tx, order, to, input.CancelReason, actor)
			if err != nil {
				return err
			}
			for key, value := range sideEffects {
				updates[key] = value
			}
			updates["status"] = to
			transition = true
		}
		if len(updates) == 0 {
			return nil
		}
		return orderRepo.Update(order.ID, updates)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(orderID, false)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if transition {
		s.afterTransition(ctx, order, from, to, customerID)
	}
	return order, nil
}

// applyTransitionEffects 在事务内执行流转副作用，返回需要额外写入的字段
func (s *OrderService) applyTransitionEffects(tx *gorm.DB, order *models.Order, to int, reason, actor string) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	now := s.now()
	from := order.Status
	inventory := s.inventory.WithTx(tx)

	if enteringStatus(from, to, constants.OrderStatusDelivered) {
		if _, err := inventory.CommitReserved(constants.StockRefOrder, order.ID); err != nil {
			return nil, err
		}
		updates["delivered_at"] = now
	}
	if enteringStatus(from, to, constants.OrderStatusCancelled) {
		for _, detail := range order.Details {
			if !detail.Reserved || detail.ProductID == nil {
				continue
			}
			if _, err := inventory.ReleaseStock(StockMovementInput{
				ProductID: *detail.ProductID,
				Qty:       int64(detail.Qty),
				RefType:   constants.StockRefOrder,
				RefID:     order.ID,
				Note:      order.OrderNo,
			}); err != nil {
				return nil, err
			}
		}
		if _, err := s.coupons.ReleaseUsage(tx, order.ID); err != nil {
			return nil, err
		}
		if strings.TrimSpace(actor) == "" {
			actor = constants.CanceledBySystem
		}
		updates["cancel_reason"] = strings.TrimSpace(reason)
		updates["canceled_by"] = actor
		updates["canceled_at"] = now
	}
	return updates, nil
}

func contactUpdates(input UpdateOrderInput) map[string]interface{} {
	updates := map[string]interface{}{}
	if input.CustomerName != nil {
		updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerEmail != nil {
		updates["customer_email"] = strings.ToLower(strings.TrimSpace(*input.CustomerEmail))
	}
	if input.CustomerPhone != nil {
		updates["customer_phone"] = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.ShippingAddress != nil {
		updates["shipping_address"] = strings.TrimSpace(*input.ShippingAddress)
	}
	if input.Note != nil {
		updates["note"] = strings.TrimSpace(*input.Note)
	}
	return updates
}

// afterTransition 提交后的附带动作：指标、状态邮件、会员重算，失败仅记录日志
func (s *OrderService) afterTransition(ctx context.Context, order *models.Order, from, to int, customerID *uint) {
	s.metrics.IncOrderTransition(models.OrderStatusText(from), models.OrderStatusText(to))
	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", from,
		"to", to,
	)
	if _, err := enqueueOrderStatusEmailTaskIfEligible(s.queueClient, order, s.customerLocale(customerID)); err != nil {
		logger.Warnw("order_enqueue_status_email_failed",
			"order_id", order.ID,
			"status", to,
			"error", err,
		)
	}
	if customerID != nil && affectsMembership(from, to) {
		s.recomputeMembership(ctx, *customerID)
	}
}

// recomputeMembership 同步重算会员，失败时交给队列重试
func (s *OrderService) recomputeMembership(ctx context.Context, customerID uint) {
	if s.membership == nil || customerID == 0 {
		return
	}
	if _, err := s.membership.Recompute(ctx, customerID); err != nil {
		logger.Warnw("order_membership_recompute_failed", "customer_id", customerID, "error", err)
		if qErr := s.queueClient.EnqueueMembershipRecompute(queue.MembershipRecomputePayload{CustomerID: customerID}, membershipRetryDelay); qErr != nil {
			logger.Warnw("order_enqueue_membership_recompute_failed", "customer_id", customerID, "error", qErr)
		}
	}
}

func (s *OrderService) customerLocale(customerID *uint) string {
	if customerID == nil || s.customerRepo == nil {
		return ""
	}
	customer, err := s.customerRepo.GetByID(*customerID)
	if err != nil || customer == nil {
		return ""
	}
	return customer.Locale
}
