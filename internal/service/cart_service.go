package service

import (
	"context"
	"strings"
	"time"

	"github.com/bakery-next/internal/cache"
	"github.com/bakery-next/internal/i18n"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/repository"
)

type cartTokenContextKey struct{}

// WithCartToken 将购物车会话令牌写入上下文
func WithCartToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, cartTokenContextKey{}, strings.TrimSpace(token))
}

// CartTokenFromContext 读取上下文中的购物车会话令牌
func CartTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(cartTokenContextKey{}).(string)
	return token
}

// CartService 会话购物车服务
type CartService struct {
	store       *cache.CartStore
	productRepo repository.ProductRepository
	coupons     *CouponService
}

// NewCartService 创建购物车服务
func NewCartService(store *cache.CartStore, productRepo repository.ProductRepository, coupons *CouponService) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
		coupons:     coupons,
	}
}

// CartItemInput 加购输入
type CartItemInput struct {
	ProductID uint
	VariantID uint
	Qty       int
	Locale    string
}

// CartView 购物车视图（每次读取时重算优惠）
type CartView struct {
	Token          string           `json:"token"`
	Items          []cache.CartItem `json:"items"`
	ItemCount      int              `json:"item_count"`
	Subtotal       models.Money     `json:"subtotal"`
	CouponCode     string           `json:"coupon_code,omitempty"`
	DiscountAmount models.Money     `json:"discount_amount"`
	FreeShip       bool             `json:"free_ship"`
	Total          models.Money     `json:"total"`
	Message        string           `json:"message,omitempty"`
}

// GetCart 读取购物车，优惠券失效时自动移除并返回提示
func (s *CartService) GetCart(ctx context.Context, identity CouponIdentity, locale string) (*CartView, error) {
	token, err := requireCartToken(ctx)
	if err != nil {
		return nil, err
	}
	var view *CartView
	err = s.store.WithLock(ctx, token, func() error {
		state, err := s.store.Load(ctx, token)
		if err != nil {
			return err
		}
		view, err = s.render(ctx, state, identity, locale)
		return err
	})
	return view, err
}

// UpsertItem 设置商品数量，数量小于等于 0 时移除
func (s *CartService) UpsertItem(ctx context.Context, input CartItemInput, identity CouponIdentity) (*CartView, error) {
	token, err := requireCartToken(ctx)
	if err != nil {
		return nil, err
	}
	if input.ProductID == 0 {
		return nil, ErrInvalidOrderItem
	}
	var line *cache.CartItem
	if input.Qty > 0 {
		line, err = s.resolveLine(input)
		if err != nil {
			return nil, err
		}
	}

	var view *CartView
	err = s.store.WithLock(ctx, token, func() error {
		state, err := s.store.Load(ctx, token)
		if err != nil {
			return err
		}
		state.Items = upsertCartLine(state.Items, input.ProductID, input.VariantID, line)
		if err := s.touch(ctx, state); err != nil {
			return err
		}
		view, err = s.render(ctx, state, identity, input.Locale)
		return err
	})
	return view, err
}

// RemoveItem 移除某商品的全部购物车行
func (s *CartService) RemoveItem(ctx context.Context, productID uint, identity CouponIdentity, locale string) (*CartView, error) {
	token, err := requireCartToken(ctx)
	if err != nil {
		return nil, err
	}
	var view *CartView
	err = s.store.WithLock(ctx, token, func() error {
		state, err := s.store.Load(ctx, token)
		if err != nil {
			return err
		}
		kept := state.Items[:0]
		for _, item := range state.Items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		state.Items = kept
		if err := s.touch(ctx, state); err != nil {
			return err
		}
		view, err = s.render(ctx, state, identity, locale)
		return err
	})
	return view, err
}

// ApplyCoupon 校验并绑定优惠券；业务拒绝时返回 Valid=false 且不修改购物车
func (s *CartService) ApplyCoupon(ctx context.Context, code string, identity CouponIdentity, locale string) (*CartView, *CouponValidation, error) {
	token, err := requireCartToken(ctx)
	if err != nil {
		return nil, nil, err
	}
	var (
		view       *CartView
		validation *CouponValidation
	)
	err = s.store.WithLock(ctx, token, func() error {
		state, err := s.store.Load(ctx, token)
		if err != nil {
			return err
		}
		if len(state.Items) == 0 {
			return ErrCartEmpty
		}
		validation, err = s.coupons.Validate(CouponValidateInput{
			Code:     code,
			Items:    toCouponCartItems(state.Items),
			Identity: identity,
			Locale:   locale,
		})
		if err != nil {
			return err
		}
		if validation.Valid {
			state.CouponID = validation.Coupon.ID
			state.CouponCode = validation.Coupon.Code
			if err := s.touch(ctx, state); err != nil {
				return err
			}
		}
		view, err = s.render(ctx, state, identity, locale)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return view, validation, nil
}

// RemoveCoupon 解绑优惠券
func (s *CartService) RemoveCoupon(ctx context.Context, identity CouponIdentity, locale string) (*CartView, error) {
	token, err := requireCartToken(ctx)
	if err != nil {
		return nil, err
	}
	var view *CartView
	err = s.store.WithLock(ctx, token, func() error {
		state, err := s.store.Load(ctx, token)
		if err != nil {
			return err
		}
		state.CouponID = 0
		state.CouponCode = ""
		if err := s.touch(ctx, state); err != nil {
			return err
		}
		view, err = s.render(ctx, state, identity, locale)
		if view != nil {
			view.Message = i18n.T(locale, "coupon.removed")
		}
		return err
	})
	return view, err
}

// Clear 清空上下文会话的购物车
func (s *CartService) Clear(ctx context.Context) error {
	token, err := requireCartToken(ctx)
	if err != nil {
		return err
	}
	return s.store.WithLock(ctx, token, func() error {
		return s.store.Delete(ctx, token)
	})
}

func requireCartToken(ctx context.Context) (string, error) {
	token := CartTokenFromContext(ctx)
	if token == "" {
		return "", ErrCartTokenMissing
	}
	return token, nil
}

func (s *CartService) touch(ctx context.Context, state *cache.CartState) error {
	state.UpdatedAt = time.Now().Unix()
	return s.store.Save(ctx, state)
}

func (s *CartService) resolveLine(input CartItemInput) (*cache.CartItem, error) {
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	name := product.NameJSON.Localized(i18n.Normalize(input.Locale))
	price := product.BasePrice
	if input.VariantID != 0 {
		variant, err := s.productRepo.GetVariant(product.ID, input.VariantID)
		if err != nil {
			return nil, err
		}
		if variant == nil || !variant.IsActive {
			return nil, ErrVariantNotFound
		}
		price = variant.Price
		name = name + " - " + variant.Name
	}
	return &cache.CartItem{
		ProductID: product.ID,
		VariantID: input.VariantID,
		Name:      name,
		Qty:       input.Qty,
		Price:     price,
	}, nil
}

// render 计算小计与优惠，失效优惠券从会话中移除
func (s *CartService) render(ctx context.Context, state *cache.CartState, identity CouponIdentity, locale string) (*CartView, error) {
	view := &CartView{
		Token:          state.Token,
		Items:          state.Items,
		DiscountAmount: models.NewMoney(0),
	}
	if view.Items == nil {
		view.Items = []cache.CartItem{}
	}
	for _, item := range state.Items {
		view.ItemCount += item.Qty
	}
	view.Subtotal = sumCouponCartItems(toCouponCartItems(state.Items))

	if state.CouponID != 0 || state.CouponCode != "" {
		validation, err := s.coupons.Validate(CouponValidateInput{
			CouponID: state.CouponID,
			Code:     state.CouponCode,
			Subtotal: view.Subtotal,
			Identity: identity,
			Locale:   locale,
		})
		if err != nil {
			return nil, err
		}
		if validation.Valid {
			view.CouponCode = validation.Code
			view.DiscountAmount = validation.DiscountAmount
			view.FreeShip = validation.FreeShip
		} else {
			dropped := state.CouponCode
			state.CouponID = 0
			state.CouponCode = ""
			if err := s.touch(ctx, state); err != nil {
				logger.Warnw("cart_coupon_drop_save_failed", "token", state.Token, "error", err)
			}
			view.Message = i18n.Sprintf(locale, "cart.coupon_dropped", dropped)
		}
	}
	view.Total = view.Subtotal.Minus(view.DiscountAmount)
	return view, nil
}

func upsertCartLine(items []cache.CartItem, productID, variantID uint, line *cache.CartItem) []cache.CartItem {
	for i := range items {
		if items[i].ProductID != productID || items[i].VariantID != variantID {
			continue
		}
		if line == nil {
			return append(items[:i], items[i+1:]...)
		}
		items[i] = *line
		return items
	}
	if line == nil {
		return items
	}
	return append(items, *line)
}

func toCouponCartItems(items []cache.CartItem) []CouponCartItem {
	result := make([]CouponCartItem, 0, len(items))
	for _, item := range items {
		result = append(result, CouponCartItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
		})
	}
	return result
}
