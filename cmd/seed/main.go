package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/constants"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/provider"
	"github.com/bakery-next/internal/service"
)

type seedProduct struct {
	slug  string
	vi    string
	en    string
	price int64
	stock int64
}

func main() {
	var printTokens bool
	flag.BoolVar(&printTokens, "tokens", false, "输出演示用顾客与管理员令牌")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container := provider.NewContainer(cfg)

	// 商品与初始库存
	products := []seedProduct{
		{slug: "banh-mi-bo", vi: "Bánh mì bơ", en: "Butter bread", price: 15000, stock: 50},
		{slug: "croissant", vi: "Bánh sừng bò", en: "Croissant", price: 25000, stock: 40},
		{slug: "banh-bong-lan-trung-muoi", vi: "Bông lan trứng muối", en: "Salted egg sponge cake", price: 45000, stock: 30},
		{slug: "tiramisu", vi: "Bánh Tiramisu", en: "Tiramisu", price: 55000, stock: 20},
		{slug: "banh-kem-sinh-nhat", vi: "Bánh kem sinh nhật", en: "Birthday cake", price: 350000, stock: 5},
	}
	for i, item := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", item.slug).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", item.slug)
			continue
		}
		product, err := container.ProductService.Create(service.CreateProductInput{
			Slug: item.slug,
			NameJSON: map[string]interface{}{
				"vi-VN": item.vi,
				"en-US": item.en,
			},
			BasePrice:    models.NewMoney(item.price),
			SortOrder:    len(products) - i,
			InitialStock: item.stock,
		})
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.slug, err)
			continue
		}
		stdLog.Printf("Created product: %s (stock %d)", product.Slug, item.stock)
	}

	// 优惠券
	now := time.Now()
	endOfYear := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, now.Location())
	coupons := []service.CouponInput{
		{
			Code:             "GIAM20K",
			Name:             "Giảm 20.000đ cho đơn từ 100.000đ",
			DiscountType:     constants.CouponTypeFixed,
			DiscountValue:    models.NewMoney(20000),
			MinOrderAmount:   models.NewMoney(100000),
			UsagePerCustomer: 1,
		},
		{
			Code:            "SALE10",
			Name:            "Giảm 10% tối đa 50.000đ",
			DiscountType:    constants.CouponTypePercent,
			DiscountValue:   models.NewMoney(10),
			MaxDiscount:     models.NewMoney(50000),
			TotalUsageLimit: 100,
			EndDate:         &endOfYear,
		},
		{
			Code:            "TOIFREESHIP",
			Name:            "Miễn phí giao hàng buổi tối",
			DiscountType:    constants.CouponTypeFreeShip,
			TimeRestriction: "18:00-22:00",
		},
	}
	for _, item := range coupons {
		coupon, err := container.CouponAdminService.Create(item)
		if errors.Is(err, service.ErrCouponCodeExists) {
			stdLog.Printf("Coupon already exists: %s", item.Code)
			continue
		}
		if err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", item.Code, err)
			continue
		}
		stdLog.Printf("Created coupon: %s", coupon.Code)
	}

	// 演示顾客
	const demoEmail = "khachhang@example.com"
	customer, err := container.CustomerRepo.GetByEmail(demoEmail)
	if err != nil {
		stdLog.Fatalf("Failed to load demo customer: %v", err)
	}
	if customer == nil {
		customer = &models.Customer{Name: "Nguyễn Văn A", Email: demoEmail, Phone: "0901234567"}
		if err := container.CustomerRepo.Create(customer); err != nil {
			stdLog.Fatalf("Failed to create demo customer: %v", err)
		}
		stdLog.Printf("Created customer: %s", demoEmail)
	} else {
		stdLog.Printf("Customer already exists: %s", demoEmail)
	}

	if printTokens {
		customerToken, err := service.SignCustomerToken(cfg.JWT.CustomerSecret, cfg.JWT.Issuer, customer.ID, customer.Email, 24*time.Hour)
		if err != nil {
			stdLog.Fatalf("Failed to sign customer token: %v", err)
		}
		adminToken, err := service.SignAdminToken(cfg.JWT.AdminSecret, cfg.JWT.Issuer, 1, 24*time.Hour)
		if err != nil {
			stdLog.Fatalf("Failed to sign admin token: %v", err)
		}
		fmt.Printf("customer token: %s\nadmin token:    %s\n", customerToken, adminToken)
	}

	stdLog.Printf("Seed completed")
}
