package provider

import (
	"time"

	"github.com/bakery-next/internal/cache"
	"github.com/bakery-next/internal/config"
	"github.com/bakery-next/internal/logger"
	"github.com/bakery-next/internal/metrics"
	"github.com/bakery-next/internal/models"
	"github.com/bakery-next/internal/queue"
	"github.com/bakery-next/internal/repository"
	"github.com/bakery-next/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container 依赖注入容器
type Container struct {
	Config          *config.Config
	QueueClient     *queue.Client
	MetricsRegistry *prometheus.Registry
	Metrics         *metrics.Metrics
	CartStore       *cache.CartStore

	// Repositories
	ProductRepo     repository.ProductRepository
	InventoryRepo   repository.InventoryRepository
	OrderRepo       repository.OrderRepository
	CustomerRepo    repository.CustomerRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository

	// Services
	EmailService       *service.EmailService
	InventoryService   *service.InventoryService
	ProductService     *service.ProductService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	MembershipService  *service.MembershipService
	CartService        *service.CartService
	OrderService       *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存，失败时购物车回退到进程内存储
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initMetrics()

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initMetrics() {
	if !c.Config.Metrics.Enabled {
		c.Metrics = metrics.New(nil)
		return
	}
	c.MetricsRegistry = prometheus.NewRegistry()
	c.MetricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.MetricsRegistry)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
}

func (c *Container) initServices() {
	shippingFee, err := models.ParseMoney(c.Config.Order.ShippingFee)
	if err != nil {
		logger.Warnw("provider_shipping_fee_invalid", "shipping_fee", c.Config.Order.ShippingFee, "error", err)
		shippingFee = models.NewMoney(0)
	}
	c.CartStore = cache.NewCartStore(time.Duration(c.Config.Cart.TTLSeconds) * time.Second)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo, c.ProductRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.InventoryService)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.Config.Server.Location())
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.MembershipService = service.NewMembershipService(
		c.CustomerRepo,
		c.OrderRepo,
		service.BuildMembershipTiers(c.Config.Membership.Tiers),
		c.Config.Membership.WindowMonths,
	)
	c.CartService = service.NewCartService(c.CartStore, c.ProductRepo, c.CouponService)
	c.OrderService = service.NewOrderService(service.OrderServiceOptions{
		OrderRepo:             c.OrderRepo,
		ProductRepo:           c.ProductRepo,
		CustomerRepo:          c.CustomerRepo,
		Inventory:             c.InventoryService,
		Coupons:               c.CouponService,
		Membership:            c.MembershipService,
		Carts:                 c.CartService,
		QueueClient:           c.QueueClient,
		Metrics:               c.Metrics,
		NoPrefix:              c.Config.Order.NoPrefix,
		SelfCancelWindowHours: c.Config.Order.SelfCancelWindowHours,
		ShippingFee:           shippingFee,
	})
}
