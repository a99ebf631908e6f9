package provider

import (
	"github.com/adminsolds/milktea-program-sub000/internal/cache"
	"github.com/adminsolds/milktea-program-sub000/internal/config"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/models"
	"github.com/adminsolds/milktea-program-sub000/internal/queue"
	"github.com/adminsolds/milktea-program-sub000/internal/repository"
	"github.com/adminsolds/milktea-program-sub000/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	MemberRepo        repository.MemberRepository
	MemberLevelRepo   repository.MemberLevelRepository
	BalanceRecordRepo repository.BalanceRecordRepository
	OrderRepo         repository.OrderRepository
	UserCouponRepo    repository.UserCouponRepository
	SystemConfigRepo  repository.SystemConfigRepository

	// Services
	AuthService     *service.AuthService
	SettingService  *service.SettingService
	MemberService   *service.MemberService
	LedgerService   *service.LedgerService
	OrderService    *service.OrderService
	RefundService   *service.RefundService
	RechargeService *service.RechargeService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.MemberRepo = repository.NewMemberRepository(db)
	c.MemberLevelRepo = repository.NewMemberLevelRepository(db)
	c.BalanceRecordRepo = repository.NewBalanceRecordRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.UserCouponRepo = repository.NewUserCouponRepository(db)
	c.SystemConfigRepo = repository.NewSystemConfigRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.SettingService = service.NewSettingService(c.SystemConfigRepo)
	c.MemberService = service.NewMemberService(c.MemberRepo, c.MemberLevelRepo)
	c.LedgerService = service.NewLedgerService(c.MemberRepo, c.BalanceRecordRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.MemberRepo,
		c.UserCouponRepo,
		c.MemberLevelRepo,
		c.MemberService,
		c.LedgerService,
		c.SettingService,
		c.QueueClient,
	)
	c.RefundService = service.NewRefundService(c.OrderRepo, c.UserCouponRepo, c.LedgerService)
	c.RechargeService = service.NewRechargeService(c.MemberRepo, c.LedgerService, c.MemberService)
}
