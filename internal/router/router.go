package router

import (
	"fmt"
	"strings"

	"github.com/adminsolds/milktea-program-sub000/internal/cache"
	"github.com/adminsolds/milktea-program-sub000/internal/config"
	adminhandlers "github.com/adminsolds/milktea-program-sub000/internal/http/handlers/admin"
	publichandlers "github.com/adminsolds/milktea-program-sub000/internal/http/handlers/public"
	"github.com/adminsolds/milktea-program-sub000/internal/logger"
	"github.com/adminsolds/milktea-program-sub000/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mx"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁，请稍后再试",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 小程序 / POS 接口
		apiV1.POST("/orders", publicHandler.CreateOrder)
		apiV1.GET("/orders", publicHandler.ListOrders)
		apiV1.GET("/orders/:id", publicHandler.GetOrder)
		apiV1.GET("/orders/no/:order_no", publicHandler.GetOrderByNo)
		apiV1.GET("/members/:id", publicHandler.GetMemberProfile)
		apiV1.GET("/members/:id/balance-records", publicHandler.ListMemberBalanceRecords)

		// 外卖平台回调
		apiV1.POST("/delivery/callback", publicHandler.DeliveryCallback)

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login",
				RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")),
				adminHandler.AdminLogin,
			)

			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/profile", adminHandler.AdminProfile)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PUT("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)
				authorized.POST("/orders/:id/refund", adminHandler.AdminRefundOrder)

				authorized.GET("/members", adminHandler.AdminListMembers)
				authorized.GET("/members/:id", adminHandler.AdminGetMember)
				authorized.POST("/members/:id/recharge", adminHandler.AdminRechargeMember)
				authorized.POST("/members/:id/balance/adjust", adminHandler.AdminAdjustBalance)
				authorized.GET("/members/:id/balance/replay", adminHandler.AdminReplayMemberBalance)
				authorized.PUT("/members/:id/growth", adminHandler.AdminSetMemberGrowth)

				authorized.GET("/balance-records", adminHandler.AdminListBalanceRecords)

				authorized.GET("/settings/:key", adminHandler.AdminGetSetting)
				authorized.PUT("/settings/:key", adminHandler.AdminUpdateSetting)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
