package router

import (
	"time"

	"rossx/config"
	"rossx/internal/handler"
	"rossx/internal/middleware"
	"rossx/internal/repository"
	"rossx/internal/service"
	"rossx/internal/session"
	"rossx/internal/ws"
	"rossx/pkg/screenshot"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(
	cfg *config.Config,
	db *gorm.DB,
	shots screenshot.Client,
	sessions *session.Store,
	dispatcher *service.Dispatcher,
	hub *ws.Hub,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	investmentRepo := repository.NewInvestmentRepository(db)
	eventRepo := repository.NewEventRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	locks := service.NewLockManager()
	accountSvc := service.NewAccountService(db, accountRepo, referralRepo)
	depositSvc := service.NewDepositService(db, depositRepo, accountRepo, eventRepo, sessions, locks, dispatcher)
	investmentSvc := service.NewInvestmentService(db, investmentRepo, accountRepo, referralRepo, eventRepo, locks, dispatcher)

	// Handlers
	accountHandler := handler.NewAccountHandler(accountSvc)
	sessionHandler := handler.NewSessionHandler(sessions)
	depositHandler := handler.NewDepositHandler(cfg, depositSvc, shots)
	investmentHandler := handler.NewInvestmentHandler(investmentSvc, sessions)
	adminHandler := handler.NewAdminHandler(cfg, adminRepo, accountRepo, investmentRepo, depositSvc)

	api := r.Group("/api/v1")
	{
		api.POST("/accounts", accountHandler.Create)
		api.GET("/accounts/:id", accountHandler.Get)
		api.GET("/accounts/:id/referrals", accountHandler.ListReferrals)
		api.GET("/accounts/:id/referral-stats", accountHandler.ReferralStats)
		api.GET("/accounts/:id/can-withdraw", accountHandler.CanWithdraw)
		api.GET("/accounts/:id/deposits", depositHandler.ListByAccount)
		api.GET("/accounts/:id/investments", investmentHandler.List)

		api.GET("/accounts/:id/session", sessionHandler.Get)
		api.PUT("/accounts/:id/session", sessionHandler.Put)
		api.DELETE("/accounts/:id/session", sessionHandler.Delete)

		api.GET("/plans", investmentHandler.Plans)

		api.GET("/deposits/instructions", depositHandler.Instructions)
		api.POST("/deposits/begin", depositHandler.Begin)
		api.POST("/deposits", depositHandler.Submit)
		api.POST("/accounts/:id/deposits/screenshot", depositHandler.UploadScreenshot)

		api.POST("/investments", investmentHandler.Create)
		api.POST("/investments/:id/withdraw", investmentHandler.Withdraw)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.GET("/events/ws", ws.UpgradeAdminFeed(&cfg.JWT, hub))

			authed := admin.Group("")
			authed.Use(middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
			{
				authed.GET("/deposits/pending", adminHandler.PendingDeposits)
				authed.POST("/deposits/:id/approve", adminHandler.Approve)
				authed.POST("/deposits/:id/reject", adminHandler.Reject)
				authed.GET("/stats", adminHandler.Stats)
			}
		}
	}

	return r
}
