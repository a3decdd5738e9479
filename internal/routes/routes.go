package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pan-basket-backend/internal/config"
	"pan-basket-backend/internal/handlers"
	"pan-basket-backend/internal/repository"
	"pan-basket-backend/internal/services/auth"
	"pan-basket-backend/internal/services/entries"
	"pan-basket-backend/internal/services/importer"
	"pan-basket-backend/internal/services/ledger"
	"pan-basket-backend/internal/services/payments"
	"pan-basket-backend/internal/services/reporting"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	partyRepo := repository.NewPartyRepository(db)
	entryRepo := repository.NewBasketEntryRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	ledgerService := ledger.NewService(partyRepo, entryRepo, paymentRepo)
	entryService := entries.NewService(partyRepo, entryRepo)
	paymentService := payments.NewService(partyRepo, paymentRepo)
	reportService := reporting.NewService(partyRepo, entryRepo, paymentRepo, ledgerService)
	importEngine := importer.NewEngine(db)
	authService := auth.NewService(userRepo, auth.NewMailer(cfg), cfg)

	partyHandler := handlers.NewPartyHandler(partyRepo)
	entryHandler := handlers.NewBasketEntryHandler(entryService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	importHandler := handlers.NewImportHandler(importEngine, nil, cfg.UploadFolder)
	authHandler := handlers.NewAuthHandler(authService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	wholesalers := api.Group("/wholesalers")
	wholesalers.GET("/", partyHandler.ListWholesalers)
	wholesalers.POST("/", partyHandler.CreateWholesaler)

	panshops := api.Group("/panshops")
	panshops.GET("/", partyHandler.ListPanShops)
	panshops.POST("/", partyHandler.CreatePanShop)

	basketEntries := api.Group("/basket-entries")
	basketEntries.POST("/add", entryHandler.Add)
	basketEntries.GET("", entryHandler.List)
	basketEntries.PUT("/:id", entryHandler.Update)
	basketEntries.DELETE("/:id", entryHandler.Delete)

	pay := api.Group("/payments")
	pay.POST("/", paymentHandler.Add)
	pay.GET("/", paymentHandler.List)
	pay.GET("/wholesaler/:id", paymentHandler.WholesalerBalance)
	pay.GET("/panshop/:id", paymentHandler.PanShopBalance)
	pay.GET("/balance-summary", paymentHandler.BalanceSummary)

	api.GET("/dashboard-summary/", reportHandler.DashboardSummary)
	api.GET("/history/", reportHandler.History)

	// OCR extraction itself is an external collaborator; no engine is
	// wired here, so /upload answers 503 until one is configured.
	ocr := api.Group("/ocr")
	ocr.POST("/upload", importHandler.Upload)
	ocr.POST("/save", importHandler.Save)
	ocr.GET("/batches", importHandler.RecentBatches)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/verify-email/:token", authHandler.VerifyEmail)
	authGroup.POST("/resend-verification", authHandler.ResendVerification)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.GET("/verify-reset-token/:token", authHandler.VerifyResetToken)
	authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
	authGroup.GET("/me", authHandler.RequireAuth(), authHandler.Me)
}
