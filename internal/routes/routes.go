package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"school-payments-backend/internal/auth"
	"school-payments-backend/internal/config"
	handler "school-payments-backend/internal/handlers"
	"school-payments-backend/internal/middleware"
	"school-payments-backend/internal/repository"
	"school-payments-backend/internal/services/accounts"
	"school-payments-backend/internal/services/reconciliation"
	"school-payments-backend/internal/storage"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) error {
	guardianRepo := repository.NewGuardianRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	accountsService := accounts.NewService(guardianRepo, paymentRepo, activityRepo)
	reconService := reconciliation.NewService(paymentRepo, activityRepo)

	receipts, err := storage.NewReceiptStore(cfg.UploadsDir)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.SessionSecret)

	authHandler := handler.NewAuthHandler(accountsService, tokens)
	paymentHandler := handler.NewPaymentHandler(reconService, receipts)
	adminHandler := handler.NewAdminHandler(accountsService)

	if cfg.SeedDemo {
		if err := accountsService.SeedDemoData(); err != nil {
			return err
		}
	}

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Auth routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)

	// Receipt files are addressed by unguessable filename, no session
	// required, matching the upload URL scheme.
	api.GET("/uploads/:filename", paymentHandler.ServeReceipt)

	// Session-scoped routes
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	{
		authed.GET("/me", authHandler.Me)
		authed.GET("/payments", paymentHandler.ListPayments)
		authed.POST("/payments/upload", paymentHandler.UploadReceipt)
		authed.GET("/activity", paymentHandler.ListActivity)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(tokens), middleware.RequireAdmin())
	{
		admin.GET("/guardians", adminHandler.ListGuardians)
	}

	return nil
}
