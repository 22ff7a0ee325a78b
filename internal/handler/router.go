package handler

import (
	"github.com/JosephChoi/investment-report-sub001/internal/config"
	"github.com/JosephChoi/investment-report-sub001/internal/model"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the route tree. Upload routes sit behind the admin
// role gate; report routes only need an authenticated principal.
func SetupRouter(cfg *config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(LoggerMiddleware(), RecoveryMiddleware(), CORSMiddleware())

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(&cfg.Auth))
	{
		admin := api.Group("/admin")
		admin.Use(RequireRole(model.RoleAdmin))
		{
			admin.POST("/uploads/portfolio", h.UploadPortfolio)
			admin.POST("/uploads/overdue", h.UploadOverdue)
			admin.GET("/overdue", h.CurrentOverdueBatch)
		}

		reports := api.Group("/reports")
		reports.Use(RequireRole(model.RoleAdmin, model.RoleCustomer, model.RoleUser))
		{
			reports.GET("/balance", h.CurrentBalance)
			reports.GET("/balance/history", h.BalanceHistory)
		}
	}

	return r
}
