package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/purchase_transactions/cmd/docs"
	portssvc "github.com/SscSPs/purchase_transactions/internal/core/ports/services"
	"github.com/SscSPs/purchase_transactions/internal/dto"
	"github.com/SscSPs/purchase_transactions/internal/middleware"
	"github.com/SscSPs/purchase_transactions/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	RegisterValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if err := setupTransactionRoutes(r, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		slog.Warn("Binding engine is not go-playground/validator; custom tags not registered")
		return
	}
	if err := v.RegisterValidation("transactiondate", validateTransactionDate); err != nil {
		slog.Error("Failed to register transactiondate validator", slog.String("error", err.Error()))
	}
}

func validateTransactionDate(fl validator.FieldLevel) bool {
	_, err := dto.ParseTransactionDate(fl.Field().String())
	return err == nil
}

// setupTransactionRoutes applies rate limiting to the transaction routes when configured.
func setupTransactionRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) error {
	api := r.Group("")
	if cfg.RateLimit != "" {
		limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return err
		}
		api.Use(middleware.RateLimit(limiter))
	}

	RegisterTransactionRoutes(api, services.Transaction)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
