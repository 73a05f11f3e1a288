package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/api/handlers"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/api/middleware"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Services struct {
	Datasets *service.DatasetService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:  defaultOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Datasets != nil {
		h := handlers.NewDatasetHandler(services.Datasets)

		apiGroup.POST("/data/refresh", h.RefreshCustomers)

		customerGroup := apiGroup.Group("/customers")
		{
			customerGroup.GET("", h.ListCustomers)
			customerGroup.GET("/:slug", h.GetCustomer)
		}

		supplierGroup := apiGroup.Group("/suppliers")
		{
			supplierGroup.POST("/refresh", h.RefreshSuppliers)
			supplierGroup.GET("", h.ListSuppliers)
			supplierGroup.GET("/:slug", h.GetSupplier)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
