package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/api/handlers"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/api/middleware"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
)

type Services struct {
	UsageService *service.UsageService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.UsageService != nil {
		usageHandler := handlers.NewUsageHandler(services.UsageService)
		usageGroup := apiGroup.Group("/usage")
		{
			usageGroup.POST("/import", usageHandler.ImportUsage)
			usageGroup.POST("/recalculate", usageHandler.Recalculate)
			usageGroup.POST("/forecast", usageHandler.Forecast)
			usageGroup.GET("/items", usageHandler.GetItems)
			usageGroup.GET("/summary", usageHandler.GetSummary)
			usageGroup.GET("/categories", usageHandler.GetCategories)
			usageGroup.GET("/top", usageHandler.GetTopItems)
			usageGroup.GET("/export", usageHandler.ExportUsage)
		}

		recordsHandler := handlers.NewRecordsHandler(services.UsageService)
		recordsGroup := apiGroup.Group("/records")
		{
			recordsGroup.POST("", recordsHandler.SaveRecord)
			recordsGroup.GET("", recordsHandler.ListRecords)
			recordsGroup.GET("/:id", recordsHandler.GetRecord)
			recordsGroup.DELETE("/:id", recordsHandler.DeleteRecord)
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
