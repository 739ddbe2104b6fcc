// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/api/handlers"
	"github.com/andresuchdata/reorder-advisor/internal/api/middleware"
	"github.com/andresuchdata/reorder-advisor/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Advice    handlers.Advisor
	Products  handlers.ProductLister
	Summaries handlers.SummaryLister
	Chat      handlers.ChatBackend
}

func NewRouter(services *Services, allowedOrigins []string, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", handlers.Health)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Advice != nil {
			adviceHandler := handlers.NewAdviceHandler(services.Advice)
			apiGroup.POST("/advise/:sku", adviceHandler.Advise)
		}

		if services.Products != nil && services.Summaries != nil {
			productHandler := handlers.NewProductHandler(services.Products, services.Summaries)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.GET("/summary", productHandler.Summaries)
			}
		}

		if services.Chat != nil {
			chatHandler := handlers.NewChatHandler(services.Chat)
			chatGroup := apiGroup.Group("/chat")
			{
				chatGroup.POST("", chatHandler.Chat)
				chatGroup.POST("/session", chatHandler.SaveSession)
				chatGroup.GET("/session/:sku", chatHandler.GetSession)
				chatGroup.DELETE("/session/:sku", chatHandler.DeleteSession)
			}
		}
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	cfg := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			cfg.AllowOrigins = nil
			cfg.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			cfg.AllowOrigins = normalizedOrigins
		}
	}
	return cfg
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
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
