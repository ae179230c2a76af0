package server

import (
	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/server/middleware"
	v1 "github.com/huy11113/cinetaste-ai/internal/server/v1"
	"github.com/huy11113/cinetaste-ai/pkg/api"
)

const serviceName = "cinetaste-ai"

func (s *Server) SetupRoutes() {
	healthHandler := v1.NewHealthHandler(serviceName, s.deps.Version, s.deps.FeatureIDs, s.deps.Models)
	s.router.GET("/health", healthHandler.Health)

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(api.NotFound("No route for " + c.Request.Method + " " + c.Request.URL.Path))
	})

	dishHandler := v1.NewDishHandler(s.deps.Dishes, int64(s.config.Image.MaxBytes))
	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)

	ai := s.router.Group("/api/ai")
	ai.GET("/features", dishHandler.Features)

	generate := ai.Group("")
	generate.Use(middleware.Auth(s.config.Server.APIKeys))
	generate.Use(limiter.Middleware())
	{
		generate.POST("/analyze-dish", dishHandler.AnalyzeDish)
		generate.POST("/modify-recipe", dishHandler.ModifyRecipe)
		generate.POST("/create-by-theme", dishHandler.CreateByTheme)
		generate.POST("/critique-dish", dishHandler.CritiqueDish)
	}
}
