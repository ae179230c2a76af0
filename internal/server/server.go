package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/config"
	"github.com/huy11113/cinetaste-ai/internal/server/middleware"
	v1 "github.com/huy11113/cinetaste-ai/internal/server/v1"
	"github.com/huy11113/cinetaste-ai/internal/server/validator"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the HTTP layer serves.
type Dependencies struct {
	Dishes  v1.DishService
	Models  v1.ModelLister
	Version string
	// FeatureIDs feeds the health report.
	FeatureIDs func() []string
}

type Server struct {
	router *gin.Engine
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func New(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.InitValidator()

	engine := gin.New()
	// multipart bodies beyond this spill to temp files
	engine.MaxMultipartMemory = int64(cfg.Image.MaxBytes) + 1<<20

	engine.Use(middleware.RequestID())
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	engine.Use(middleware.CORS(cfg.Server.CORSOrigins))
	engine.Use(middleware.ErrorHandler(logger))

	s := &Server{
		router: engine,
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
