package server

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobguard/internal/config"
	"jobguard/internal/handler"
	"jobguard/internal/middleware"
	"jobguard/internal/service"
	"jobguard/web"
)

type Server struct {
	router      *gin.Engine
	cfg         *config.Config
	logger      *zap.Logger
	predictions *service.PredictionService
	auth        service.AuthService
}

// NewServer builds the router. auth may be nil when session gating is
// disabled in the config.
func NewServer(cfg *config.Config, predictions *service.PredictionService, auth service.AuthService, logger *zap.Logger) *Server {
	if !cfg.Server.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	s := &Server{
		router:      router,
		cfg:         cfg,
		logger:      logger,
		predictions: predictions,
		auth:        auth,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	pages := handler.NewPageHandler(s.predictions, s.cfg.Auth.Enabled, s.logger)
	api := handler.NewAPIHandler(s.predictions, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// HTML surface, optionally session-gated.
	htmlGroup := s.router.Group("/")
	if s.cfg.Auth.Enabled {
		authHandler := handler.NewAuthHandler(s.auth, s.logger)
		s.router.GET("/admin_login", authHandler.LoginForm)
		s.router.POST("/admin_login", authHandler.Login)
		s.router.GET("/logout", authHandler.Logout)

		htmlGroup.Use(middleware.RequireSessionPage(s.auth, s.logger))
		htmlGroup.GET("/admin_dashboard", pages.Dashboard)
	}
	htmlGroup.GET("/", pages.Home)
	htmlGroup.POST("/predict", pages.Predict)
	htmlGroup.GET("/history", pages.History)

	// JSON API surface.
	apiGroup := s.router.Group("/api")
	corsCfg := cors.DefaultConfig()
	if len(s.cfg.Server.CORSOrigins) > 0 {
		corsCfg.AllowOrigins = s.cfg.Server.CORSOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	apiGroup.Use(cors.New(corsCfg))
	if s.cfg.Auth.Enabled {
		apiGroup.Use(middleware.RequireSessionAPI(s.auth, s.logger))
	}
	apiGroup.POST("/predict", api.Predict)
	apiGroup.GET("/stats", api.Stats)
	apiGroup.GET("/history", api.History)
}

// Router exposes the underlying gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	return s.router.Run(addr)
}
