package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/recruitportal/internal/config"
	"anoa.com/recruitportal/internal/entity"
	"anoa.com/recruitportal/internal/middleware"
	"anoa.com/recruitportal/pkg/ratelimit"
	"anoa.com/recruitportal/pkg/response"
	"anoa.com/recruitportal/pkg/token"

	applicationHttp "anoa.com/recruitportal/internal/modules/application/delivery/http"
	applicationRepo "anoa.com/recruitportal/internal/modules/application/repository"
	applicationService "anoa.com/recruitportal/internal/modules/application/service"

	errorlogRepo "anoa.com/recruitportal/internal/modules/errorlog/repository"
	errorlogService "anoa.com/recruitportal/internal/modules/errorlog/service"

	userHttp "anoa.com/recruitportal/internal/modules/user/delivery/http"
	userRepo "anoa.com/recruitportal/internal/modules/user/repository"
	userService "anoa.com/recruitportal/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the stores behind the HTTP surface.
type Dependencies struct {
	Users        userRepo.UserRepository
	Applications applicationRepo.ApplicationRepository
	ErrorLogs    errorlogRepo.ErrorLogRepository
	Cooldown     applicationService.Cooldown
	Ping         func(ctx context.Context) error
}

type Server struct {
	engine *gin.Engine
	log    logrus.FieldLogger
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logrus.FieldLogger) *Server {
	return New(cfg, Dependencies{
		Users:        userRepo.NewUserRepository(db),
		Applications: applicationRepo.NewApplicationRepository(db),
		ErrorLogs:    errorlogRepo.NewErrorLogRepository(db),
		Cooldown:     ratelimit.NewCooldown(redisClient),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, log)
}

func New(cfg *config.Config, deps Dependencies, log logrus.FieldLogger) *Server {
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	sink := errorlogService.NewSink(deps.ErrorLogs, log)

	authSvc := userService.NewAuthService(deps.Users, tokens, sink, cfg.BcryptCost, log)
	authHandler := userHttp.NewAuthHandler(authSvc)

	applicationSvc := applicationService.NewApplicationService(deps.Applications, deps.Cooldown, sink, cfg.RateLimitApply, log)
	applicationHandler := applicationHttp.NewApplicationHandler(applicationSvc)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Warn("invalid TRUSTED_PROXIES, forwarding headers ignored")
		_ = router.SetTrustedProxies(nil)
	}

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(response.UseLogger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, log)

	router.GET("/health", health(deps.Ping))

	// Public routes (no auth required)
	router.POST("/login", loginLimiter.Handler(), authHandler.Login)
	router.POST("/register", loginLimiter.Handler(), authHandler.Register)

	protected := router.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/apply", applicationHandler.GetCompetences)
		protected.POST("/apply", authMiddleware.RequireRole(entity.RoleApplicant), applicationHandler.SubmitApplication)

		recruiter := protected.Group("/applications")
		recruiter.Use(authMiddleware.RequireRole(entity.RoleRecruiter))
		{
			recruiter.GET("", applicationHandler.GetApplications)
			recruiter.POST("", applicationHandler.SetApplicationStatus)
		}
	}

	return &Server{engine: router, log: log}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains open requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
