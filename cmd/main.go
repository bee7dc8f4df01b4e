package main

import (
	"context"
	"net/http"
	"time"

	"github.com/davrbek/examgate/config"
	"github.com/davrbek/examgate/database"
	adminctrl "github.com/davrbek/examgate/internal/controller/admin"
	userctrl "github.com/davrbek/examgate/internal/controller/user"
	"github.com/davrbek/examgate/internal/clock"
	"github.com/davrbek/examgate/internal/logger"
	"github.com/davrbek/examgate/internal/middleware"
	"github.com/davrbek/examgate/internal/model"
	"github.com/davrbek/examgate/internal/repository"
	"github.com/davrbek/examgate/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Examgate API
// @version 1.0
// @description Timed examination platform: sessions, automatic grading, manual review.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			func(cfg *config.Config) clock.Clock {
				return clock.NewFixedOffset(cfg.Session.TimezoneOffsetHours)
			},
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewAdminRepository,
			repository.NewTestRepository,
			repository.NewSessionRepository,
			repository.NewResultRepository,
		),

		fx.Provide(
			service.NewUserService,
			service.NewAuthService,
			service.NewTestService,
			service.NewSessionService,
			service.NewGradingService,
			service.NewReviewService,
		),

		fx.Provide(
			userctrl.NewUserController,
			userctrl.NewTestController,
			userctrl.NewSessionController,
			userctrl.NewResultController,
			adminctrl.NewAuthController,
			adminctrl.NewTestController,
			adminctrl.NewSessionController,
			adminctrl.NewReviewController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(BootstrapAdmin),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires every route and owns the server
// lifecycle through fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authSvc service.AuthService,
	userCtrl *userctrl.UserController,
	testCtrl *userctrl.TestController,
	sessionCtrl *userctrl.SessionController,
	resultCtrl *userctrl.ResultController,
	adminAuthCtrl *adminctrl.AuthController,
	adminTestCtrl *adminctrl.TestController,
	adminSessionCtrl *adminctrl.SessionController,
	adminReviewCtrl *adminctrl.ReviewController,
) {
	api := router.Group("/api/v1")
	{
		api.POST("/auth/login", adminAuthCtrl.Login)

		api.POST("/users/register", userCtrl.Register)
		api.GET("/users/telegram/:telegram_id", userCtrl.GetByTelegramID)

		api.GET("/tests/code/:test_code", testCtrl.GetByCode)

		api.POST("/sessions/start", sessionCtrl.StartSession)
		api.GET("/sessions/:token", sessionCtrl.GetSession)
		api.GET("/sessions/:token/status", sessionCtrl.GetStatus)

		api.POST("/results/submit", resultCtrl.Submit)
		api.GET("/results/:result_id", resultCtrl.GetResult)
		api.GET("/results/user/:user_id", resultCtrl.ListUserResults)
	}

	adminAPI := router.Group("/api/v1/admin", middleware.AdminAuth(authSvc))
	{
		adminAPI.POST("/tests", adminTestCtrl.CreateTest)
		adminAPI.GET("/tests", adminTestCtrl.ListTests)
		adminAPI.GET("/tests/:test_id", adminTestCtrl.GetTest)
		adminAPI.PUT("/tests/:test_id", adminTestCtrl.UpdateTest)
		adminAPI.DELETE("/tests/:test_id", adminTestCtrl.DeleteTest)
		adminAPI.POST("/tests/:test_id/extend-all", adminSessionCtrl.ExtendAllSessions)

		adminAPI.GET("/sessions/:test_id/list", adminSessionCtrl.ListSessions)
		adminAPI.POST("/sessions/:session_id/extend", adminSessionCtrl.ExtendSession)
		adminAPI.DELETE("/sessions/:test_id", adminSessionCtrl.ClearSessions)

		adminAPI.GET("/written-answers/pending", adminReviewCtrl.ListPendingWritten)
		adminAPI.POST("/grade-written", adminReviewCtrl.GradeWritten)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Examgate API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.AdminUser{},
		&model.Test{},
		&model.AnswerKey{},
		&model.TestSession{},
		&model.Result{},
		&model.MCQAnswer{},
		&model.WrittenAnswer{},
		&model.WrittenReview{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// BootstrapAdmin makes sure the configured admin account exists before the
// server takes traffic.
func BootstrapAdmin(authSvc service.AuthService) error {
	return authSvc.EnsureBootstrapAdmin()
}
