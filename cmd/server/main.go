package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cbt-server/internal/auth"
	"cbt-server/internal/config"
	apphttp "cbt-server/internal/http"
	"cbt-server/internal/repository/mongodb"
	"cbt-server/internal/service"
	"cbt-server/internal/token"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		logger.Fatalf("JWT_SECRET is required")
	}
	if cfg.Database.Type != "mongodb" {
		logger.Fatalf("unsupported DB_TYPE %q: only mongodb is implemented", cfg.Database.Type)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn := mongodb.NewConnector(cfg, logger)
	if err := conn.Connect(ctx, cfg); err != nil {
		// degraded startup: store routes fail at call time, health reports 503
		logger.Warnf("starting degraded: %v", err)
	}

	userRepo := mongodb.NewUserRepository(conn)
	examRepo := mongodb.NewExamRepository(conn)
	questionRepo := mongodb.NewQuestionRepository(conn)
	resultRepo := mongodb.NewResultRepository(conn)

	if conn.State() == mongodb.StateConnected {
		for name, init := range map[string]func(context.Context) error{
			"users":     userRepo.Init,
			"exams":     examRepo.Init,
			"questions": questionRepo.Init,
			"results":   resultRepo.Init,
		} {
			if err := init(ctx); err != nil {
				logger.Warnf("init %s repository: %v", name, err)
			}
		}
	}

	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshExpiresIn)
	admin, err := auth.NewBootstrapAdmin(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		logger.Fatalf("provision bootstrap admin: %v", err)
	}

	userService := service.NewUserService(userRepo)
	examService := service.NewExamService(examRepo)
	questionService := service.NewQuestionService(questionRepo)
	resultService := service.NewResultService(resultRepo)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := apphttp.NewHandler(
		userService,
		examService,
		questionService,
		resultService,
		tokens,
		admin,
		conn.Health,
		apphttp.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
		cfg.Server.Env,
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if err := conn.Disconnect(shutdownCtx); err != nil {
		logger.Warnf("mongodb disconnect: %v", err)
	}

	logger.Info("bye")
}
