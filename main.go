package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"vtuber_wiki/internal/api"
	"vtuber_wiki/internal/auth"
	"vtuber_wiki/internal/logger"
	"vtuber_wiki/internal/middleware"
	"vtuber_wiki/internal/models"
	"vtuber_wiki/internal/repository"
	"vtuber_wiki/internal/service"
	"vtuber_wiki/internal/storage"
	"vtuber_wiki/pkg/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))
	gin.SetMode(cfg.Server.Mode)

	// 初始化 repositories
	repos, closeStore, err := openRepositories(cfg.DB)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 初始化 services
	services := service.NewServices(repos, cfg.Server.MaxBatchSize)

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		slog.Error("Failed to initialize auth verifier", "error", err)
		os.Exit(1)
	}

	// 設置 Gin 路由
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())
	api.SetupRoutes(r, services, verifier, api.RouteOptions{MetricsEnabled: cfg.Server.MetricsEnabled})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "address", cfg.Server.Address, "db_driver", cfg.DB.Driver, "auth_mode", cfg.Auth.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to run server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// openRepositories 依 db.driver 選擇儲存後端，回傳的 close 函式在結束時呼叫
func openRepositories(cfg config.DBConfig) (*repository.Repositories, func(), error) {
	if cfg.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage; data is lost on restart")
		return repository.NewMemoryRepositories(), func() {}, nil
	}

	db, err := storage.NewPostgresDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	// 自動遷移資料表結構
	if err := db.AutoMigrate(cfg.Table, &models.VTuber{}); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}
	return repository.NewRepositories(db, cfg.Table), closeFn, nil
}
