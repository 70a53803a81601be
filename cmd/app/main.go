package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assist_backend/internal/bot"
	"assist_backend/internal/config"
	"assist_backend/internal/db"
	httpServer "assist_backend/internal/http"
	"assist_backend/internal/http/handlers"
	"assist_backend/internal/http/middleware"
	"assist_backend/internal/logger"
	"assist_backend/internal/migrations"
	"assist_backend/internal/repository"
	"assist_backend/internal/repository/memory"
	"assist_backend/internal/service"
	"assist_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type stores struct {
	users  service.UserStore
	tasks  service.TaskStore
	boards service.BoardStore
	audit  service.AuditStore
	stats  service.StatsStore
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		users:  repository.NewUserRepository(pool),
		tasks:  repository.NewTaskRepository(pool),
		boards: repository.NewBoardRepository(pool),
		audit:  repository.NewAuditRepository(pool),
		stats:  repository.NewStatsRepository(pool),
	}
}

func memoryStores() stores {
	users := memory.NewUserStore()
	tasks := memory.NewTaskStore()
	boards := memory.NewBoardStore()
	return stores{
		users:  users,
		tasks:  tasks,
		boards: boards,
		audit:  memory.NewAuditStore(),
		stats:  memory.NewStatsStore(users, tasks, boards),
	}
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		st     stores
		pinger handlers.Pinger
	)
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		st = memoryStores()
	} else {
		pool := db.Connect(cfg.DatabaseURL, cfg.DatabaseUsername, cfg.DatabasePassword)
		defer pool.Close()

		if cfg.AutoMigrate {
			err := migrations.Apply(context.Background(), pool, func(name string) {
				logger.Info("migration applied", "file", name)
			})
			if err != nil {
				logger.Fatal("migrations failed", "error", err)
			}
		}
		st = postgresStores(pool)
		pinger = pool
	}

	redisClient := middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if redisClient != nil {
		defer redisClient.Close()
	}
	limiter := middleware.NewRateLimiter(redisClient)

	hub := ws.NewHub()
	audit := service.NewAuditService(st.audit)
	auth := service.NewAuthService(st.users, service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL))

	admin := service.NewAdminService(st.stats, audit)

	h := handlers.NewHandler(handlers.Services{
		Auth:      auth,
		Tasks:     service.NewTaskService(st.tasks, service.WithEvents(hub), service.WithAudit(audit)),
		Boards:    service.NewBoardService(st.boards, audit),
		Assistant: service.NewAssistantService(st.tasks),
		Admin:     admin,
		Audit:     audit,
	})

	var adminBot *bot.AdminBot
	if cfg.AdminBotToken != "" {
		b, err := bot.NewAdminBot(cfg.AdminBotToken, admin, cfg.AdminBotIDs)
		if err != nil {
			logger.Error("admin bot disabled", "error", err)
		} else {
			adminBot = b
			go adminBot.Start()
		}
	}

	r := httpServer.NewRouter(httpServer.Options{
		Config:  cfg,
		Handler: h,
		Health:  handlers.NewHealthHandler(pinger, cfg.Version),
		Tokens:  auth,
		Limiter: limiter,
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.Version, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if adminBot != nil {
		adminBot.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
