package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gin-gorm-signup/internal/core/cache"
	"gin-gorm-signup/internal/core/config"
	"gin-gorm-signup/internal/core/database"
	"gin-gorm-signup/internal/core/logger"
	"gin-gorm-signup/internal/core/server"
	"gin-gorm-signup/internal/domain"
	"gin-gorm-signup/internal/repo"
	"gin-gorm-signup/internal/service"
	"gin-gorm-signup/internal/transport/http/handler"
	"gin-gorm-signup/internal/transport/http/router"
	"gin-gorm-signup/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, cleanup := logger.Build(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	store, closeStore := mustOpenStore(cfg, log)
	defer closeStore()

	hasher, err := utils.NewHasher(cfg.Password.Algorithm, cfg.Password.BcryptCost, utils.Argon2Params{
		Time:    cfg.Password.Argon2.Time,
		MemoryK: cfg.Password.Argon2.MemoryKB,
		Threads: cfg.Password.Argon2.Threads,
	})
	if err != nil {
		log.Fatal("password hasher", zap.Error(err))
	}

	svc := service.NewRegistrationService(store, hasher, log)
	h := handler.NewSignupHandler(svc)

	mode := gin.DebugMode
	if cfg.App.Env == "prod" {
		mode = gin.ReleaseMode
	}
	r := router.NewAPIEngine(log,
		server.Options{Name: cfg.App.Name, Mode: mode, AllowOrigins: cfg.App.HTTP.AllowOrigins},
		router.Limits{
			MaxConcurrent:  cfg.App.HTTP.MaxConcurrent,
			RequestTimeout: cfg.RequestTimeout(),
			MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
		},
		h,
	)

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	srv.ErrorLog = logger.ToStdLogger(log.Named("http"), zapcore.WarnLevel)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("signup api starting",
		zap.String("addr", addr),
		zap.String("store", cfg.DB.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.String("hasher", hasher.Algorithm),
		zap.String("signup", baseURL+"/api/v1/auth/signup"),
		zap.String("health", baseURL+"/health"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("signup api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("signup api stopped gracefully")
}

// mustOpenStore 按 db.driver 选择存储；redis 开启时外面再包一层存在性缓存
func mustOpenStore(cfg *config.Config, l *zap.Logger) (domain.UserStore, func()) {
	var (
		store   domain.UserStore
		closers []func()
	)

	if cfg.DB.Driver == "memory" {
		l.Warn("using in-memory user store, data is lost on restart")
		store = repo.NewMemoryUserRepo()
	} else {
		db, err := database.NewGorm(database.Opts{
			Driver:             cfg.DB.Driver,
			DSN:                cfg.DB.DSN,
			Username:           cfg.DB.Username,
			Password:           cfg.DB.Password,
			MaxOpenConns:       cfg.DB.MaxOpenConns,
			MaxIdleConns:       cfg.DB.MaxIdleConns,
			ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
			LogLevel:           cfg.DB.LogLevel,
			Logger:             l,
		})
		if err != nil {
			l.Fatal("db open", zap.Error(err))
		}
		l.Info("database connected", zap.String("driver", cfg.DB.Driver))

		if cfg.DB.AutoMigrate {
			if err := repo.Migrate(db); err != nil {
				l.Fatal("automigrate failed", zap.Error(err))
			}
			l.Info("automigrate done")
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
		store = repo.NewUserRepo(db, cfg.QueryTimeout())
	}

	if cfg.Redis.Enabled {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.Ping(ctx); err != nil {
			// 缓存不可用时照常服务，只是每次都查库
			l.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		closers = append(closers, func() { _ = c.Close() })
		store = repo.NewCachedUserRepo(store, c, cfg.ExistsTTL(), l)
	}

	return store, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
