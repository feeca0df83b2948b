package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskforge/backend/api/handler"
	"github.com/taskforge/backend/internal/cache"
	"github.com/taskforge/backend/internal/config"
	mongoInfra "github.com/taskforge/backend/internal/infrastructure/mongo"
	"github.com/taskforge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskforge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskforge/backend/internal/infrastructure/redis"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/internal/router"
	"github.com/taskforge/backend/internal/services/lifecycle"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/repository"
	mongoRepo "github.com/taskforge/backend/repository/mongo"
	pgRepo "github.com/taskforge/backend/repository/postgres"
	authUC "github.com/taskforge/backend/usecase/auth"
	labelUC "github.com/taskforge/backend/usecase/label"
	profileUC "github.com/taskforge/backend/usecase/profile"
	taskUC "github.com/taskforge/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		userRepo  repository.UserRepository
		taskRepo  repository.TaskRepository
		labelRepo repository.LabelRepository
		storePing monitor.Pinger
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		userRepo = pgRepo.NewUserRepository(pool)
		taskRepo = pgRepo.NewTaskRepository(pool)
		labelRepo = pgRepo.NewLabelRepository(pool)
		storePing = pool.Ping
	default:
		db, disconnect, err := mongoInfra.Connect(appCtx, cfg.Mongo, zapLogger)
		if err != nil {
			zapLogger.Fatal("mongodb connection failed", zap.Error(err))
		}
		manager.Register("mongodb", disconnect)
		userRepo = mongoRepo.NewUserRepository(db)
		taskRepo = mongoRepo.NewTaskRepository(db)
		labelRepo = mongoRepo.NewLabelRepository(db)
		storePing = func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		}
	}

	var (
		appCache  cache.Cache
		redisPing monitor.Pinger
	)
	if cfg.Cache.Enabled {
		if cfg.Redis.URL != "" {
			redisClient, err := redisInfra.NewClient(cfg.Redis)
			if err != nil {
				zapLogger.Fatal("redis connection failed", zap.Error(err))
			}
			manager.Register("redis", func(ctx context.Context) error {
				return redisClient.Close()
			})
			appCache = cache.NewRedis(redisClient, cfg.AppName+":", zapLogger)
			redisPing = func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}
		} else {
			appCache = cache.NewMemory()
		}
	}

	mon := monitor.New(storePing, redisPing, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	tokens := authUC.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	authUseCase := authUC.New(userRepo, tokens, appCache, cfg.Cache.TTL, zapLogger)
	profileUseCase := profileUC.New(userRepo, appCache, zapLogger)
	taskUseCase := taskUC.New(taskRepo, labelRepo, appCache, cfg.Cache.TTL, zapLogger)
	labelUseCase := labelUC.New(labelRepo, taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Label:   apiHandler.NewLabelHandler(labelUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Authenticate(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      middleware.SecurityHeaders(r.Handler),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
