package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/tmstore/pkg/admin"
	"github.com/example/tmstore/pkg/cart"
	"github.com/example/tmstore/pkg/catalog"
	"github.com/example/tmstore/pkg/cms"
	"github.com/example/tmstore/pkg/config"
	"github.com/example/tmstore/pkg/contact"
	"github.com/example/tmstore/pkg/discovery"
	"github.com/example/tmstore/pkg/models"
	"github.com/example/tmstore/pkg/notify"
	"github.com/example/tmstore/pkg/order"
	"github.com/example/tmstore/pkg/repository"
	"github.com/example/tmstore/pkg/upload"
	"github.com/example/tmstore/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// .env first, then config file + TMSTORE_* overrides
	_ = godotenv.Load()

	configPath := os.Getenv("TMSTORE_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting storefront API",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// MySQL
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.BlogPost{},
		&models.Page{},
		&models.ContactMessage{},
	); err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	}

	ctx := context.Background()

	// Redis
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	// MongoDB audit trail
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoRepo.Close(closeCtx)
	}()

	// Register instance in etcd, continue without discovery if it is down
	registrar, err := discovery.NewRegistrar(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		registrar = nil
	} else {
		if err := registrar.Register(ctx, cfg.Server.Name, cfg.Server.Host, cfg.Server.Port); err != nil {
			logger.Warn("Failed to register instance", zap.Error(err))
		}
	}

	// Order confirmation actor
	notifier, err := notify.NewActorNotifier(logger)
	if err != nil {
		logger.Fatal("Failed to start notifier", zap.Error(err))
	}
	defer notifier.Shutdown()

	// Wiring
	catalogRepo := catalog.NewRepository(db, redisRepo, logger)
	orderSvc := order.NewService(db, notifier, mongoRepo, logger)
	reorderSvc := admin.NewService(mongoRepo, logger)
	reorderSvc.RegisterResource("products", admin.NewGormStore(db, &models.Product{}, "name"))
	reorderSvc.RegisterResource("categories", admin.NewGormStore(db, &models.Category{}, "name"))

	srv := server.NewServer(cfg, logger, server.Deps{
		Catalog:  catalogRepo,
		Carts:    cart.NewRedisStore(redisRepo, cfg.Redis.CartTTL),
		Orders:   orderSvc,
		CMS:      cms.NewRepository(db),
		Contacts: contact.NewRepository(db),
		Reorder:  reorderSvc,
		Audit:    reorderSvc,
		Uploads:  upload.NewSaver(&cfg.Upload),
	})
	srv.SetupRoutes()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Storefront API started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if registrar != nil {
		if err := registrar.Deregister(ctx); err != nil {
			logger.Error("Failed to deregister instance", zap.Error(err))
		}
		registrar.Close()
	}

	logger.Info("Storefront API stopped")
}
