package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/logging"
	cartrepo "storefront/internal/repository/cart"
	memberrepo "storefront/internal/repository/member"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	cartsvc "storefront/internal/service/cart"
	membersvc "storefront/internal/service/member"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
)

const sessionPurgeInterval = time.Hour

func main() {
	cfg, cfgErr := config.FromEnv()
	logger, err := logging.New("api", cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	if cfgErr != nil {
		logger.Fatal("load config", zap.Error(cfgErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, db.PoolOptions{AppName: "api", MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var productCache productsvc.Cache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		defer client.Close()
		productCache = cache.NewProductCache(client, cfg.ProductCacheTTL, logger.Named("cache"))
		logger.Info("product cache enabled", zap.Duration("ttl", cfg.ProductCacheTTL))
	}

	var publisher ordersvc.Publisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		pub, err := events.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange, logger.Named("events"))
		if err != nil {
			logger.Fatal("connect to rabbitmq", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub
		logger.Info("order events enabled", zap.String("exchange", cfg.OrderExchange))
	}

	repoLogger := logger.Named("repo")
	productRepo := productrepo.NewPostgres(dbpool, repoLogger)
	productService := productsvc.New(productRepo, productCache)
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool, repoLogger), productService)
	memberService := membersvc.New(memberrepo.NewPostgres(dbpool, repoLogger), tokenrepo.NewPostgres(dbpool), logger.Named("member"))
	orderService := ordersvc.New(orderrepo.NewPostgres(dbpool, repoLogger), cartService, productService, publisher, logger.Named("order"))

	srv, err := httpserver.New(httpserver.Config{
		Addr:             cfg.HTTPAddr,
		ReadTimeout:      cfg.HTTPReadTimeout,
		WriteTimeout:     cfg.HTTPWriteTimeout,
		IdleTimeout:      cfg.HTTPIdleTimeout,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	}, logger.Named("http"), dbpool, httpserver.Deps{
		MemberSvc:  memberService,
		ProductSvc: productService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	go purgeSessions(ctx, memberService, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func purgeSessions(ctx context.Context, svc *membersvc.Service, logger *zap.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warn("purge expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
