package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campuseats/internal/config"
	"campuseats/internal/db"
	"campuseats/internal/events"
	"campuseats/internal/httpserver"
	"campuseats/internal/kv"
	cartrepo "campuseats/internal/repository/cart"
	historyrepo "campuseats/internal/repository/history"
	productrepo "campuseats/internal/repository/product"
	storerepo "campuseats/internal/repository/store"
	userrepo "campuseats/internal/repository/user"
	cartsvc "campuseats/internal/service/cart"
	catalogsvc "campuseats/internal/service/catalog"
	checkoutsvc "campuseats/internal/service/checkout"
	orderssvc "campuseats/internal/service/orders"
	usersvc "campuseats/internal/service/user"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	rdb, err := kv.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer rdb.Close()

	cartRepo := cartrepo.NewRedis(rdb, logger)
	historyRepo := historyrepo.NewRedis(rdb, logger)
	storeRepo := storerepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	hub := httpserver.NewHub(logger)

	cartService := cartsvc.New(cartRepo, logger)
	checkoutService := checkoutsvc.New(cartRepo, historyRepo, logger).
		WithFee(cfg.ServiceFeeCents).
		WithNotifier(hub)
	ordersService := orderssvc.New(historyRepo, logger).
		WithNotifier(hub)
	catalogService := catalogsvc.New(storeRepo, productRepo)
	userService := usersvc.New(userRepo, cfg.JWTSecret, cfg.AccessTTL)

	if cfg.RabbitURL != "" {
		broker, err := events.Connect(cfg.RabbitURL, cfg.OrderExchange, cfg.OrderQueue, logger)
		if err != nil {
			logger.Fatalf("connect to rabbitmq: %v", err)
		}
		defer broker.Close()
		if err := broker.SetupQueues(); err != nil {
			logger.Fatalf("setup rabbitmq queues: %v", err)
		}
		go broker.StartConsumer()
		checkoutService = checkoutService.WithEvents(broker)
		ordersService = ordersService.WithEvents(broker)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, rdb, httpserver.Deps{
		CartSvc:        cartService,
		CheckoutSvc:    checkoutService,
		OrdersSvc:      ordersService,
		CatalogSvc:     catalogService,
		UserSvc:        userService,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
