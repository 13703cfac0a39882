package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/cart/memstore"
	"github.com/jcmexdev/ecommerce-pricing/internal/cart/redisstore"
	"github.com/jcmexdev/ecommerce-pricing/internal/catalog"
	"github.com/jcmexdev/ecommerce-pricing/internal/checkout"
	"github.com/jcmexdev/ecommerce-pricing/internal/notify"
	"github.com/jcmexdev/ecommerce-pricing/internal/payment"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/cache"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/core/ports"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/infra/adapters/service"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/infra/httpx"
	"github.com/jcmexdev/ecommerce-pricing/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load("shop-api")
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
		slog.Error("failed to create data dir", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()
	notifier := notify.NewNotifier(publisher)

	cartStore, err := newCartStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect cart store", "redis_addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	pricingSvc, closePricing, err := newPricingService(cfg, store)
	if err != nil {
		slog.Error("failed to connect pricing service", "addr", cfg.PricingServiceAddr, "error", err)
		os.Exit(1)
	}
	defer closePricing()

	catalogSvc := catalog.NewService(store, store, store, notifier, cfg.LowStockThreshold)
	carts := cart.NewService(cartStore, store, store, cfg.DeliveryFee)
	checkoutSvc := checkout.NewService(store, carts, payment.NewInMemoryGateway(cfg.PaymentLimit), catalogSvc, notifier,
		checkout.WithSagaLog(store),
		checkout.WithHighValueThreshold(cfg.HighValueThreshold),
	)

	handler := httpx.NewHandler(carts, checkoutSvc, catalogSvc, pricingSvc)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler, cfg.CartTTL),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("shop API running", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down shop API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
}

// newCartStore keeps carts in Redis when REDIS_ADDR is set, in memory otherwise.
func newCartStore(ctx context.Context, cfg config.Config) (cart.Store, error) {
	if cfg.RedisAddr == "" {
		slog.Info("using in-memory cart store", "ttl", cfg.CartTTL)
		return memstore.New(cfg.CartTTL), nil
	}
	c := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		return nil, err
	}
	slog.Info("using redis cart store", "addr", cfg.RedisAddr, "ttl", cfg.CartTTL)
	return redisstore.New(c, cfg.CartTTL), nil
}

// newPublisher publishes notifications to RabbitMQ when RABBITMQ_URI is set.
// A broker that cannot be reached falls back to logging.
func newPublisher(cfg config.Config) (notify.Publisher, func()) {
	if cfg.RabbitMQURI == "" {
		return notify.LogPublisher{}, func() {}
	}
	conn, err := amqp.Dial(cfg.RabbitMQURI)
	if err != nil {
		slog.Warn("rabbitmq unavailable, logging notifications", "error", err)
		return notify.LogPublisher{}, func() {}
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		slog.Warn("rabbitmq channel failed, logging notifications", "error", err)
		return notify.LogPublisher{}, func() {}
	}
	queue, err := notify.DeclareQueue(ch, cfg.NotifyQueue)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		slog.Warn("rabbitmq queue declare failed, logging notifications", "error", err)
		return notify.LogPublisher{}, func() {}
	}
	slog.Info("publishing notifications to rabbitmq", "queue", queue)
	return notify.NewAMQPPublisher(ch, queue), func() {
		_ = ch.Close()
		_ = conn.Close()
	}
}

// newPricingService quotes through the pricing gRPC service when
// PRICING_SERVICE_ADDR is set, in process otherwise.
func newPricingService(cfg config.Config, store *sqlite.Store) (ports.PricingService, func(), error) {
	if cfg.PricingServiceAddr == "" {
		return service.NewLocalPricingService(store, store), func() {}, nil
	}
	conn, err := grpc.NewClient(cfg.PricingServiceAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.PropagateClientInterceptor()),
	)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using remote pricing service", "addr", cfg.PricingServiceAddr)
	return service.NewGRPCPricingClient(conn), func() { _ = conn.Close() }, nil
}
