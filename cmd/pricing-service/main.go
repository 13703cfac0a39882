package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/config"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors"
	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/telemetry"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/pricingrpc"
	"github.com/jcmexdev/ecommerce-pricing/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load("pricing-service")
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

	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	pricingrpc.RegisterPricingServer(grpcServer, pricingrpc.NewServer(store, store))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(pricingrpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	go func() {
		<-ctx.Done()
		slog.Info("shutting down pricing service")
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
	}()

	slog.Info("pricing service gRPC running", "addr", cfg.GRPCAddr)
	if err := grpcServer.Serve(lis); err != nil {
		slog.Error("failed to serve", "error", err)
		os.Exit(1)
	}
}
