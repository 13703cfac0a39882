// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	ServiceName  string
	LogLevel     string
	OTLPEndpoint string

	HTTPAddr string
	GRPCAddr string

	SQLitePath string
	RedisAddr  string
	CartTTL    time.Duration

	DeliveryFee        decimal.Decimal
	HighValueThreshold decimal.Decimal
	LowStockThreshold  int
	PaymentLimit       decimal.Decimal

	RabbitMQURI string
	NotifyQueue string

	// PricingServiceAddr switches quoting to the remote pricing service.
	PricingServiceAddr string
}

// Load reads the configuration; defaults are tuned for local runs.
func Load(serviceName string) (Config, error) {
	cfg := Config{
		ServiceName:        getEnv("OTEL_SERVICE_NAME", serviceName),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":"+getEnv("PORT", "8080")),
		GRPCAddr:           getEnv("GRPC_ADDR", ":"+getEnv("GRPC_PORT", "9090")),
		SQLitePath:         getEnv("SQLITE_PATH", "./data/shop.db"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RabbitMQURI:        os.Getenv("RABBITMQ_URI"),
		NotifyQueue:        getEnv("NOTIFY_QUEUE", "shop.notifications"),
		PricingServiceAddr: os.Getenv("PRICING_SERVICE_ADDR"),
	}

	var errs []error
	var err error
	if cfg.CartTTL, err = time.ParseDuration(getEnv("CART_TTL", "72h")); err != nil {
		errs = append(errs, fmt.Errorf("CART_TTL: %w", err))
	}
	if cfg.DeliveryFee, err = decimal.NewFromString(getEnv("DELIVERY_FEE", "10")); err != nil {
		errs = append(errs, fmt.Errorf("DELIVERY_FEE: %w", err))
	}
	if cfg.HighValueThreshold, err = decimal.NewFromString(getEnv("HIGH_VALUE_ORDER_THRESHOLD", "500000")); err != nil {
		errs = append(errs, fmt.Errorf("HIGH_VALUE_ORDER_THRESHOLD: %w", err))
	}
	if cfg.PaymentLimit, err = decimal.NewFromString(getEnv("PAYMENT_LIMIT", "0")); err != nil {
		errs = append(errs, fmt.Errorf("PAYMENT_LIMIT: %w", err))
	}
	if cfg.LowStockThreshold, err = strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "20")); err != nil {
		errs = append(errs, fmt.Errorf("LOW_STOCK_THRESHOLD: %w", err))
	}

	if cfg.DeliveryFee.IsNegative() {
		errs = append(errs, errors.New("DELIVERY_FEE: must not be negative"))
	}
	if cfg.PaymentLimit.IsNegative() {
		errs = append(errs, errors.New("PAYMENT_LIMIT: must not be negative"))
	}
	if cfg.CartTTL < 0 {
		errs = append(errs, errors.New("CART_TTL: must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
