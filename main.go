// Command storefront runs the local storefront backend: the REST API the
// storefront repositories talk to, backed by SQLite or PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/devserver"
	"storefront/internal/logging"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, viper.New(), os.Getenv(config.EnvPrefix+"_CONFIG")); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled.
func run(ctx context.Context, v *viper.Viper, configFile string) error {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	srv, err := devserver.New(devserver.Options{
		DevServer: cfg.DevServer,
		Paths:     cfg.Paths,
		Logger:    logger,
		AccessLog: true,
	})
	if err != nil {
		return err
	}

	if cfg.RabbitMQ.Enabled {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, order events are not consumed", zap.Error(err))
		} else {
			defer mq.Close()
			go func() {
				logger.Info("starting order event consumer")
				if err := mq.ConsumeOrderEvents(ctx, orderEventHandler(logger)); err != nil && ctx.Err() == nil {
					logger.Error("order event consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	return srv.Run(ctx)
}

// orderEventHandler logs the order events published by checkouts.
func orderEventHandler(logger *zap.Logger) rabbitmq.Handler {
	return func(_ context.Context, routingKey string, body []byte) error {
		var event services.OrderEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("decode %s event: %w", routingKey, err)
		}
		logger.Info("order event received",
			zap.String("routing_key", routingKey),
			zap.Int64("order_id", event.OrderID),
			zap.String("status", event.Status),
			zap.Float64("total_price", event.TotalPrice),
			zap.String("invoice_link", event.InvoiceLink),
		)
		return nil
	}
}
