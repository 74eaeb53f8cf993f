// Package cli provides the Cobra-based posctl command line: catalog and
// client management plus cart checkout against the storefront backend.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/devserver"
	"storefront/internal/logging"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/validation"
	"storefront/pkg/httpapi"
	"storefront/pkg/rabbitmq"
)

// Deps are the services the commands run against.
type Deps struct {
	Products   *services.ProductService
	Catalog    *services.CatalogService
	Clients    *services.ClientService
	Orders     *services.OrderService
	EmployeeID int64
	Logger     *zap.Logger
}

// NewDeps wires the REST repositories over api into services.
func NewDeps(api *httpapi.Client, cfg config.Config, logger *zap.Logger, events services.EventPublisher) *Deps {
	logger = logging.OrNop(logger)
	opts := []repositories.Option{
		repositories.WithPaths(repositories.Paths(cfg.Paths)),
		repositories.WithLogger(logger),
		repositories.WithConcurrency(cfg.Backend.Concurrency),
	}
	products := repositories.NewHTTPProductRepository(api, opts...)
	v := validation.New()

	orderOpts := []services.OrderOption{
		services.WithSettler(services.FixedDelaySettler{Delay: cfg.Checkout.SettleInterval}),
		services.WithTaxRate(cfg.Checkout.TaxRate),
		services.WithLineConcurrency(cfg.Backend.Concurrency),
		services.WithOrderLogger(logger),
	}
	if events != nil {
		orderOpts = append(orderOpts, services.WithEventPublisher(events))
	}

	return &Deps{
		Products:   services.NewProductService(products, v),
		Catalog:    services.NewCatalogService(repositories.NewHTTPServiceRepository(api, products, opts...), v, logger),
		Clients:    services.NewClientService(repositories.NewHTTPClientRepository(api, opts...), v),
		Orders:     services.NewOrderService(repositories.NewHTTPOrderRepository(api, opts...), orderOpts...),
		EmployeeID: cfg.Checkout.EmployeeID,
		Logger:     logger,
	}
}

// Option customises the root command.
type Option func(*app)

// WithDeps injects ready services; configuration loading is skipped.
func WithDeps(d *Deps) Option {
	return func(a *app) { a.deps = d }
}

// WithViper replaces the viper instance configuration is read from.
func WithViper(v *viper.Viper) Option {
	return func(a *app) { a.v = v }
}

type app struct {
	v       *viper.Viper
	deps    *Deps
	closers []io.Closer
}

// NewRootCommand builds the posctl command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{v: viper.New()}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Point-of-sale console for the storefront backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.deps != nil {
				a.deps.Logger = logging.OrNop(a.deps.Logger)
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file")
	flags.String("log-level", "info", "log level")
	flags.String("backend-url", "", "backend base URL")
	flags.Bool("embedded", false, "run against an in-process backend instead of backend-url")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("backend.url", flags.Lookup("backend-url"))
	_ = a.v.BindPFlag("embedded", flags.Lookup("embedded"))

	root.AddCommand(
		a.productsCommand(),
		a.servicesCommand(),
		a.clientsCommand(),
		a.ordersCommand(),
		a.checkoutCommand(),
	)
	return root
}

// Execute runs posctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.v.GetString("config"))
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	var api *httpapi.Client
	if a.v.GetBool("embedded") {
		srv, err := devserver.New(devserver.Options{DevServer: cfg.DevServer, Paths: cfg.Paths, Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to start embedded backend: %w", err)
		}
		a.closers = append(a.closers, srv)
		api, err = httpapi.NewClient(cfg.DevServer.PublicURL, httpapi.WithHTTPClient(srv.Doer()), httpapi.WithLogger(logger))
		if err != nil {
			return err
		}
	} else {
		api, err = httpapi.NewClient(cfg.Backend.BaseURL, httpapi.WithTimeout(cfg.Backend.Timeout), httpapi.WithLogger(logger))
		if err != nil {
			return err
		}
	}

	var events services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, logger)
		if err != nil {
			logger.Warn("order events disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, mq)
			events = mq
		}
	}

	a.deps = NewDeps(api, cfg, logger, events)
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	if a.deps != nil && a.deps.Logger != nil {
		_ = a.deps.Logger.Sync()
	}
	return errors.Join(errs...)
}

// timed logs msg with the elapsed time since start.
func (a *app) timed(msg string, start time.Time, fields ...zap.Field) {
	a.deps.Logger.Info(msg, append(fields, zap.Int64("duration_ms", time.Since(start).Milliseconds()))...)
}
