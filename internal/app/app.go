// Package app assembles the storefront core from configuration. Both the
// HTTP server and the CLI build on it.
package app

import (
	"context"
	"fmt"

	"storefront/config"
	"storefront/internal/broker"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/filter"
	"storefront/internal/localstore"
	"storefront/internal/persist"
	"storefront/internal/redisclient"
	"storefront/internal/service"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// App holds the wired components
type App struct {
	Catalog   *catalog.Catalog
	Cart      *cart.Store
	Persister *persist.Middleware
	Filters   *filter.Provider
	Service   *service.CartService
	Publisher *broker.EventPublisher

	closers []func() error
	logger  *zap.Logger
}

// New builds the storefront: catalog, storage, hydrated cart store with its
// persistence subscription, filter provider and cart service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{logger: util.GetLogger()}

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Catalog = cat

	storage, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, storage.Close)

	a.Persister = persist.NewMiddleware(storage, cfg.Storage.Key)
	a.Cart = cart.NewStore(a.Persister.Hydrate(ctx))
	a.Cart.Subscribe(a.Persister.Observe)

	a.Filters = filter.NewProvider()

	notifiers := []service.Notifier{service.NewLogNotifier(a.logger)}
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCart)
		a.closers = append(a.closers, producer.Close)
		a.Publisher = broker.NewEventPublisher(producer)
		a.Cart.Subscribe(a.Publisher.OnCartAction)
		notifiers = append(notifiers, a.Publisher)
		a.logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicCart))
	}

	a.Service = service.NewCartService(a.Cart, a.Catalog, notifiers...)
	return a, nil
}

// Close releases storage and broker connections in reverse order
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func loadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Database.URL == "" {
		return catalog.Default()
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.LoadCatalog(ctx)
}

func openStorage(cfg *config.Config) (persist.Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageBadger:
		lc := localstore.DefaultConfig(cfg.Storage.Path)
		if cfg.Storage.InMemory {
			lc = localstore.InMemoryConfig()
		}
		s, err := localstore.Open(lc)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageRedis:
		c, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
