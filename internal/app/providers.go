package app

import (
	"context"
	"fmt"
	"time"

	"github.com/scanbridge/scanbridge/internal/adapters"
	"github.com/scanbridge/scanbridge/internal/adapters/bot/telegram"
	"github.com/scanbridge/scanbridge/internal/adapters/list/bring"
	"github.com/scanbridge/scanbridge/internal/adapters/source/openfoodfacts"
	"github.com/scanbridge/scanbridge/internal/adapters/source/opengtindb"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/repo/mongodb"
	"go.uber.org/fx"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongodb.NewConnection(ctx, cfg.Database.URI, cfg.Database.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newServices(cfg *config.Config) (*config.Services, error) {
	return config.LoadServices(cfg.Services.File)
}

// newRegistry wires up every adapter implementation this build ships with.
// Services select from these by name in the services document.
func newRegistry(sessions mongodb.EntrySessionRepository) (*adapters.Registry, error) {
	registry := adapters.NewRegistry()

	for capability, impls := range map[adapters.Capability][]adapters.Adapter{
		adapters.CapabilitySource: {
			opengtindb.New(),
			openfoodfacts.New(),
		},
		adapters.CapabilityList: {
			bring.New(),
		},
		adapters.CapabilityBot: {
			telegram.New(sessions),
		},
	} {
		for _, impl := range impls {
			if err := registry.Register(capability, impl); err != nil {
				return nil, err
			}
		}
	}

	return registry, nil
}
