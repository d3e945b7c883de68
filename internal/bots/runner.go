package bots

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/adapters"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/scanbridge/scanbridge/internal/usecase"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// StartBots connects every configured service to its chat channel. Bot
// adapters deliver inbound events to the router, tagged with the service
// they belong to. Connecting a channel needs a roundtrip to the chat
// platform, so services start in parallel.
func StartBots(
	lc fx.Lifecycle,
	services *config.Services,
	registry *adapters.Registry,
	router usecase.BotEventRouter,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			g, ctx := errgroup.WithContext(ctx)
			for _, svc := range services.All() {
				svc := svc
				g.Go(func() error {
					bot, conf, err := registry.ResolveBot(svc)
					if err != nil {
						return fmt.Errorf("service %q: %w", svc.ServiceName, err)
					}

					serviceName := svc.ServiceName
					onEvent := func(ctx context.Context, event models.BotEvent) (*models.BotReply, error) {
						return router.HandleEvent(ctx, serviceName, event)
					}
					if err := bot.Start(ctx, conf, onEvent); err != nil {
						return fmt.Errorf("service %q: start bot %q: %w", serviceName, bot.Name(), err)
					}
					log.Infow(ctx, "bot channel connected",
						"service", serviceName, "adapter", bot.Name())
					return nil
				})
			}
			return g.Wait()
		},
		OnStop: func(ctx context.Context) error {
			registry.ShutdownAll(ctx)
			return nil
		},
	})
}
