package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/scanbridge/scanbridge/internal/usecase"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

// ScanEvent is the wire format of one scan published by an edge scanner
// device. Events address a service by name, same as the HTTP API.
type ScanEvent struct {
	Service string `json:"service"`
	EAN     string `json:"ean"`
}

func StartScanConsumer(
	sd fx.Shutdowner,
	lc fx.Lifecycle,
	conf *config.Config,
	orchestrator usecase.ScanOrchestrator,
) {
	if !conf.Kafka.Enabled {
		log.Warnf(context.Background(), "Kafka consumer is disabled in configuration")
		return
	}

	consumer := NewConsumer(conf.Kafka, 4, func(ctx context.Context, msg kafka.Message) error {
		var event ScanEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("unmarshal scan event: %w", err)
		}
		if event.Service == "" || event.EAN == "" {
			return fmt.Errorf("scan event missing service or ean")
		}

		result, err := orchestrator.Scan(ctx, event.Service, event.EAN)
		switch {
		case errors.Is(err, models.ErrInvalidEAN), errors.Is(err, models.ErrNotFound):
			// Bad events are logged and dropped, a retry cannot fix them.
			log.Warnw(ctx, "dropping unprocessable scan event",
				"service", event.Service, "ean", event.EAN, "error", err)
			return nil
		case err != nil:
			return err
		}

		log.Infow(ctx, "processed scan event",
			"service", event.Service, "ean", event.EAN, "outcome", result.Outcome)
		return nil
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := consumer.Start(context.Background()); err != nil {
					log.Errorw(ctx, "kafka consumer stopped", "error", err)
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Stop(ctx)
		},
	})
}
