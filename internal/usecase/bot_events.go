package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/models"
)

const welcomeMessage = "Hi! Scan a barcode to put the product on your shopping list. " +
	"If a product is unknown, I will ask you to add it manually with `/add <ean>`."

// BotEventRouter turns inbound chat events into orchestrator calls. Errors
// on the manual entry path are converted into reply text so a failed entry
// never takes down the channel's event loop.
type BotEventRouter interface {
	HandleEvent(ctx context.Context, serviceName string, event models.BotEvent) (*models.BotReply, error)
}

type botEventRouter struct {
	orchestrator ScanOrchestrator
}

func NewBotEventRouter(orchestrator ScanOrchestrator) BotEventRouter {
	return &botEventRouter{orchestrator: orchestrator}
}

func (r *botEventRouter) HandleEvent(ctx context.Context, serviceName string, event models.BotEvent) (*models.BotReply, error) {
	switch event.Type {
	case models.BotEventStart:
		return &models.BotReply{Message: welcomeMessage}, nil

	case models.BotEventAdd:
		if event.Product == nil {
			return &models.BotReply{Message: "I did not receive any product data, nothing was added."}, nil
		}
		result, err := r.orchestrator.AddManualProduct(ctx, serviceName, *event.Product)
		if err != nil {
			log.Errorw(ctx, "manual product entry failed",
				"service", serviceName, "ean", event.Product.EAN, "error", err)
			return &models.BotReply{
				Message: fmt.Sprintf("Could not add %s: %v", event.Product.Name, err),
			}, nil
		}
		if result.Outcome == models.ScanSkipped {
			return &models.BotReply{
				Message: fmt.Sprintf("%s is already on your shopping list.", event.Product.Name),
			}, nil
		}
		return &models.BotReply{
			Message: fmt.Sprintf("Added %s to your shopping list.", event.Product.Name),
		}, nil

	default:
		return nil, fmt.Errorf("unhandled bot event type %q", event.Type)
	}
}
