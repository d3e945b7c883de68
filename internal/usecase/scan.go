package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/adapters"
	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/scanbridge/scanbridge/internal/repo/mongodb"
	"github.com/scanbridge/scanbridge/pkg/ean"
	"github.com/scanbridge/scanbridge/pkg/keymutex"
)

// ScanOrchestrator is the single authority for list and cache mutation.
// Both scanned EANs and completed manual entries terminate in its add step.
type ScanOrchestrator interface {
	// Scan resolves an EAN for a service and ensures the product ends up on
	// the service's list exactly once.
	Scan(ctx context.Context, serviceName, code string) (*models.ScanResult, error)
	// AddManualProduct records a user-entered product as always-fresh and
	// puts it on the list.
	AddManualProduct(ctx context.Context, serviceName string, product models.Product) (*models.ScanResult, error)
}

type scanOrchestrator struct {
	services *config.Services
	registry *adapters.Registry
	cache    mongodb.EANCacheRepository
	keys     *keymutex.KeyMutex
}

func NewScanOrchestrator(
	services *config.Services,
	registry *adapters.Registry,
	cache mongodb.EANCacheRepository,
) ScanOrchestrator {
	return &scanOrchestrator{
		services: services,
		registry: registry,
		cache:    cache,
		keys:     keymutex.New(),
	}
}

func (o *scanOrchestrator) Scan(ctx context.Context, serviceName, code string) (*models.ScanResult, error) {
	if !ean.Valid(code) {
		return nil, fmt.Errorf("%q: %w", code, models.ErrInvalidEAN)
	}

	svc, err := o.services.Get(serviceName)
	if err != nil {
		return nil, err
	}

	source, sourceConf, err := o.registry.ResolveSource(svc)
	if err != nil {
		return nil, err
	}
	bot, botConf, err := o.registry.ResolveBot(svc)
	if err != nil {
		return nil, err
	}

	var product models.Product
	fromCache := false

	entry, err := o.cache.Get(ctx, code, svc.ServiceName, source.CacheTTL())
	switch {
	case err == nil:
		// A cache hit short-circuits the source, even a stale-but-manual one.
		product = entry.Product()
		fromCache = true

	case errors.Is(err, models.ErrNotFound):
		found, err := source.Find(ctx, code, sourceConf)
		if err != nil {
			return nil, &models.UpstreamSourceError{Adapter: source.Name(), Err: err}
		}
		if found == nil {
			// Nobody knows this EAN. Ask the user to enter it by hand; that
			// is a soft success, not an error.
			text := fmt.Sprintf(
				"I could not find a product for EAN `%s`. You can add it manually by sending me %s",
				code, bot.AddCommandExample(code),
			)
			if err := bot.SendMessage(ctx, text, botConf); err != nil {
				return nil, fmt.Errorf("send manual entry prompt: %w", err)
			}
			log.Infow(ctx, "ean unknown to source, awaiting manual entry",
				"service", svc.ServiceName, "ean", code, "source", source.Name())
			return &models.ScanResult{Outcome: models.ScanAwaitingManualEntry}, nil
		}
		if err := o.cache.Upsert(ctx, svc.ServiceName, *found, false); err != nil {
			return nil, err
		}
		product = *found

	default:
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	result, err := o.addToList(ctx, svc, product)
	if err != nil {
		return nil, err
	}
	result.FromCache = fromCache
	return result, nil
}

func (o *scanOrchestrator) AddManualProduct(ctx context.Context, serviceName string, product models.Product) (*models.ScanResult, error) {
	svc, err := o.services.Get(serviceName)
	if err != nil {
		return nil, err
	}

	if err := o.cache.Upsert(ctx, svc.ServiceName, product, true); err != nil {
		return nil, err
	}

	return o.addToList(ctx, svc, product)
}

// addToList deduplicates against the destination list, adds the product if
// absent and notifies the chat channel. The check-then-add window is closed
// by serializing on the (service, ean) key.
func (o *scanOrchestrator) addToList(ctx context.Context, svc *config.ServiceConfig, product models.Product) (*models.ScanResult, error) {
	list, listConf, err := o.registry.ResolveList(svc)
	if err != nil {
		return nil, err
	}
	bot, botConf, err := o.registry.ResolveBot(svc)
	if err != nil {
		return nil, err
	}

	key := svc.ServiceName + "/" + product.EAN
	o.keys.Lock(key)
	defer o.keys.Unlock(key)

	has, err := list.HasProduct(ctx, product, listConf)
	if err != nil {
		return nil, fmt.Errorf("list adapter %q: check product: %w", list.Name(), err)
	}
	if has {
		log.Infow(ctx, "product already on list, skipping",
			"service", svc.ServiceName, "ean", product.EAN)
		return &models.ScanResult{Outcome: models.ScanSkipped, Product: &product}, nil
	}

	if err := list.AddProduct(ctx, product, listConf); err != nil {
		return nil, fmt.Errorf("list adapter %q: add product: %w", list.Name(), err)
	}

	// The product is on the list at this point; a failed notification is
	// logged but does not fail the scan.
	if err := bot.SendMessage(ctx, addedMessage(product), botConf); err != nil {
		log.Errorw(ctx, "failed to send added notification",
			"service", svc.ServiceName, "ean", product.EAN, "error", err)
	}

	return &models.ScanResult{Outcome: models.ScanAdded, Product: &product}, nil
}

func addedMessage(product models.Product) string {
	text := fmt.Sprintf("Added *%s*", product.Name)
	if product.Brand != nil {
		text += fmt.Sprintf(" by %s", *product.Brand)
	}
	if product.Extra != nil {
		text += fmt.Sprintf(" (%s)", *product.Extra)
	}
	return text + " to your shopping list."
}
