package adapters

import (
	"context"
	"time"

	"github.com/scanbridge/scanbridge/internal/models"
)

// Capability is one of the three pluggable roles an adapter can fill.
type Capability string

const (
	CapabilitySource Capability = "source"
	CapabilityList   Capability = "list"
	CapabilityBot    Capability = "bot"
)

// Adapter is the base contract every implementation satisfies. Name must be
// unique within a capability; the registry enforces that at startup.
type Adapter interface {
	Name() string
	// NewConfig returns a pointer to a zero value of the adapter's own
	// config struct. The registry decodes the service's raw adapter section
	// into it and validates it before the adapter is handed out.
	NewConfig() any
}

// ShutdownHook is optionally implemented by adapters that hold resources
// worth releasing on graceful termination.
type ShutdownHook interface {
	Shutdown(ctx context.Context) error
}

// SourceAdapter resolves product metadata for an EAN from an external catalog.
type SourceAdapter interface {
	Adapter
	// CacheTTL is how long automatic resolutions from this source stay fresh.
	CacheTTL() time.Duration
	// Find returns the product for a validated EAN, or nil when the catalog
	// does not know it. Errors are reserved for unexpected upstream failures.
	Find(ctx context.Context, ean string, conf any) (*models.Product, error)
}

// ListAdapter is a shopping list destination.
type ListAdapter interface {
	Adapter
	HasProduct(ctx context.Context, product models.Product, conf any) (bool, error)
	AddProduct(ctx context.Context, product models.Product, conf any) error
}

// OnEventFunc handles an inbound chat event and may return a reply to show
// the user.
type OnEventFunc func(ctx context.Context, event models.BotEvent) (*models.BotReply, error)

// BotAdapter is a chat channel used for notifications and manual entry.
type BotAdapter interface {
	Adapter
	Start(ctx context.Context, conf any, onEvent OnEventFunc) error
	SendMessage(ctx context.Context, text string, conf any) error
	// AddCommandExample formats the manual-add instruction shown to users.
	AddCommandExample(ean string) string
}
