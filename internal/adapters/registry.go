package adapters

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-playground/validator/v10"
	"github.com/scanbridge/scanbridge/internal/config"
)

// Registry holds all adapter implementations, keyed by capability and name.
// It is populated once at process start and read-only afterwards, so
// concurrent resolution needs no locking.
type Registry struct {
	adapters map[Capability]map[string]Adapter
	validate *validator.Validate
}

func NewRegistry() *Registry {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Registry{
		adapters: map[Capability]map[string]Adapter{
			CapabilitySource: {},
			CapabilityList:   {},
			CapabilityBot:    {},
		},
		validate: validate,
	}
}

// Register adds an adapter under the given capability. Duplicate names
// within a capability are rejected.
func (r *Registry) Register(capability Capability, adapter Adapter) error {
	byName, ok := r.adapters[capability]
	if !ok {
		return fmt.Errorf("unknown capability %q", capability)
	}
	name := adapter.Name()
	if name == "" {
		return fmt.Errorf("%s adapter with empty name", capability)
	}
	if _, exists := byName[name]; exists {
		return &DuplicateAdapterError{Capability: capability, Name: name}
	}
	byName[name] = adapter
	return nil
}

// ResolveSource returns the source adapter a service selected together with
// its decoded, validated config.
func (r *Registry) ResolveSource(svc *config.ServiceConfig) (SourceAdapter, any, error) {
	adapter, conf, err := r.resolve(CapabilitySource, &svc.Source)
	if err != nil {
		return nil, nil, err
	}
	return adapter.(SourceAdapter), conf, nil
}

// ResolveList returns the list adapter a service selected together with its
// decoded, validated config.
func (r *Registry) ResolveList(svc *config.ServiceConfig) (ListAdapter, any, error) {
	adapter, conf, err := r.resolve(CapabilityList, &svc.List)
	if err != nil {
		return nil, nil, err
	}
	return adapter.(ListAdapter), conf, nil
}

// ResolveBot returns the bot adapter a service selected together with its
// decoded, validated config.
func (r *Registry) ResolveBot(svc *config.ServiceConfig) (BotAdapter, any, error) {
	adapter, conf, err := r.resolve(CapabilityBot, &svc.Bot)
	if err != nil {
		return nil, nil, err
	}
	return adapter.(BotAdapter), conf, nil
}

func (r *Registry) resolve(capability Capability, section *config.AdapterConfig) (Adapter, any, error) {
	adapter, ok := r.adapters[capability][section.AdapterName]
	if !ok {
		return nil, nil, &UnknownAdapterError{Capability: capability, Name: section.AdapterName}
	}

	conf := adapter.NewConfig()
	if err := section.Decode(conf); err != nil {
		return nil, nil, &ConfigValidationError{
			Capability: capability,
			Adapter:    adapter.Name(),
			Fields:     []FieldError{{Field: "(document)", Rule: err.Error()}},
		}
	}

	if err := r.validate.Struct(conf); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, nil, fmt.Errorf("validate %s adapter config: %w", capability, err)
		}
		fields := make([]FieldError, len(verrs))
		for i, fe := range verrs {
			fields[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
		}
		return nil, nil, &ConfigValidationError{
			Capability: capability,
			Adapter:    adapter.Name(),
			Fields:     fields,
		}
	}

	return adapter, conf, nil
}

// ShutdownAll invokes the optional shutdown hook of every registered
// adapter. Hook failures are logged and skipped so one broken adapter never
// blocks the shutdown of the others.
func (r *Registry) ShutdownAll(ctx context.Context) {
	for capability, byName := range r.adapters {
		for name, adapter := range byName {
			hook, ok := adapter.(ShutdownHook)
			if !ok {
				continue
			}
			if err := hook.Shutdown(ctx); err != nil {
				log.Errorw(ctx, "adapter shutdown failed",
					"capability", capability,
					"adapter", name,
					"error", err)
			}
		}
	}
}
