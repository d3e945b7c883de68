package adapters

import (
	"fmt"
	"strings"
)

// DuplicateAdapterError means two adapters were registered under the same
// name within one capability. This is a startup miswiring and fatal.
type DuplicateAdapterError struct {
	Capability Capability
	Name       string
}

func (e *DuplicateAdapterError) Error() string {
	return fmt.Sprintf("duplicate %s adapter name %q", e.Capability, e.Name)
}

// UnknownAdapterError means a service selected an adapter name that no
// implementation was registered for.
type UnknownAdapterError struct {
	Capability Capability
	Name       string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("no %s adapter registered with name %q", e.Capability, e.Name)
}

// FieldError is a single field-level diagnostic from config validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s (%s)", e.Field, e.Rule)
}

// ConfigValidationError means a service's adapter section does not satisfy
// the chosen adapter's config schema. Fatal for that tenant.
type ConfigValidationError struct {
	Capability Capability
	Adapter    string
	Fields     []FieldError
}

func (e *ConfigValidationError) Error() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("invalid config for %s adapter %q: %s",
		e.Capability, e.Adapter, strings.Join(fields, ", "))
}
