package config

import (
	"fmt"
	"os"

	"github.com/scanbridge/scanbridge/internal/models"
	"gopkg.in/yaml.v3"
)

// AdapterConfig is one capability section of a service definition. Only the
// adapter name is interpreted at load time; the full document node is kept
// around so the registry can decode it into the chosen adapter's own config
// struct when the adapter is actually resolved. Unknown fields are therefore
// tolerated until an adapter is invoked.
type AdapterConfig struct {
	AdapterName string

	raw yaml.Node
}

func (c *AdapterConfig) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		AdapterName string `yaml:"adapterName"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	if head.AdapterName == "" {
		return fmt.Errorf("adapterName is required")
	}
	c.AdapterName = head.AdapterName
	c.raw = *node
	return nil
}

// Decode unmarshals the raw adapter section into target.
func (c *AdapterConfig) Decode(target any) error {
	return c.raw.Decode(target)
}

// ServiceConfig is one tenant: a name, an API token and one adapter
// selection per capability. Loaded once at startup, immutable afterwards.
type ServiceConfig struct {
	ServiceName string        `yaml:"serviceName"`
	APIToken    string        `yaml:"apiToken"`
	Source      AdapterConfig `yaml:"source"`
	List        AdapterConfig `yaml:"list"`
	Bot         AdapterConfig `yaml:"bot"`
}

type Services struct {
	Services []ServiceConfig `yaml:"services"`
}

// All returns every configured service in document order.
func (s *Services) All() []*ServiceConfig {
	out := make([]*ServiceConfig, len(s.Services))
	for i := range s.Services {
		out[i] = &s.Services[i]
	}
	return out
}

// Get returns the service with the given name, or models.ErrNotFound.
func (s *Services) Get(name string) (*ServiceConfig, error) {
	for i := range s.Services {
		if s.Services[i].ServiceName == name {
			return &s.Services[i], nil
		}
	}
	return nil, fmt.Errorf("service %q: %w", name, models.ErrNotFound)
}

// LoadServices reads and parses the services document.
func LoadServices(path string) (*Services, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read services file: %w", err)
	}
	return ParseServices(data)
}

// ParseServices parses a services document from raw YAML.
func ParseServices(data []byte) (*Services, error) {
	var services Services
	if err := yaml.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("parse services file: %w", err)
	}

	seen := make(map[string]bool, len(services.Services))
	for _, svc := range services.Services {
		if svc.ServiceName == "" {
			return nil, fmt.Errorf("service without serviceName")
		}
		if svc.APIToken == "" {
			return nil, fmt.Errorf("service %q: apiToken is required", svc.ServiceName)
		}
		if seen[svc.ServiceName] {
			return nil, fmt.Errorf("duplicate service name %q", svc.ServiceName)
		}
		seen[svc.ServiceName] = true

		for capability, section := range map[string]AdapterConfig{
			"source": svc.Source,
			"list":   svc.List,
			"bot":    svc.Bot,
		} {
			if section.AdapterName == "" {
				return nil, fmt.Errorf("service %q: %s adapter is not configured", svc.ServiceName, capability)
			}
		}
	}

	return &services, nil
}
