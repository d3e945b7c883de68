package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/scanbridge/scanbridge/internal/config"
	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSourceConfig struct {
	AdapterName string `yaml:"adapterName" validate:"required"`
	UserID      string `yaml:"userid" validate:"required"`
}

type fakeSource struct {
	name       string
	shutdowns  *int
	shutdownErr error
}

func (f *fakeSource) Name() string            { return f.name }
func (f *fakeSource) NewConfig() any          { return &fakeSourceConfig{} }
func (f *fakeSource) CacheTTL() time.Duration { return time.Hour }
func (f *fakeSource) Find(ctx context.Context, ean string, conf any) (*models.Product, error) {
	return nil, nil
}
func (f *fakeSource) Shutdown(ctx context.Context) error {
	if f.shutdowns != nil {
		*f.shutdowns++
	}
	return f.shutdownErr
}

func serviceFromYAML(t *testing.T, doc string) *config.ServiceConfig {
	t.Helper()
	services, err := config.ParseServices([]byte(doc))
	require.NoError(t, err)
	svc, err := services.Get("kitchen")
	require.NoError(t, err)
	return svc
}

const kitchenDoc = `
services:
  - serviceName: kitchen
    apiToken: secret
    source:
      adapterName: fake
      userid: "12345"
      futureField: ignored until resolve
    list:
      adapterName: fakelist
    bot:
      adapterName: fakebot
`

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{name: "fake"}))

	err := r.Register(CapabilitySource, &fakeSource{name: "fake"})
	var dup *DuplicateAdapterError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, CapabilitySource, dup.Capability)
	assert.Equal(t, "fake", dup.Name)
}

func TestRegisterSameNameDifferentCapability(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{name: "fake"}))
	assert.NoError(t, r.Register(CapabilityBot, &fakeSource{name: "fake"}))
}

func TestResolveUnknownAdapter(t *testing.T) {
	r := NewRegistry()
	svc := serviceFromYAML(t, kitchenDoc)

	_, _, err := r.ResolveSource(svc)
	var unknown *UnknownAdapterError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "fake", unknown.Name)
}

func TestResolveDecodesAndValidatesConfig(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{name: "fake"}))
	svc := serviceFromYAML(t, kitchenDoc)

	adapter, conf, err := r.ResolveSource(svc)
	require.NoError(t, err)
	assert.Equal(t, "fake", adapter.Name())

	cfg, ok := conf.(*fakeSourceConfig)
	require.True(t, ok)
	assert.Equal(t, "12345", cfg.UserID)
}

func TestResolveConfigValidationError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{name: "fake"}))
	svc := serviceFromYAML(t, `
services:
  - serviceName: kitchen
    apiToken: secret
    source:
      adapterName: fake
    list:
      adapterName: fakelist
    bot:
      adapterName: fakebot
`)

	_, _, err := r.ResolveSource(svc)
	var verr *ConfigValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fake", verr.Adapter)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "userid", verr.Fields[0].Field)
	assert.Equal(t, "required", verr.Fields[0].Rule)
}

func TestShutdownAllContinuesPastFailures(t *testing.T) {
	r := NewRegistry()
	var calls int
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{
		name: "broken", shutdowns: &calls, shutdownErr: errors.New("boom"),
	}))
	require.NoError(t, r.Register(CapabilitySource, &fakeSource{
		name: "ok", shutdowns: &calls,
	}))

	r.ShutdownAll(context.Background())
	assert.Equal(t, 2, calls)
}
