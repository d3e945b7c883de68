package config

import (
	"testing"

	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
services:
  - serviceName: kitchen
    apiToken: secret
    source:
      adapterName: opengtindb
      userid: "400000000"
    list:
      adapterName: bring
      email: user@example.com
      password: hunter2
      listId: 9e0d64a0-3bfa-47f9-9b0c-31b6c4a5b7a1
    bot:
      adapterName: telegram
      botToken: 123:abc
      chatId: "42"
  - serviceName: office
    apiToken: other
    source:
      adapterName: openfoodfacts
    list:
      adapterName: bring
    bot:
      adapterName: telegram
`

func TestParseServices(t *testing.T) {
	services, err := ParseServices([]byte(validDoc))
	require.NoError(t, err)
	require.Len(t, services.All(), 2)

	svc, err := services.Get("kitchen")
	require.NoError(t, err)
	assert.Equal(t, "secret", svc.APIToken)
	assert.Equal(t, "opengtindb", svc.Source.AdapterName)
	assert.Equal(t, "bring", svc.List.AdapterName)
	assert.Equal(t, "telegram", svc.Bot.AdapterName)
}

func TestParseServicesDecodesAdapterSection(t *testing.T) {
	services, err := ParseServices([]byte(validDoc))
	require.NoError(t, err)
	svc, err := services.Get("kitchen")
	require.NoError(t, err)

	var conf struct {
		UserID string `yaml:"userid"`
	}
	require.NoError(t, svc.Source.Decode(&conf))
	assert.Equal(t, "400000000", conf.UserID)
}

func TestGetUnknownService(t *testing.T) {
	services, err := ParseServices([]byte(validDoc))
	require.NoError(t, err)

	_, err = services.Get("garage")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestParseServicesRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing serviceName",
			doc: `
services:
  - apiToken: secret
    source: {adapterName: a}
    list: {adapterName: b}
    bot: {adapterName: c}
`,
			want: "serviceName",
		},
		{
			name: "missing apiToken",
			doc: `
services:
  - serviceName: kitchen
    source: {adapterName: a}
    list: {adapterName: b}
    bot: {adapterName: c}
`,
			want: "apiToken",
		},
		{
			name: "duplicate service name",
			doc: `
services:
  - serviceName: kitchen
    apiToken: one
    source: {adapterName: a}
    list: {adapterName: b}
    bot: {adapterName: c}
  - serviceName: kitchen
    apiToken: two
    source: {adapterName: a}
    list: {adapterName: b}
    bot: {adapterName: c}
`,
			want: "duplicate",
		},
		{
			name: "missing bot section",
			doc: `
services:
  - serviceName: kitchen
    apiToken: secret
    source: {adapterName: a}
    list: {adapterName: b}
`,
			want: "bot adapter",
		},
		{
			name: "adapter section without adapterName",
			doc: `
services:
  - serviceName: kitchen
    apiToken: secret
    source: {userid: "42"}
    list: {adapterName: b}
    bot: {adapterName: c}
`,
			want: "adapterName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServices([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
