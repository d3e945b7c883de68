package bring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scanbridge/scanbridge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listID = "11111111-2222-3333-4444-555555555555"

func newServer(t *testing.T, items []listItem, saved *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bringauth", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"uuid":         "user-uuid",
			"access_token": "token",
		})
	})
	mux.HandleFunc("/bringlists/"+listID, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"purchase": items})
		case http.MethodPut:
			require.NoError(t, r.ParseForm())
			*saved = append(*saved, r.PostForm.Get("purchase")+"|"+r.PostForm.Get("specification"))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	return httptest.NewServer(mux)
}

func testConfig() *Config {
	return &Config{
		AdapterName: "bring",
		Email:       "someone@example.com",
		Password:    "secret",
		ListID:      listID,
	}
}

func TestHasProduct(t *testing.T) {
	brand := "Ferrero"
	var saved []string
	srv := newServer(t, []listItem{{Name: "Nutella", Specification: "Ferrero"}}, &saved)
	defer srv.Close()

	adapter := New()
	adapter.baseURL = srv.URL

	has, err := adapter.HasProduct(context.Background(), models.Product{
		EAN: "4006381333931", Name: "Nutella", Brand: &brand,
	}, testConfig())
	require.NoError(t, err)
	assert.True(t, has)

	// Same name, different specification is a different list entry.
	has, err = adapter.HasProduct(context.Background(), models.Product{
		EAN: "4006381333931", Name: "Nutella",
	}, testConfig())
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAddProduct(t *testing.T) {
	extra := "450g"
	var saved []string
	srv := newServer(t, nil, &saved)
	defer srv.Close()

	adapter := New()
	adapter.baseURL = srv.URL

	err := adapter.AddProduct(context.Background(), models.Product{
		EAN: "4006381333931", Name: "Nutella", Extra: &extra,
	}, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Nutella|450g"}, saved)
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	adapter := New()
	adapter.baseURL = srv.URL

	_, err := adapter.HasProduct(context.Background(), models.Product{Name: "x"}, testConfig())
	assert.ErrorContains(t, err, "status 401")
}

func TestListEntrySpecificationPreference(t *testing.T) {
	brand, extra := "Ferrero", "450g"

	name, spec := listEntry(models.Product{Name: "Nutella", Brand: &brand, Extra: &extra})
	assert.Equal(t, "Nutella", name)
	assert.Equal(t, "Ferrero", spec)

	_, spec = listEntry(models.Product{Name: "Nutella", Extra: &extra})
	assert.Equal(t, "450g", spec)

	_, spec = listEntry(models.Product{Name: "Nutella"})
	assert.Equal(t, "", spec)
}
