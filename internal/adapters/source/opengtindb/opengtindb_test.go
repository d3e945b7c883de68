package opengtindb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const foundResponse = "error=0\n" +
	"---\n" +
	"name=Nutella\n" +
	"vendor=Ferrero\n" +
	"pack=450g Glas\n" +
	"descr=Nuss-Nugat-Creme\n" +
	"---\n" +
	"name=Other Product\n"

func TestParseResponseFound(t *testing.T) {
	product, err := parseResponse(foundResponse, "4006381333931")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "4006381333931", product.EAN)
	assert.Equal(t, "Nutella", product.Name)
	require.NotNil(t, product.Brand)
	assert.Equal(t, "Ferrero", *product.Brand)
	require.NotNil(t, product.Extra)
	assert.Equal(t, "450g Glas", *product.Extra)
}

func TestParseResponseNotFound(t *testing.T) {
	product, err := parseResponse("error=1\n", "4006381333931")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestParseResponseUpstreamError(t *testing.T) {
	_, err := parseResponse("error=12\n", "4006381333931")
	assert.ErrorContains(t, err, `error "12"`)
}

func TestParseResponseNoProductBlocks(t *testing.T) {
	// error=0 without product blocks happens despite the documentation.
	product, err := parseResponse("error=0\n", "4006381333931")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestParseResponseCRLFAndEqualsInValue(t *testing.T) {
	raw := "error=0\r\n---\r\nname=A=B Sauce\r\n"
	product, err := parseResponse(raw, "96385074")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "A=B Sauce", product.Name)
}

func TestFindAgainstServer(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(foundResponse))
	}))
	defer srv.Close()

	adapter := New()
	adapter.baseURL = srv.URL + "/"

	product, err := adapter.Find(context.Background(), "4006381333931", &Config{
		AdapterName: "opengtindb",
		UserID:      "400000000",
	})
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Nutella", product.Name)
	assert.Contains(t, gotQuery, "ean=4006381333931")
	assert.Contains(t, gotQuery, "queryid=400000000")
}

func TestFindNamelessProductIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("error=0\n---\nvendor=Ferrero\n"))
	}))
	defer srv.Close()

	adapter := New()
	adapter.baseURL = srv.URL + "/"

	product, err := adapter.Find(context.Background(), "4006381333931", &Config{
		AdapterName: "opengtindb",
		UserID:      "400000000",
	})
	require.NoError(t, err)
	assert.Nil(t, product)
}
