// Package openfoodfacts resolves EANs against the Open Food Facts API.
// No credentials are required.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scanbridge/scanbridge/internal/models"
)

type Config struct {
	AdapterName string `yaml:"adapterName" validate:"required"`
}

type Adapter struct {
	client  *http.Client
	baseURL string
}

func New() *Adapter {
	return &Adapter{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: "https://world.openfoodfacts.org",
	}
}

func (a *Adapter) Name() string {
	return "openfoodfacts"
}

func (a *Adapter) NewConfig() any {
	return &Config{}
}

func (a *Adapter) CacheTTL() time.Duration {
	// Open Food Facts entries are community-edited and change more often
	// than a static catalog.
	return 7 * 24 * time.Hour
}

type productResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Quantity    string `json:"quantity"`
	} `json:"product"`
}

func (a *Adapter) Find(ctx context.Context, ean string, conf any) (*models.Product, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json?fields=product_name,brands,quantity", a.baseURL, ean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "scanbridge/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query openfoodfacts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts returned status %d", resp.StatusCode)
	}

	var body productResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode openfoodfacts response: %w", err)
	}

	if body.Status != 1 || body.Product.ProductName == "" {
		return nil, nil
	}

	product := &models.Product{
		EAN:  ean,
		Name: body.Product.ProductName,
	}
	if body.Product.Brands != "" {
		brands := body.Product.Brands
		product.Brand = &brands
	}
	if body.Product.Quantity != "" {
		quantity := body.Product.Quantity
		product.Extra = &quantity
	}
	return product, nil
}
