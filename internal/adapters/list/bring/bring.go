// Package bring adds products to a Bring! shopping list. The API needs a
// login per interaction; list items are compared by name plus specification
// (brand or extra info), which is also how the Bring apps display them.
package bring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scanbridge/scanbridge/internal/models"
)

// clientKey is Bring's public API key used by all non-official clients.
const clientKey = "cof4Nc6D8saplXjE3h3HXqHH8m7VU2i1Gs0g85Sp"

type Config struct {
	AdapterName string `yaml:"adapterName" validate:"required"`
	Email       string `yaml:"email" validate:"required,email"`
	Password    string `yaml:"password" validate:"required"`
	ListID      string `yaml:"listId" validate:"required,uuid"`
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
		baseURL: "https://api.getbring.com/rest/v2",
	}
}

func (a *Adapter) Name() string {
	return "bring"
}

func (a *Adapter) NewConfig() any {
	return &Config{}
}

func (a *Adapter) HasProduct(ctx context.Context, product models.Product, conf any) (bool, error) {
	cfg := conf.(*Config)

	session, err := a.login(ctx, cfg)
	if err != nil {
		return false, err
	}

	items, err := a.listItems(ctx, session, cfg.ListID)
	if err != nil {
		return false, err
	}

	name, spec := listEntry(product)
	for _, item := range items {
		if item.Name == name && item.Specification == spec {
			return true, nil
		}
	}
	return false, nil
}

func (a *Adapter) AddProduct(ctx context.Context, product models.Product, conf any) error {
	cfg := conf.(*Config)

	session, err := a.login(ctx, cfg)
	if err != nil {
		return err
	}

	name, spec := listEntry(product)
	form := url.Values{}
	form.Set("purchase", name)
	form.Set("specification", spec)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		a.baseURL+"/bringlists/"+cfg.ListID, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	a.setAuthHeaders(req, session)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("save bring item: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bring save returned status %d", resp.StatusCode)
	}
	return nil
}

type session struct {
	UUID        string `json:"uuid"`
	AccessToken string `json:"access_token"`
}

func (a *Adapter) login(ctx context.Context, cfg *Config) (*session, error) {
	form := url.Values{}
	form.Set("email", cfg.Email)
	form.Set("password", cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/bringauth", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-BRING-API-KEY", clientKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bring login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bring login returned status %d", resp.StatusCode)
	}

	var s session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode bring login response: %w", err)
	}
	if s.AccessToken == "" {
		return nil, fmt.Errorf("bring login returned no access token")
	}
	return &s, nil
}

type listItem struct {
	Name          string `json:"name"`
	Specification string `json:"specification"`
}

func (a *Adapter) listItems(ctx context.Context, s *session, listID string) ([]listItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+"/bringlists/"+listID, nil)
	if err != nil {
		return nil, err
	}
	a.setAuthHeaders(req, s)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bring list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bring list returned status %d", resp.StatusCode)
	}

	var body struct {
		Purchase []listItem `json:"purchase"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode bring list response: %w", err)
	}
	return body.Purchase, nil
}

func (a *Adapter) setAuthHeaders(req *http.Request, s *session) {
	req.Header.Set("X-BRING-API-KEY", clientKey)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	req.Header.Set("X-BRING-USER-UUID", s.UUID)
}

// listEntry maps a product onto Bring's name/specification pair.
func listEntry(product models.Product) (name, spec string) {
	switch {
	case product.Brand != nil:
		spec = *product.Brand
	case product.Extra != nil:
		spec = *product.Extra
	}
	return product.Name, spec
}
