// Package opengtindb resolves EANs against the community database at
// opengtindb.org. Responses are plain text: blocks of key=value lines
// separated by lines containing only "---", where the first block carries
// an error code and the remaining blocks are products.
package opengtindb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/scanbridge/scanbridge/internal/models"
)

// Config is the per-service configuration for this adapter.
type Config struct {
	AdapterName string `yaml:"adapterName" validate:"required"`
	// UserID is the queryid issued by opengtindb.org.
	UserID string `yaml:"userid" validate:"required"`
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
		baseURL: "https://opengtindb.org/",
	}
}

func (a *Adapter) Name() string {
	return "opengtindb"
}

func (a *Adapter) NewConfig() any {
	return &Config{}
}

func (a *Adapter) CacheTTL() time.Duration {
	// The database changes rarely; cache resolutions for 30 days.
	return 30 * 24 * time.Hour
}

func (a *Adapter) Find(ctx context.Context, ean string, conf any) (*models.Product, error) {
	cfg := conf.(*Config)

	query := url.Values{}
	query.Set("ean", ean)
	query.Set("cmd", "query")
	query.Set("queryid", cfg.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query opengtindb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opengtindb returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read opengtindb response: %w", err)
	}

	product, err := parseResponse(string(raw), ean)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.Name == "" {
		// Products can exist without a name; let the user enter it manually.
		log.Warnw(ctx, "opengtindb product has no name", "ean", ean)
		return nil, nil
	}
	return product, nil
}

var blockSeparator = regexp.MustCompile(`(?m)^[ \t]*---[ \t]*$`)

func parseResponse(raw, ean string) (*models.Product, error) {
	var blocks []map[string]string
	for _, chunk := range blockSeparator.Split(raw, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		blocks = append(blocks, parseBlock(chunk))
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("empty opengtindb response")
	}

	// The first block only carries the error code.
	switch code := blocks[0]["error"]; code {
	case "0":
	case "1":
		// Request ok, product unknown.
		return nil, nil
	default:
		return nil, fmt.Errorf("opengtindb reported error %q for ean %s", code, ean)
	}

	// error=0 with no product blocks happens in the wild even though the
	// documentation says it should not.
	if len(blocks) < 2 {
		return nil, nil
	}

	first := blocks[1]
	product := &models.Product{
		EAN:  ean,
		Name: first["name"],
	}
	if vendor, ok := first["vendor"]; ok && vendor != "" {
		product.Brand = &vendor
	}
	if pack, ok := first["pack"]; ok && pack != "" {
		product.Extra = &pack
	}
	return product, nil
}

func parseBlock(chunk string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimRight(line, "\r")
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
