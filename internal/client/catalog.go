package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// Catalog reads products from the backend catalog API
type Catalog struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewCatalog(baseURL string, timeout time.Duration, logger *zap.Logger) *Catalog {
	return &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout),
		log:     logger.With(zap.String("component", "catalog_client")),
	}
}

// Products fetches the whole catalog. Records that fail validation are
// skipped so one bad row does not hide the rest.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	var raw []json.RawMessage
	if err := get(ctx, c.http, c.baseURL+"/api/products/", &raw); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(raw))
	for i, record := range raw {
		var p domain.Product
		if err := json.Unmarshal(record, &p); err != nil {
			c.log.Warn("Skipping undecodable product", zap.Int("index", i), zap.Error(err))
			continue
		}
		if err := p.Validate(); err != nil {
			c.log.Warn("Skipping invalid product", zap.Int("index", i), zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Product fetches one product by id
func (c *Catalog) Product(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	if err := get(ctx, c.http, fmt.Sprintf("%s/api/products/%d/", c.baseURL, id), &p); err != nil {
		return domain.Product{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
