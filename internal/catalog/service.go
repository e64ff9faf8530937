package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"storefront/internal/domain"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFailedMessage is shown to the shopper when the catalog cannot be loaded
const FetchFailedMessage = "Không thể kết nối với server. Vui lòng kiểm tra lại."

// Source is the backend catalog API
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// FetchError reports a catalog load failure the shopper may retry
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return FetchFailedMessage
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable is always true: the failure is transport level
func (e *FetchError) Retryable() bool {
	return true
}

// DefaultCacheTTL is how long a loaded catalog is served before it is reloaded
const DefaultCacheTTL = 5 * time.Minute

// Page is one rendering of the product list
type Page struct {
	Products []View `json:"products"`
	Facets   Facets `json:"facets"`
	Total    int    `json:"total"`
}

// Service loads the catalog with retries, collapses concurrent loads and
// keeps the last good list so filtering does not hit the backend.
type Service struct {
	source  Source
	retries uint64
	backoff time.Duration
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger

	group    singleflight.Group
	mu       sync.RWMutex
	cache    []domain.Product
	loadedAt time.Time
}

// NewService creates a catalog service. A ttl of zero or less uses DefaultCacheTTL.
func NewService(source Source, retries uint64, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		source:  source,
		retries: retries,
		backoff: 200 * time.Millisecond,
		ttl:     ttl,
		now:     time.Now,
		log:     logger.With(zap.String("component", "catalog")),
	}
}

// Products returns the cached catalog, loading it on first use and again once
// the cache is older than the ttl. A failed reload keeps serving the last good
// list.
func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	cached, loadedAt := s.cache, s.loadedAt
	s.mu.RUnlock()
	if cached != nil && s.now().Sub(loadedAt) < s.ttl {
		return cached, nil
	}

	products, err := s.Refresh(ctx)
	if err != nil && cached != nil {
		s.log.Warn("Catalog reload failed, serving cached list", zap.Error(err))
		return cached, nil
	}
	return products, err
}

// Refresh reloads the catalog from the backend
func (s *Service) Refresh(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.group.Do("products", func() (any, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Search filters the catalog and decorates the matches for display
func (s *Service) Search(ctx context.Context, f Filter) (Page, error) {
	all, err := s.Products(ctx)
	if err != nil {
		return Page{}, err
	}
	matches := f.Apply(all)
	views := make([]View, len(matches))
	for i, p := range matches {
		views[i] = ViewOf(p)
	}
	return Page{Products: views, Facets: FacetsOf(all), Total: len(views)}, nil
}

// Lookup finds a product in the catalog by id
func (s *Service) Lookup(ctx context.Context, id int64) (domain.Product, bool, error) {
	all, err := s.Products(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}
	for _, p := range all {
		if p.ID == id {
			return p.Clone(), true, nil
		}
	}
	return domain.Product{}, false, nil
}

func (s *Service) fetch(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		products, err = s.source.Products(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			s.log.Warn("Catalog fetch attempt failed", zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to load catalog", zap.Error(err))
		return nil, &FetchError{Err: err}
	}

	if products == nil {
		products = []domain.Product{}
	}
	s.mu.Lock()
	s.cache = products
	s.loadedAt = s.now()
	s.mu.Unlock()

	s.log.Info("Catalog loaded", zap.Int("products", len(products)))
	return products, nil
}
