package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

var sample = []domain.Product{
	{ID: 1, Name: "Philips Kettle", Price: decimal.NewFromInt(250000), Labels: []string{"imported", "Philips", "Kitchen"}},
	{ID: 2, Name: "Desk Lamp", Price: decimal.NewFromInt(99000), Labels: []string{"Shopee", "Xiaomi"}},
	{ID: 3, Name: "Travel Mug", Price: decimal.NewFromInt(50000), Labels: []string{"amazon"}},
	{ID: 4, Name: "Electric kettle mini", Price: decimal.NewFromInt(180000)},
}

func TestBrandAndCategory(t *testing.T) {
	assert.Equal(t, "Philips", Brand(sample[0]))
	assert.Equal(t, "Kitchen", Category(sample[0]))
	assert.Equal(t, "Xiaomi", Brand(sample[1]))
	assert.Equal(t, "Xiaomi", Category(sample[1]))
	assert.Equal(t, DefaultBrand, Brand(sample[2]))
	assert.Equal(t, DefaultCategory, Category(sample[2]))
	assert.Equal(t, DefaultBrand, Brand(sample[3]))
}

func TestFilter_Apply(t *testing.T) {
	ids := func(ps []domain.Product) []int64 {
		out := make([]int64, len(ps))
		for i, p := range ps {
			out[i] = p.ID
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Filter{}.Apply(sample)))
	assert.Equal(t, []int64{1, 4}, ids(Filter{Query: "  KETTLE "}.Apply(sample)))
	assert.Equal(t, []int64{3, 4}, ids(Filter{Brand: "amazon"}.Apply(sample)))
	assert.Equal(t, []int64{4}, ids(Filter{Query: "kettle", Brand: "Amazon"}.Apply(sample)))
	assert.Equal(t, []int64{1}, ids(Filter{Category: "kitchen"}.Apply(sample)))
	assert.Empty(t, Filter{Query: "sofa"}.Apply(sample))
}

func TestFacetsOf(t *testing.T) {
	f := FacetsOf(sample)
	assert.Equal(t, []string{"Amazon", "Philips", "Xiaomi"}, f.Brands)
	assert.Equal(t, []string{"General", "Kitchen", "Xiaomi"}, f.Categories)
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, DefaultDiscount, DisplayDiscount(domain.Product{}))
	assert.Equal(t, DefaultDiscount, DisplayDiscount(domain.Product{Discount: ptr(0)}))
	assert.Equal(t, 30, DisplayDiscount(domain.Product{Discount: ptr(30)}))

	assert.Equal(t, "999", FormatSoldCount(999))
	assert.Equal(t, "1.2k", FormatSoldCount(1200))
	assert.Equal(t, "3.4M", FormatSoldCount(3_400_000))

	assert.Equal(t, "1.250.000", FormatPrice(decimal.NewFromInt(1_250_000)))
	assert.Equal(t, "500", FormatPrice(decimal.NewFromInt(500)))

	grossed := ListPrice(domain.Product{Price: decimal.NewFromInt(80), Discount: ptr(20)})
	assert.True(t, grossed.Equal(decimal.NewFromInt(100)), grossed.String())
	orig := decimal.NewFromInt(120)
	assert.True(t, ListPrice(domain.Product{Price: decimal.NewFromInt(80), OriginalPrice: &orig}).Equal(orig))

	assert.Equal(t, "https://cdn/x.png", ImageURL(domain.Product{Image: " https://cdn/x.png "}))
	assert.Empty(t, ImageURL(domain.Product{Image: "x.png"}))
}

type fakeSource struct {
	calls atomic.Int32
	fails int32
	delay time.Duration
}

func (f *fakeSource) Products(ctx context.Context) ([]domain.Product, error) {
	n := f.calls.Add(1)
	time.Sleep(f.delay)
	if n <= f.fails {
		return nil, errors.New("connection refused")
	}
	return sample, nil
}

func newTestService(src Source, retries uint64) *Service {
	s := NewService(src, retries, time.Minute, zap.NewNop())
	s.backoff = time.Millisecond
	return s
}

func TestService_RetriesThenCaches(t *testing.T) {
	src := &fakeSource{fails: 2}
	s := newTestService(src, 2)

	products, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, len(sample))
	assert.Equal(t, int32(3), src.calls.Load())

	_, err = s.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.calls.Load(), "second read is served from cache")
}

// switchSource serves sample until down is set
type switchSource struct {
	calls atomic.Int32
	down  atomic.Bool
}

func (s *switchSource) Products(context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.down.Load() {
		return nil, errors.New("connection refused")
	}
	return sample, nil
}

func TestService_ReloadsAfterTTL(t *testing.T) {
	src := &switchSource{}
	s := newTestService(src, 0)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.Products(ctx)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load(), "fresh cache is reused")

	now = now.Add(time.Minute)
	_, err = s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load(), "expired cache is reloaded")

	src.down.Store(true)
	now = now.Add(2 * time.Minute)
	products, err := s.Products(ctx)
	require.NoError(t, err, "a failed reload serves the last good list")
	assert.Len(t, products, len(sample))
	assert.Equal(t, int32(3), src.calls.Load())
}

func TestService_FailureIsRetryableFetchError(t *testing.T) {
	src := &fakeSource{fails: 100}
	s := newTestService(src, 1)

	_, err := s.Products(context.Background())

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Retryable())
	assert.Equal(t, FetchFailedMessage, err.Error())
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestService_ConcurrentLoadsCollapse(t *testing.T) {
	src := &fakeSource{delay: 50 * time.Millisecond}
	s := newTestService(src, 0)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, src.calls.Load(), int32(8))
}

func TestService_SearchAndLookup(t *testing.T) {
	s := newTestService(&fakeSource{}, 0)
	ctx := context.Background()

	page, err := s.Search(ctx, Filter{Query: "kettle"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Philips", page.Products[0].Brand)
	assert.Equal(t, "250.000", page.Products[0].PriceText)
	assert.Len(t, page.Facets.Brands, 3)

	p, ok, err := s.Lookup(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Desk Lamp", p.Name)

	_, ok, err = s.Lookup(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}
