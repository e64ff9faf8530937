package cart

import (
	"context"
	"testing"

	"storefront/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// op is one generated cart operation: Add when Quantity is nil, SetQuantity otherwise.
type op struct {
	ProductID int64
	Quantity  *int
}

func genOp() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 6),
		gen.Bool(),
		gen.IntRange(-3, 5),
	).Map(func(v []interface{}) op {
		o := op{ProductID: v[0].(int64)}
		if v[1].(bool) {
			q := v[2].(int)
			o.Quantity = &q
		}
		return o
	})
}

func apply(ctx context.Context, c *Store, ops []op) {
	for _, o := range ops {
		if o.Quantity == nil {
			c.Add(ctx, product(o.ProductID, o.ProductID*10))
		} else {
			c.SetQuantity(ctx, o.ProductID, *o.Quantity)
		}
	}
}

func TestProperty_CartInvariantsHold(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no duplicate lines and no line below quantity one", prop.ForAll(
		func(ops []op) bool {
			ctx := context.Background()
			c := New(store.NewMemory(), key, zap.NewNop())
			apply(ctx, c, ops)

			seen := make(map[int64]bool)
			for _, line := range c.Lines() {
				if seen[line.Product.ID] || line.Quantity < 1 {
					return false
				}
				seen[line.Product.ID] = true
			}
			return true
		},
		gen.SliceOf(genOp()),
	))

	properties.Property("persisted entry always mirrors memory", prop.ForAll(
		func(ops []op) bool {
			ctx := context.Background()
			kv := store.NewMemory()
			c := New(kv, key, zap.NewNop())
			apply(ctx, c, ops)

			if len(ops) == 0 {
				_, ok, _ := kv.Get(ctx, key)
				return !ok
			}

			reloaded := New(kv, key, zap.NewNop())
			if reloaded.Hydrate(ctx) != Restored {
				return false
			}
			a, b := c.Lines(), reloaded.Lines()
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i].Product.ID != b[i].Product.ID || a[i].Quantity != b[i].Quantity {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOp()),
	))

	properties.Property("subtotal equals sum of price times quantity", prop.ForAll(
		func(ops []op) bool {
			ctx := context.Background()
			c := New(store.NewMemory(), key, zap.NewNop())
			apply(ctx, c, ops)

			var want int64
			for _, line := range c.Lines() {
				want += line.Product.ID * 10 * int64(line.Quantity)
			}
			return c.Subtotal().IntPart() == want
		},
		gen.SliceOf(genOp()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
