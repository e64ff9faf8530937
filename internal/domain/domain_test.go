package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProductValidate(t *testing.T) {
	valid := Product{ID: 1, Name: "Kettle", Price: decimal.NewFromInt(100)}
	require.NoError(t, valid.Validate())

	cases := map[string]Product{
		"missing id":       {Name: "Kettle", Price: decimal.NewFromInt(1)},
		"missing name":     {ID: 1, Price: decimal.NewFromInt(1)},
		"negative price":   {ID: 1, Name: "Kettle", Price: decimal.NewFromInt(-1)},
		"discount too big": {ID: 1, Name: "Kettle", Price: decimal.NewFromInt(1), Discount: intPtr(120)},
		"negative sold":    {ID: 1, Name: "Kettle", Price: decimal.NewFromInt(1), SoldCount: intPtr(-3)},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, p.Validate())
		})
	}
}

func TestCartLineValidate(t *testing.T) {
	p := Product{ID: 7, Name: "Lamp", Price: decimal.NewFromInt(5)}

	assert.NoError(t, CartLine{Product: p, Quantity: 1}.Validate())
	assert.Error(t, CartLine{Product: p, Quantity: 0}.Validate())
	assert.Error(t, CartLine{Product: p, Quantity: -2}.Validate())
}

func TestCartLineTotal(t *testing.T) {
	line := CartLine{Product: Product{ID: 1, Name: "Mug", Price: decimal.RequireFromString("12.5")}, Quantity: 4}
	assert.True(t, line.Total().Equal(decimal.NewFromInt(50)))
}

func TestProductCloneIsDeep(t *testing.T) {
	orig := Product{ID: 1, Name: "Mug", Discount: intPtr(10), Labels: []string{"VEVOR", "Kitchen"}}

	c := orig.Clone()
	*c.Discount = 50
	c.Labels[0] = "changed"

	assert.Equal(t, 10, *orig.Discount)
	assert.Equal(t, "VEVOR", orig.Labels[0])
}
