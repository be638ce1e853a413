package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricePer100g(t *testing.T) {
	c := NewConverter()

	tests := []struct {
		name     string
		price    float64
		quantity float64
		unit     string
		want     float64
	}{
		{name: "five pounds of flour", price: 3.0, quantity: 5, unit: "lb", want: 3.0 / (5 * 453.59237) * 100},
		{name: "kilogram passthrough", price: 2.0, quantity: 1, unit: "kg", want: 0.2},
		{name: "grams", price: 0.5, quantity: 100, unit: "g", want: 0.5},
		{name: "gallon of milk", price: 3.5, quantity: 1, unit: "gal", want: 3.5 / 3785.411784 * 100},
		{name: "unit casing and spacing", price: 2.0, quantity: 1, unit: " KG ", want: 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.PricePer100g(tt.price, tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRegisterCustomUnit(t *testing.T) {
	c := NewConverter()

	// A dozen eggs at roughly 50 g each.
	require.NoError(t, c.Register("dozen", 600))

	got, err := c.PricePer100g(2.4, 1, "dozen")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, got, 1e-12)
}

func TestUnknownUnit(t *testing.T) {
	c := NewConverter()
	_, err := c.PricePer100g(1.0, 1, "bushel")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestInvalidInputs(t *testing.T) {
	c := NewConverter()

	_, err := c.PricePer100g(1.0, 0, "kg")
	assert.Error(t, err)

	_, err = c.PricePer100g(-1.0, 1, "kg")
	assert.Error(t, err)

	assert.Error(t, c.Register("dozen", 0))
	assert.Error(t, c.Register("dozen", -5))
}
