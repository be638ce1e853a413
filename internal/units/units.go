// Package units normalizes raw purchase records to the per-100g basis the
// diet catalogue uses, so prices and nutrient yields become comparable
// across goods sold in pounds, gallons, dozens and so on.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit reports a purchase unit with no registered conversion.
// Callers typically drop the good rather than guess a conversion.
var ErrUnknownUnit = errors.New("unknown unit")

// Converter maps purchase units to grams. Volume units assume water
// density (1 ml = 1 g), the usual convention for the per-100g/per-100ml
// catalogue basis. Count-based units like "dozen" have no universal mass
// and must be registered per good.
type Converter struct {
	grams map[string]float64
}

// NewConverter returns a Converter with the standard mass and volume units
// preloaded.
func NewConverter() *Converter {
	return &Converter{grams: map[string]float64{
		"g":    1,
		"kg":   1000,
		"oz":   28.349523125,
		"lb":   453.59237,
		"ml":   1,
		"l":    1000,
		"pt":   473.176473,
		"qt":   946.352946,
		"gal":  3785.411784,
		"floz": 29.5735295625,
	}}
}

// Register defines a custom unit as a mass in grams, e.g. a dozen eggs at
// 50 g each is Register("dozen", 600). Re-registering replaces the old
// definition.
func (c *Converter) Register(unit string, gramsPerUnit float64) error {
	if gramsPerUnit <= 0 {
		return fmt.Errorf("unit %q: grams per unit must be positive, got %v", unit, gramsPerUnit)
	}
	c.grams[normalize(unit)] = gramsPerUnit
	return nil
}

// PricePer100g converts a purchase record (price paid for quantity of
// unit) into the catalogue's per-100g price.
func (c *Converter) PricePer100g(price, quantity float64, unit string) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %v", quantity)
	}
	if price < 0 {
		return 0, fmt.Errorf("price must be non-negative, got %v", price)
	}
	g, ok := c.grams[normalize(unit)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return price / (quantity * g) * 100, nil
}

func normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
