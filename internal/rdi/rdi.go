// Package rdi supplies per-cohort dietary reference intakes as ordered
// bound lists ready to hand to the diet builder. Cohort selection is a
// plain key lookup; the tables are static.
package rdi

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rationlab/dietlp/internal/diet"
)

// ErrUnknownGroup reports a population group with no reference table.
var ErrUnknownGroup = errors.New("unknown population group")

// requirement is one nutrient's daily bounds for a cohort. A zero max
// means the nutrient has no tolerable upper limit in the table.
type requirement struct {
	nutrient string
	min      float64
	max      float64
}

// Daily values per cohort. Energy in kcal, vitamin A in µg RAE, vitamin C
// and fiber and protein in g where noted; nutrient keys match the USDA
// naming used by catalogue sources.
var tables = map[string][]requirement{
	"male-19-30": {
		{nutrient: "energy", min: 2400},
		{nutrient: "protein", min: 56},
		{nutrient: "fiber", min: 34},
		{nutrient: "calcium", min: 1000, max: 2500},
		{nutrient: "iron", min: 8, max: 45},
		{nutrient: "vitamin_a", min: 900, max: 3000},
		{nutrient: "vitamin_c", min: 90, max: 2000},
		{nutrient: "sodium", min: 1500, max: 2300},
	},
	"female-19-30": {
		{nutrient: "energy", min: 2000},
		{nutrient: "protein", min: 46},
		{nutrient: "fiber", min: 28},
		{nutrient: "calcium", min: 1000, max: 2500},
		{nutrient: "iron", min: 18, max: 45},
		{nutrient: "vitamin_a", min: 700, max: 3000},
		{nutrient: "vitamin_c", min: 75, max: 2000},
		{nutrient: "sodium", min: 1500, max: 2300},
	},
	"male-31-50": {
		{nutrient: "energy", min: 2200},
		{nutrient: "protein", min: 56},
		{nutrient: "fiber", min: 31},
		{nutrient: "calcium", min: 1000, max: 2500},
		{nutrient: "iron", min: 8, max: 45},
		{nutrient: "vitamin_a", min: 900, max: 3000},
		{nutrient: "vitamin_c", min: 90, max: 2000},
		{nutrient: "sodium", min: 1500, max: 2300},
	},
	"female-31-50": {
		{nutrient: "energy", min: 1800},
		{nutrient: "protein", min: 46},
		{nutrient: "fiber", min: 25},
		{nutrient: "calcium", min: 1000, max: 2500},
		{nutrient: "iron", min: 18, max: 45},
		{nutrient: "vitamin_a", min: 700, max: 3000},
		{nutrient: "vitamin_c", min: 75, max: 2000},
		{nutrient: "sodium", min: 1500, max: 2300},
	},
	"child-4-8": {
		{nutrient: "energy", min: 1400},
		{nutrient: "protein", min: 19},
		{nutrient: "fiber", min: 20},
		{nutrient: "calcium", min: 1000, max: 2500},
		{nutrient: "iron", min: 10, max: 40},
		{nutrient: "vitamin_a", min: 400, max: 900},
		{nutrient: "vitamin_c", min: 25, max: 650},
		{nutrient: "sodium", min: 1000, max: 1500},
	},
}

// Groups returns the known population groups in sorted order.
func Groups() []string {
	groups := make([]string, 0, len(tables))
	for g := range tables {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// Lookup returns the minimum and maximum bound lists for a population
// group, in the table's nutrient order.
func Lookup(group string) (mins, maxs []diet.Bound, err error) {
	reqs, ok := tables[group]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	for _, r := range reqs {
		mins = append(mins, diet.Bound{Nutrient: r.nutrient, Value: r.min})
		if r.max > 0 {
			maxs = append(maxs, diet.Bound{Nutrient: r.nutrient, Value: r.max})
		}
	}
	return mins, maxs, nil
}
