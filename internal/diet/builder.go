package diet

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// NoQuantityCap disables the total-quantity constraint when passed to Build.
func NoQuantityCap() float64 { return math.Inf(1) }

// Builder aligns a catalogue, a price vector and bound lists into a
// ProblemInstance. It holds no per-call state; one Builder may serve
// concurrent callers.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil logger disables logging.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.Named("builder")}
}

// Build assembles the linear program
//
//	minimize  price . x
//	subject to A . x >= b,  x >= 0
//
// from the given inputs. The usable good set is the intersection of
// catalogue goods and priced goods; exclusions are silent but logged.
// Constraint rows are emitted in order: one ">= bound" row per entry of
// mins, then one negated row per entry of maxs, then, when maxTotalQuantity
// is finite, a final row capping the sum of all quantities.
//
// Missing nutrient yields are treated as zero only here, at matrix
// assembly; upstream they stay distinct from zero so that exclusion
// decisions remain auditable. Duplicate good or nutrient identifiers fail
// fast with ErrDuplicateKey.
//
// Inputs may list goods and nutrients in arbitrary, non-matching orders;
// the returned instance is reindexed so the cost vector, matrix columns and
// reported quantities all follow the usable-good order, and matrix rows
// follow the constraint order above.
func (b *Builder) Build(catalogue Catalogue, prices PriceVector, mins, maxs []Bound, maxTotalQuantity float64) (*ProblemInstance, error) {
	const op = "Builder.Build"

	known := make(map[string]struct{}, len(catalogue))
	for _, g := range catalogue {
		if _, dup := known[g.Name]; dup {
			return nil, WrapError(fmt.Errorf("%w: good %q", ErrDuplicateKey, g.Name), op)
		}
		known[g.Name] = struct{}{}
	}
	if err := checkBoundKeys(mins, MinIntake); err != nil {
		return nil, WrapError(err, op)
	}
	if err := checkBoundKeys(maxs, MaxIntake); err != nil {
		return nil, WrapError(err, op)
	}

	// Usable set: catalogue order, priced goods only. Exclusion is a normal
	// condition, observable through the log rather than the error path.
	usable := make([]Good, 0, len(catalogue))
	for _, g := range catalogue {
		price, ok := prices[g.Name]
		if !ok || math.IsNaN(price) {
			b.logger.Debug("excluding good without a usable price",
				zap.String("good", g.Name))
			continue
		}
		usable = append(usable, g)
	}
	for name := range prices {
		if _, ok := known[name]; !ok {
			b.logger.Debug("excluding priced good absent from catalogue",
				zap.String("good", name))
		}
	}

	goods := make([]string, len(usable))
	cost := make([]float64, len(usable))
	for i, g := range usable {
		goods[i] = g.Name
		cost[i] = prices[g.Name]
	}

	nRows := len(mins) + len(maxs)
	if !math.IsInf(maxTotalQuantity, 1) {
		nRows++
	}
	constraints := make([]Constraint, 0, nRows)
	rows := make([][]float64, 0, nRows)
	rhs := make([]float64, 0, nRows)

	missing := 0
	for _, bd := range mins {
		constraints = append(constraints, Constraint{Nutrient: bd.Nutrient, Kind: MinIntake, Bound: bd.Value})
		rows = append(rows, yieldRow(usable, bd.Nutrient, 1, &missing))
		rhs = append(rhs, bd.Value)
	}
	for _, bd := range maxs {
		constraints = append(constraints, Constraint{Nutrient: bd.Nutrient, Kind: MaxIntake, Bound: bd.Value})
		rows = append(rows, yieldRow(usable, bd.Nutrient, -1, &missing))
		rhs = append(rhs, -bd.Value)
	}
	if !math.IsInf(maxTotalQuantity, 1) {
		row := make([]float64, len(usable))
		for i := range row {
			row[i] = -1
		}
		constraints = append(constraints, Constraint{Kind: TotalQuantity, Bound: maxTotalQuantity})
		rows = append(rows, row)
		rhs = append(rhs, -maxTotalQuantity)
	}

	inst := &ProblemInstance{
		Goods:       goods,
		Constraints: constraints,
		Cost:        cost,
		B:           rhs,
	}
	if len(goods) > 0 && len(rows) > 0 {
		flat := make([]float64, 0, len(rows)*len(goods))
		for _, row := range rows {
			flat = append(flat, row...)
		}
		inst.A = mat.NewDense(len(rows), len(goods), flat)
	}

	b.logger.Debug("assembled problem instance",
		zap.Int("goods", len(goods)),
		zap.Int("excluded_goods", len(catalogue)-len(usable)),
		zap.Int("constraints", len(constraints)),
		zap.Int("missing_cells_zero_filled", missing))

	return inst, nil
}

// yieldRow extracts one nutrient's yields across the usable goods, scaled
// by sign. This is the single point where an unknown yield collapses to
// zero; missing counts how often that happened.
func yieldRow(usable []Good, nutrient string, sign float64, missing *int) []float64 {
	row := make([]float64, len(usable))
	for i, g := range usable {
		v, ok := g.Yields[nutrient]
		if !ok {
			*missing++
			continue
		}
		row[i] = sign * v
	}
	return row
}

func checkBoundKeys(bounds []Bound, kind ConstraintKind) error {
	seen := make(map[string]struct{}, len(bounds))
	for _, bd := range bounds {
		if _, dup := seen[bd.Nutrient]; dup {
			return fmt.Errorf("%w: nutrient %q in %s bounds", ErrDuplicateKey, bd.Nutrient, kind)
		}
		seen[bd.Nutrient] = struct{}{}
	}
	return nil
}
