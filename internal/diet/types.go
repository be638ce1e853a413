// Package diet formulates and solves subsistence-diet linear programs:
// given a catalogue of priced goods with per-100g nutrient yields and a set
// of per-nutrient intake bounds, find the cheapest combination of goods
// satisfying every bound.
//
// The pipeline is Build -> Solve -> Explain. Each call is independent and
// retains no state, so concurrent callers with distinct inputs need no
// coordination.
package diet

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Good is a purchasable item. Yields maps nutrient identifiers to the
// quantity delivered per normalized (100 g) unit purchased. A nutrient
// absent from the map is unknown, which is not the same as a zero yield;
// the distinction is collapsed only at matrix assembly.
type Good struct {
	Name   string
	Yields map[string]float64
}

// Catalogue is the goods x nutrients table, one entry per good. Good names
// must be unique; Build fails fast on duplicates.
type Catalogue []Good

// PriceVector maps a good name to its price per normalized unit. Goods
// without an entry are unusable and are excluded before solving.
type PriceVector map[string]float64

// Bound is one side of a nutrient intake requirement. Whether it acts as a
// minimum or a maximum is determined by which list it is passed in.
type Bound struct {
	Nutrient string
	Value    float64
}

// ConstraintKind identifies how a constraint row was derived.
type ConstraintKind int

const (
	// MinIntake rows require the realized nutrient total to reach the bound.
	MinIntake ConstraintKind = iota
	// MaxIntake rows cap the realized nutrient total at the bound.
	MaxIntake
	// TotalQuantity is the optional cap on the sum of all good quantities.
	TotalQuantity
)

func (k ConstraintKind) String() string {
	switch k {
	case MinIntake:
		return "min"
	case MaxIntake:
		return "max"
	case TotalQuantity:
		return "total-quantity"
	default:
		return fmt.Sprintf("ConstraintKind(%d)", int(k))
	}
}

// Constraint describes one row of a ProblemInstance in its original,
// human-meaningful orientation. Bound holds the magnitude before any sign
// flip applied for the internal ">=" form.
type Constraint struct {
	Nutrient string // empty for the total-quantity cap
	Kind     ConstraintKind
	Bound    float64
}

// ID returns a stable identifier for the constraint, e.g. "protein:min".
func (c Constraint) ID() string {
	if c.Kind == TotalQuantity {
		return c.Kind.String()
	}
	return c.Nutrient + ":" + c.Kind.String()
}

// ProblemInstance is an assembled linear program: minimize Cost . x subject
// to A . x >= B and x >= 0. Columns of Cost and A share the order of Goods;
// rows of A and entries of B share the order of Constraints.
type ProblemInstance struct {
	Goods       []string
	Constraints []Constraint
	Cost        []float64

	// A is nil when the instance has no usable goods or no constraints;
	// B keeps one entry per constraint regardless.
	A *mat.Dense
	B []float64
}

// NumGoods returns the number of columns.
func (p *ProblemInstance) NumGoods() int { return len(p.Goods) }

// NumConstraints returns the number of rows.
func (p *ProblemInstance) NumConstraints() int { return len(p.Constraints) }

func (p *ProblemInstance) validate() error {
	n, m := len(p.Goods), len(p.Constraints)
	if len(p.Cost) != n {
		return fmt.Errorf("%w: %d costs for %d goods", ErrShapeMismatch, len(p.Cost), n)
	}
	if len(p.B) != m {
		return fmt.Errorf("%w: %d bounds for %d constraints", ErrShapeMismatch, len(p.B), m)
	}
	if n == 0 || m == 0 {
		if p.A != nil {
			return fmt.Errorf("%w: matrix present on a degenerate instance", ErrShapeMismatch)
		}
		return nil
	}
	if p.A == nil {
		return fmt.Errorf("%w: missing constraint matrix", ErrShapeMismatch)
	}
	if r, c := p.A.Dims(); r != m || c != n {
		return fmt.Errorf("%w: matrix is %dx%d, want %dx%d", ErrShapeMismatch, r, c, m, n)
	}
	return nil
}

// at reads the constraint matrix, treating degenerate instances as all zero.
func (p *ProblemInstance) at(i, j int) float64 {
	if p.A == nil {
		return 0
	}
	return p.A.At(i, j)
}

// Status classifies the outcome of a solve.
type Status int

const (
	// StatusOptimal means a minimum-cost feasible diet was found.
	StatusOptimal Status = iota
	// StatusInfeasible means no quantity vector satisfies all bounds. This
	// is a normal, reportable outcome, not a failure of the solver.
	StatusInfeasible
	// StatusFailed means the numeric backend itself broke down.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Solution is the outcome of one solve. It is never mutated after
// construction. Raw holds the solver's quantities untouched; use Quantities
// for a presentation copy with near-zero noise clipped. On a non-optimal
// status Cost and every Raw entry are NaN, signalling "undefined" rather
// than "buy nothing".
type Solution struct {
	Status Status
	// Reason is the backend's failure reason for non-optimal statuses,
	// distinguishable between infeasibility and numeric breakdown.
	Reason string
	Cost   float64
	Raw    []float64
	// Intake holds the realized outcome per constraint, in original
	// sign/magnitude, aligned with Instance.Constraints. Nil unless optimal.
	Intake []float64
	// Instance is the problem this solution answers, kept for inspection.
	Instance *ProblemInstance
}

// Quantities returns a copy of the solved quantities with entries whose
// absolute value is below tol reported as exactly zero. The stored raw
// solution is left untouched.
func (s *Solution) Quantities(tol float64) []float64 {
	out := make([]float64, len(s.Raw))
	for i, v := range s.Raw {
		if math.Abs(v) < tol {
			continue
		}
		out[i] = v
	}
	return out
}
