package diet

import (
	"errors"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultTolerance governs "is this effectively zero" decisions downstream
// of a solve: quantity clipping and binding-constraint detection.
const DefaultTolerance = 1e-6

// Solver turns a ProblemInstance into a Solution using gonum's simplex
// backend. It keeps no state between calls.
type Solver struct {
	tol    float64
	logger *zap.Logger
}

// NewSolver creates a Solver with the given zero tolerance. Non-positive
// tolerances fall back to DefaultTolerance; a nil logger disables logging.
func NewSolver(tol float64, logger *zap.Logger) *Solver {
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{tol: tol, logger: logger.Named("solver")}
}

// Tolerance returns the solver's zero tolerance.
func (s *Solver) Tolerance() float64 { return s.tol }

// Solve minimizes Cost . x subject to A . x >= B and x >= 0.
//
// The backend expects the equality standard form min c.x, Ax = b, x >= 0,
// so the adapter appends one surplus variable per row; this is the single
// place the ">=" orientation is converted, never piecemeal. Infeasibility
// and numeric breakdown are reported through Solution.Status, not as
// errors; the error return is reserved for malformed instances.
func (s *Solver) Solve(inst *ProblemInstance) (*Solution, error) {
	const op = "Solver.Solve"
	if inst == nil {
		return nil, NewErrorf(op, "nil problem instance")
	}
	if err := inst.validate(); err != nil {
		return nil, WrapError(err, op)
	}

	n := len(inst.Goods)

	// The backend rejects all-zero rows and columns outright, so they are
	// resolved here. A zero row demands 0 >= b: vacuous when b <= 0,
	// otherwise no diet can satisfy it. A zero column is a good that
	// contributes to no constraint; at a non-negative price its optimal
	// quantity is zero, so it is dropped and reinserted afterwards. A
	// negatively priced zero column is left in to let the backend report
	// the unbounded problem.
	var rows, cols []int
	for i := range inst.Constraints {
		zero := true
		for j := 0; j < n; j++ {
			if inst.at(i, j) != 0 {
				zero = false
				break
			}
		}
		if !zero {
			rows = append(rows, i)
			continue
		}
		if inst.B[i] > 0 {
			s.logger.Info("constraint unsatisfiable by any usable good",
				zap.String("constraint", inst.Constraints[i].ID()))
			return s.failed(inst, StatusInfeasible, "no usable good contributes to constraint "+inst.Constraints[i].ID()), nil
		}
	}
	for j := 0; j < n; j++ {
		zero := true
		for _, i := range rows {
			if inst.at(i, j) != 0 {
				zero = false
				break
			}
		}
		if !zero || inst.Cost[j] < 0 {
			cols = append(cols, j)
		}
	}

	if len(rows) == 0 {
		for _, j := range cols {
			if inst.Cost[j] < 0 {
				return s.failed(inst, StatusFailed, lp.ErrUnbounded.Error()), nil
			}
		}
		return s.optimal(inst, make([]float64, n)), nil
	}

	m, k := len(rows), len(cols)
	aug := mat.NewDense(m, k+m, nil)
	cost := make([]float64, k+m)
	b := make([]float64, m)
	for ri, i := range rows {
		for ci, j := range cols {
			aug.Set(ri, ci, inst.at(i, j))
		}
		aug.Set(ri, k+ri, -1)
		b[ri] = inst.B[i]
	}
	for ci, j := range cols {
		cost[ci] = inst.Cost[j]
	}

	_, x, err := lp.Simplex(cost, aug, b, 0, nil)
	if err != nil {
		status := StatusFailed
		if errors.Is(err, lp.ErrInfeasible) {
			status = StatusInfeasible
		}
		s.logger.Info("solve unsuccessful",
			zap.Stringer("status", status),
			zap.String("reason", err.Error()),
			zap.Int("goods", n),
			zap.Int("constraints", inst.NumConstraints()))
		return s.failed(inst, status, err.Error()), nil
	}

	quantities := make([]float64, n)
	for ci, j := range cols {
		quantities[j] = x[ci]
	}
	return s.optimal(inst, quantities), nil
}

func (s *Solver) optimal(inst *ProblemInstance, quantities []float64) *Solution {
	cost := 0.0
	if len(quantities) > 0 {
		cost = floats.Dot(inst.Cost, quantities)
	}
	s.logger.Debug("solve optimal",
		zap.Float64("cost", cost),
		zap.Int("goods", inst.NumGoods()),
		zap.Int("constraints", inst.NumConstraints()))
	return &Solution{
		Status:   StatusOptimal,
		Cost:     cost,
		Raw:      quantities,
		Intake:   realizedIntake(inst, quantities),
		Instance: inst,
	}
}

func (s *Solver) failed(inst *ProblemInstance, status Status, reason string) *Solution {
	undefined := make([]float64, inst.NumGoods())
	for i := range undefined {
		undefined[i] = math.NaN()
	}
	return &Solution{
		Status:   status,
		Reason:   reason,
		Cost:     math.NaN(),
		Raw:      undefined,
		Instance: inst,
	}
}

// realizedIntake computes |A| . x per constraint. The absolute value undoes
// the sign flip applied to max-side rows, so outcomes read in the original
// nutrient scale.
func realizedIntake(inst *ProblemInstance, x []float64) []float64 {
	intake := make([]float64, inst.NumConstraints())
	for i := range inst.Constraints {
		var sum float64
		for j := range x {
			sum += math.Abs(inst.at(i, j)) * x[j]
		}
		intake[i] = sum
	}
	return intake
}
