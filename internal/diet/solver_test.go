package diet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoGoodInstance builds the canonical scenario: good a costs 1.0 per unit
// and yields 10 N per unit, good b costs 2.0 and yields 5 N.
func twoGoodInstance(t *testing.T, minN float64, quantityCap float64) *ProblemInstance {
	t.Helper()
	builder := NewBuilder(nil)
	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10}},
		{Name: "b", Yields: map[string]float64{"n": 5}},
	}
	prices := PriceVector{"a": 1.0, "b": 2.0}
	inst, err := builder.Build(catalogue, prices, []Bound{{Nutrient: "n", Value: minN}}, nil, quantityCap)
	require.NoError(t, err)
	return inst
}

func TestSolveTwoGoodScenario(t *testing.T) {
	solver := NewSolver(0, nil)
	inst := twoGoodInstance(t, 20, NoQuantityCap())

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	// a is strictly cheaper per unit of N, so the optimum is 2 units of a.
	assert.InDelta(t, 2.0, sol.Cost, 1e-9)
	q := sol.Quantities(solver.Tolerance())
	assert.InDelta(t, 2.0, q[0], 1e-9)
	assert.Equal(t, 0.0, q[1])
	assert.Same(t, inst, sol.Instance)

	require.Len(t, sol.Intake, 1)
	assert.InDelta(t, 20.0, sol.Intake[0], 1e-9)
}

func TestSolveInfeasibleUnderCap(t *testing.T) {
	solver := NewSolver(0, nil)
	inst := twoGoodInstance(t, 1000, 1)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.NotEmpty(t, sol.Reason)

	// Quantities and cost are undefined, not zero: zero would read as "eat
	// nothing is a feasible diet".
	assert.True(t, math.IsNaN(sol.Cost))
	require.Len(t, sol.Raw, 2)
	for _, v := range sol.Raw {
		assert.True(t, math.IsNaN(v))
	}
	assert.Nil(t, sol.Intake)
}

func TestSolveDeterminism(t *testing.T) {
	solver := NewSolver(0, nil)
	inst := twoGoodInstance(t, 20, NoQuantityCap())

	first, err := solver.Solve(inst)
	require.NoError(t, err)
	second, err := solver.Solve(inst)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Cost, second.Cost)
	assert.Equal(t, first.Raw, second.Raw)
}

func TestSolveMonotonicityUnderTightening(t *testing.T) {
	solver := NewSolver(0, nil)

	base, err := solver.Solve(twoGoodInstance(t, 20, NoQuantityCap()))
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, base.Status)

	// Raising the minimum can only hold or raise the optimal cost.
	for _, minN := range []float64{25, 40, 100} {
		tightened, err := solver.Solve(twoGoodInstance(t, minN, NoQuantityCap()))
		require.NoError(t, err)
		require.Equal(t, StatusOptimal, tightened.Status)
		assert.GreaterOrEqual(t, tightened.Cost, base.Cost)
	}

	// Tightening into an empty feasible region flips success off instead
	// of crashing.
	infeasible, err := solver.Solve(twoGoodInstance(t, 50, 1))
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, infeasible.Status)
}

func TestSolveQuantityCapNeverLowersCost(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10}},
		{Name: "c", Yields: map[string]float64{"n": 20}},
	}
	prices := PriceVector{"a": 1.0, "c": 5.0}
	mins := []Bound{{Nutrient: "n", Value: 20}}

	uncapped, err := builder.Build(catalogue, prices, mins, nil, NoQuantityCap())
	require.NoError(t, err)
	base, err := solver.Solve(uncapped)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, base.Status)
	assert.InDelta(t, 2.0, base.Cost, 1e-9) // 2 units of a

	// Cap below the uncapped optimum's total quantity; the mix shifts to
	// the denser, pricier good and the cost rises.
	capped, err := builder.Build(catalogue, prices, mins, nil, 1.5)
	require.NoError(t, err)
	sol, err := solver.Solve(capped)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 3.5, sol.Cost, 1e-9)
	assert.Greater(t, sol.Cost, base.Cost)
}

func TestSolveNoConstraints(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	inst, err := builder.Build(testCatalogue(), PriceVector{"bread": 0.35}, nil, nil, NoQuantityCap())
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, sol.Status)
	assert.Equal(t, 0.0, sol.Cost)
	assert.Equal(t, []float64{0}, sol.Raw)
}

func TestSolveEmptyGoodSetIsInfeasible(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	inst, err := builder.Build(testCatalogue(), PriceVector{}, []Bound{{Nutrient: "protein", Value: 56}}, nil, NoQuantityCap())
	require.NoError(t, err)
	require.Equal(t, 0, inst.NumGoods())

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolveUnreachableNutrientIsInfeasible(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	// No usable good yields "iron", so its minimum is unsatisfiable even
	// though the matrix row is all zeros.
	inst, err := builder.Build(testCatalogue(), PriceVector{"bread": 0.35},
		[]Bound{{Nutrient: "iron", Value: 8}}, nil, NoQuantityCap())
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Contains(t, sol.Reason, "iron:min")
}

func TestSolveIgnoresIrrelevantGood(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	// cheese contributes to no constrained nutrient; its optimal quantity
	// is zero rather than a backend zero-column error.
	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10}},
		{Name: "cheese", Yields: map[string]float64{"fat": 33}},
	}
	inst, err := builder.Build(catalogue, PriceVector{"a": 1.0, "cheese": 1.2},
		[]Bound{{Nutrient: "n", Value: 20}}, nil, NoQuantityCap())
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 2.0, sol.Cost, 1e-9)
	assert.Equal(t, 0.0, sol.Raw[1])
}

func TestSolveShapeMismatch(t *testing.T) {
	solver := NewSolver(0, nil)

	inst := twoGoodInstance(t, 20, NoQuantityCap())
	inst.Cost = inst.Cost[:1]

	_, err := solver.Solve(inst)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSolveNilInstance(t *testing.T) {
	solver := NewSolver(0, nil)
	_, err := solver.Solve(nil)
	assert.Error(t, err)
}

func TestQuantitiesClipsPresentationOnly(t *testing.T) {
	sol := &Solution{
		Status: StatusOptimal,
		Raw:    []float64{2.0, 3e-9, -4e-12},
	}

	q := sol.Quantities(1e-6)
	assert.Equal(t, []float64{2.0, 0, 0}, q)
	// The stored raw solution is untouched.
	assert.Equal(t, []float64{2.0, 3e-9, -4e-12}, sol.Raw)
}

func TestNewSolverDefaults(t *testing.T) {
	assert.Equal(t, DefaultTolerance, NewSolver(0, nil).Tolerance())
	assert.Equal(t, 1e-9, NewSolver(1e-9, nil).Tolerance())
}
