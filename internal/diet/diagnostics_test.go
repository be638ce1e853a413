package diet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainBindingMinimum(t *testing.T) {
	solver := NewSolver(0, nil)
	inst := twoGoodInstance(t, 20, NoQuantityCap())
	sol, err := solver.Solve(inst)
	require.NoError(t, err)

	report, err := Explain(inst, sol, solver.Tolerance())
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	outcome := report.Outcomes[0]
	assert.Equal(t, "n:min", outcome.Constraint.ID())
	assert.InDelta(t, 20.0, outcome.Realized, 1e-9)
	assert.Equal(t, 20.0, outcome.Bound)
	assert.True(t, outcome.Binding)
	assert.Equal(t, []string{"n:min"}, report.Binding)
}

func TestExplainRestoresMaxRowSign(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	// a yields 10 n and 3 sodium per unit; the sodium maximum is slack at
	// the optimum, and must be reported in original positive magnitude
	// despite the internal sign flip.
	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10, "sodium": 3}},
	}
	inst, err := builder.Build(catalogue, PriceVector{"a": 1.0},
		[]Bound{{Nutrient: "n", Value: 20}},
		[]Bound{{Nutrient: "sodium", Value: 10}},
		NoQuantityCap())
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	report, err := Explain(inst, sol, solver.Tolerance())
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)

	sodium := report.Outcomes[1]
	assert.Equal(t, "sodium:max", sodium.Constraint.ID())
	assert.InDelta(t, 6.0, sodium.Realized, 1e-9)
	assert.Equal(t, 10.0, sodium.Bound)
	assert.InDelta(t, -4.0, sodium.Slack, 1e-9)
	assert.False(t, sodium.Binding)

	assert.Equal(t, []string{"n:min"}, report.Binding)
}

func TestExplainBindingQuantityCap(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10}},
		{Name: "c", Yields: map[string]float64{"n": 20}},
	}
	inst, err := builder.Build(catalogue, PriceVector{"a": 1.0, "c": 5.0},
		[]Bound{{Nutrient: "n", Value: 20}}, nil, 1.5)
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	report, err := Explain(inst, sol, solver.Tolerance())
	require.NoError(t, err)

	// Both the nutrient minimum and the cap limit the optimum, in
	// constraint order.
	assert.Equal(t, []string{"n:min", "total-quantity"}, report.Binding)

	qty := report.Outcomes[1]
	assert.InDelta(t, 1.5, qty.Realized, 1e-9)
	assert.Equal(t, 1.5, qty.Bound)
}

func TestExplainKeepsNegativeBoundSign(t *testing.T) {
	builder := NewBuilder(nil)
	solver := NewSolver(0, nil)

	// A negative minimum is vacuous but legal; its bound must be reported
	// as stated, not as the rhs magnitude.
	catalogue := Catalogue{
		{Name: "a", Yields: map[string]float64{"n": 10}},
	}
	inst, err := builder.Build(catalogue, PriceVector{"a": 1.0},
		[]Bound{{Nutrient: "n", Value: -5}}, nil, NoQuantityCap())
	require.NoError(t, err)

	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	report, err := Explain(inst, sol, solver.Tolerance())
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 1)

	outcome := report.Outcomes[0]
	assert.Equal(t, -5.0, outcome.Bound)
	assert.InDelta(t, 0.0, outcome.Realized, 1e-9)
	assert.InDelta(t, 5.0, outcome.Slack, 1e-9)
	assert.False(t, outcome.Binding)
}

func TestExplainRejectsNonOptimal(t *testing.T) {
	solver := NewSolver(0, nil)
	inst := twoGoodInstance(t, 1000, 1)
	sol, err := solver.Solve(inst)
	require.NoError(t, err)
	require.Equal(t, StatusInfeasible, sol.Status)

	_, err = Explain(inst, sol, solver.Tolerance())
	assert.Error(t, err)
}

func TestExplainNilInputs(t *testing.T) {
	_, err := Explain(nil, nil, 1e-6)
	assert.Error(t, err)
}
