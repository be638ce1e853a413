package diet

import "math"

// ConstraintOutcome compares one constraint's realized outcome against its
// bound, both in original sign and magnitude.
type ConstraintOutcome struct {
	Constraint Constraint
	// Realized is the nutrient total (or total quantity) the solution
	// actually delivers.
	Realized float64
	Bound    float64
	// Slack is Realized - Bound: surplus above a minimum, or negative
	// headroom below a maximum.
	Slack   float64
	Binding bool
}

// Report is the diagnostic view of an optimal solution.
type Report struct {
	Outcomes []ConstraintOutcome
	// Binding lists the IDs of constraints satisfied with equality, in
	// constraint order. These are the bounds limiting the optimal cost.
	Binding []string
}

// Explain computes per-constraint outcomes for an optimal solution and
// identifies the binding constraints. A constraint is binding when its
// realized outcome matches its bound within tol.
func Explain(inst *ProblemInstance, sol *Solution, tol float64) (*Report, error) {
	const op = "Explain"
	if inst == nil || sol == nil {
		return nil, NewErrorf(op, "nil instance or solution")
	}
	if err := inst.validate(); err != nil {
		return nil, WrapError(err, op)
	}
	if sol.Status != StatusOptimal {
		return nil, NewErrorf(op, "cannot explain a %s solution", sol.Status)
	}
	if len(sol.Raw) != inst.NumGoods() {
		return nil, NewErrorf(op, "solution has %d quantities for %d goods", len(sol.Raw), inst.NumGoods())
	}
	if tol <= 0 {
		tol = DefaultTolerance
	}

	realized := sol.Intake
	if realized == nil {
		realized = realizedIntake(inst, sol.Raw)
	}

	report := &Report{Outcomes: make([]ConstraintOutcome, inst.NumConstraints())}
	for i, c := range inst.Constraints {
		// The constraint metadata carries the bound in original magnitude;
		// the rhs vector may have flipped its sign for the ">=" form.
		bound := c.Bound
		outcome := ConstraintOutcome{
			Constraint: c,
			Realized:   realized[i],
			Bound:      bound,
			Slack:      realized[i] - bound,
			Binding:    math.Abs(realized[i]-bound) <= tol,
		}
		report.Outcomes[i] = outcome
		if outcome.Binding {
			report.Binding = append(report.Binding, c.ID())
		}
	}
	return report, nil
}
