// Package server exposes the diet LP pipeline over HTTP. The core itself
// has no network surface; this package is a caller supplying in-memory
// tabular inputs decoded from JSON.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rationlab/dietlp/internal/config"
	"github.com/rationlab/dietlp/internal/diet"
	"github.com/rationlab/dietlp/internal/logging"
	"github.com/rationlab/dietlp/internal/rdi"
	"github.com/rationlab/dietlp/internal/units"
)

// Logger defines the logging interface used by the server.
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	WithFields(fields map[string]interface{}) *logging.Logger
}

// Server runs synchronous solve requests through the diet pipeline.
type Server struct {
	cfg     *config.Config
	logger  Logger
	builder *diet.Builder
	solver  *diet.Solver
	metrics *Metrics
}

// NewServer creates a server instance with the given config, logger and
// pipeline components. metrics may be nil to disable instrumentation.
func NewServer(cfg *config.Config, logger Logger, builder *diet.Builder, solver *diet.Solver, metrics *Metrics) *Server {
	return &Server{
		cfg:     cfg,
		logger:  logger,
		builder: builder,
		solver:  solver,
		metrics: metrics,
	}
}

// RegisterRoutes attaches the API routes to r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Get("/groups", s.handleGroups)
	})
}

type goodPayload struct {
	Name string `json:"name"`
	// Price per 100 g, or, when Unit is set, the price paid for Quantity
	// of that unit as sold. Goods with no price are excluded from the
	// solve, matching the usable-set rule, rather than rejected.
	Price     *float64           `json:"price,omitempty"`
	Quantity  *float64           `json:"quantity,omitempty"`
	Unit      string             `json:"unit,omitempty"`
	Nutrients map[string]float64 `json:"nutrients"`
}

// unitPayload defines a custom purchase unit as a mass, e.g. a dozen eggs
// at 600 g.
type unitPayload struct {
	Unit  string  `json:"unit"`
	Grams float64 `json:"grams"`
}

type boundPayload struct {
	Nutrient string  `json:"nutrient"`
	Value    float64 `json:"value"`
}

type solveRequest struct {
	Goods []goodPayload `json:"goods"`
	// Group selects a reference-intake cohort; mutually exclusive with
	// explicit bounds.
	Group            string         `json:"group,omitempty"`
	MinBounds        []boundPayload `json:"min_bounds,omitempty"`
	MaxBounds        []boundPayload `json:"max_bounds,omitempty"`
	MaxTotalQuantity *float64       `json:"max_total_quantity,omitempty"`
	// Units registers custom purchase units for this request's goods.
	Units []unitPayload `json:"units,omitempty"`
}

type outcomePayload struct {
	Constraint string  `json:"constraint"`
	Realized   float64 `json:"realized"`
	Bound      float64 `json:"bound"`
	Binding    bool    `json:"binding"`
}

type solveResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	// Cost and Quantities are omitted, not zeroed, when no feasible diet
	// exists.
	Cost       *float64           `json:"cost,omitempty"`
	Quantities map[string]float64 `json:"quantities,omitempty"`
	Outcomes   []outcomePayload   `json:"outcomes,omitempty"`
	Binding    []string           `json:"binding_constraints,omitempty"`
}

// handleSolve runs Build -> Solve -> Explain for one request.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Goods) == 0 {
		s.respondError(w, http.StatusBadRequest, "at least one good is required")
		return
	}
	if req.Group != "" && (len(req.MinBounds) > 0 || len(req.MaxBounds) > 0) {
		s.respondError(w, http.StatusBadRequest, "group and explicit bounds are mutually exclusive")
		return
	}

	mins := toBounds(req.MinBounds)
	maxs := toBounds(req.MaxBounds)
	if req.Group != "" {
		var err error
		mins, maxs, err = rdi.Lookup(req.Group)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	converter := units.NewConverter()
	for _, u := range req.Units {
		if err := converter.Register(u.Unit, u.Grams); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	catalogue := make(diet.Catalogue, 0, len(req.Goods))
	prices := make(diet.PriceVector, len(req.Goods))
	for _, g := range req.Goods {
		catalogue = append(catalogue, diet.Good{Name: g.Name, Yields: g.Nutrients})
		if g.Price == nil {
			continue
		}
		price := *g.Price
		if g.Unit != "" {
			quantity := 1.0
			if g.Quantity != nil {
				quantity = *g.Quantity
			}
			normalized, err := converter.PricePer100g(price, quantity, g.Unit)
			if errors.Is(err, units.ErrUnknownUnit) {
				// A purchase record we cannot normalize makes the good
				// unusable, not the request invalid.
				s.logger.Debug("dropping good with unconvertible price", map[string]interface{}{
					"good": g.Name,
					"unit": g.Unit,
				})
				continue
			}
			if err != nil {
				s.respondError(w, http.StatusBadRequest, fmt.Sprintf("good %q: %v", g.Name, err))
				return
			}
			price = normalized
		}
		prices[g.Name] = price
	}

	quantityCap := diet.NoQuantityCap()
	switch {
	case req.MaxTotalQuantity != nil:
		quantityCap = *req.MaxTotalQuantity
	case s.cfg.Solver.MaxTotalQuantity > 0:
		quantityCap = s.cfg.Solver.MaxTotalQuantity
	}

	start := time.Now()
	instance, err := s.builder.Build(catalogue, prices, mins, maxs, quantityCap)
	if err != nil {
		// Build failures are malformed-input class (duplicate keys).
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	solution, err := s.solver.Solve(instance)
	if err != nil {
		s.logger.Error("solve rejected instance", map[string]interface{}{"error": err.Error()})
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.SolvesTotal.WithLabelValues(solution.Status.String()).Inc()
		s.metrics.SolveDuration.Observe(time.Since(start).Seconds())
	}

	resp := solveResponse{Status: solution.Status.String(), Reason: solution.Reason}
	if solution.Status == diet.StatusOptimal {
		cost := solution.Cost
		resp.Cost = &cost
		resp.Quantities = make(map[string]float64, len(instance.Goods))
		for i, q := range solution.Quantities(s.solver.Tolerance()) {
			resp.Quantities[instance.Goods[i]] = q
		}

		report, err := diet.Explain(instance, solution, s.solver.Tolerance())
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Binding = report.Binding
		resp.Outcomes = make([]outcomePayload, len(report.Outcomes))
		for i, o := range report.Outcomes {
			resp.Outcomes[i] = outcomePayload{
				Constraint: o.Constraint.ID(),
				Realized:   o.Realized,
				Bound:      o.Bound,
				Binding:    o.Binding,
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// handleGroups lists the known reference-intake cohorts.
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"groups": rdi.Groups(),
	})
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.logger.Error("Request error", map[string]interface{}{
		"status":  code,
		"message": message,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	})
}

func toBounds(payload []boundPayload) []diet.Bound {
	if len(payload) == 0 {
		return nil
	}
	bounds := make([]diet.Bound, len(payload))
	for i, b := range payload {
		bounds[i] = diet.Bound{Nutrient: b.Nutrient, Value: b.Value}
	}
	return bounds
}
