// Package handlers contains the HTTP handler implementations for the
// Chronos API. Handlers own request decoding and input validation (the
// error taxonomy's rejected-request class) and delegate all planning work
// to the pipeline, which never fails.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"chronos/internal/core"
	"chronos/internal/dates"
	"chronos/internal/locate"
	"chronos/internal/planner"
	"chronos/internal/types"
)

// PlanPipeline is the planning pipeline contract, satisfied by
// planner.Orchestrator.
type PlanPipeline interface {
	Plan(ctx context.Context, req planner.Request) types.PlanOutcome
}

// LocationResolver resolves a location from explicit fields and free text,
// satisfied by locate.Resolver.
type LocationResolver interface {
	Resolve(ctx context.Context, in locate.Input) (locate.Resolution, bool)
}

// PlanRequest is the request body for POST /v1/plan.
type PlanRequest struct {
	Request   string `json:"request" validate:"required,max=2000"`
	Location  string `json:"location" validate:"omitempty,max=200"`
	StartDate string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
	Simulate  bool   `json:"simulate"`
}

// PlanResponse carries exactly one of Result or Error, mirroring the
// pipeline's tagged outcome.
type PlanResponse struct {
	Result *types.PlanningResult `json:"result,omitempty"`
	Error  *types.PlanError      `json:"error,omitempty"`
}

// PlanHandler serves the planning endpoint.
type PlanHandler struct {
	pipeline  PlanPipeline
	locations LocationResolver
	dates     *dates.Resolver
	clock     clockwork.Clock
	validator *core.Validator
	logger    *slog.Logger
}

// NewPlanHandler creates a PlanHandler.
func NewPlanHandler(
	pipeline PlanPipeline,
	locations LocationResolver,
	dateResolver *dates.Resolver,
	clock clockwork.Clock,
	validator *core.Validator,
	logger *slog.Logger,
) *PlanHandler {
	return &PlanHandler{
		pipeline:  pipeline,
		locations: locations,
		dates:     dateResolver,
		clock:     clock,
		validator: validator,
		logger:    logger.With("handler", "plan"),
	}
}

// RegisterRoutes mounts the planning endpoints onto the mux.
func (h *PlanHandler) RegisterRoutes(r chi.Router) {
	r.Post("/plan", h.HandlePlan)
}

// HandlePlan handles POST /v1/plan.
//
// Invalid caller input (empty request, unresolvable or ambiguous location,
// reversed date range) is rejected with a 400-class AppError before any
// pipeline work begins. Once input is accepted, the pipeline always
// produces a renderable outcome: a PlanningResult (200) or a structured
// PlanError (500).
func (h *PlanHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var body PlanRequest
	if err := core.DecodeJSON(w, r, &body); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		core.Error(w, r, err)
		return
	}

	body.Request = strings.TrimSpace(body.Request)
	if body.Request == "" {
		core.Error(w, r, types.NewAppError(
			types.ErrCodeValidationEmptyRequest, "request text must not be empty", nil))
		return
	}

	resolution, extracted, err := h.resolveLocation(r.Context(), body)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	startDate, endDate, err := h.resolveDates(body)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	outcome := h.pipeline.Plan(r.Context(), planner.Request{
		Text:               body.Request,
		Location:           resolution.Location,
		LocationConfidence: resolution.Confidence,
		ExtractedLocation:  extracted,
		StartDate:          startDate,
		EndDate:            endDate,
		Simulate:           body.Simulate,
	})

	if outcome.Success() {
		core.JSON(w, r, http.StatusOK, PlanResponse{Result: outcome.Result})
		return
	}
	core.JSON(w, r, http.StatusInternalServerError, PlanResponse{Error: outcome.Err})
}

// resolveLocation applies the location priority chain and converts
// resolution failures into the request-validation error class.
func (h *PlanHandler) resolveLocation(ctx context.Context, body PlanRequest) (locate.Resolution, *string, error) {
	explicit := strings.TrimSpace(body.Location)
	if explicit != "" && locate.IsAmbiguous(explicit) {
		return locate.Resolution{}, nil, types.NewAppError(
			types.ErrCodeValidationAmbiguousLocation,
			"location is too vague; name a specific city", nil)
	}

	resolution, ok := h.locations.Resolve(ctx, locate.Input{
		City:     explicit,
		FreeText: body.Request,
	})
	if !ok {
		return locate.Resolution{}, nil, types.NewAppError(
			types.ErrCodeValidationEmptyLocation,
			"could not determine a location; provide one explicitly", nil)
	}

	var extracted *string
	if resolution.Source == locate.SourceExtracted {
		extracted = types.StrPtr(resolution.Location)
	}
	return resolution, extracted, nil
}

// resolveDates fills missing dates from the request text, defaulting to
// today, and rejects reversed ranges.
func (h *PlanHandler) resolveDates(body PlanRequest) (string, string, error) {
	startDate := body.StartDate
	if startDate == "" {
		if resolved, ok := h.dates.Resolve(body.Request); ok {
			startDate = resolved
		} else {
			startDate = h.clock.Now().Format(dates.ISODate)
		}
	}

	endDate := body.EndDate
	if endDate == "" {
		endDate = startDate
	}

	start, err := time.Parse(dates.ISODate, startDate)
	if err != nil {
		return "", "", types.NewAppError(
			types.ErrCodeValidationInvalidDate, "start_date is not a valid date", err)
	}
	end, err := time.Parse(dates.ISODate, endDate)
	if err != nil {
		return "", "", types.NewAppError(
			types.ErrCodeValidationInvalidDate, "end_date is not a valid date", err)
	}
	if end.Before(start) {
		return "", "", types.NewAppError(
			types.ErrCodeValidationDateRange, "end_date must not precede start_date", nil)
	}

	return startDate, endDate, nil
}
