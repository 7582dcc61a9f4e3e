// Package planner holds the top-level planning pipeline: classification,
// conditional weather lookup, the generative collaborator call with schema
// validation of its output, enrichment with pipeline-authoritative fields,
// and the rule-based fallback. Plan never fails: it always returns either a
// PlanningResult or a structured PlanError.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"chronos/internal/classify"
	"chronos/internal/risk"
	"chronos/internal/types"
	"chronos/internal/weather"
)

// Relevance confidence by classification outcome.
const (
	confidenceMatchedActivities = 0.9
	confidenceDefault           = 0.7
)

// Generator is the generative collaborator contract, satisfied by
// llm.Client.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Metrics is the telemetry hook for pipeline outcomes. A nil Metrics
// disables recording.
type Metrics interface {
	RecordGenerativeCall(outcome string)
	RecordFallbackPlan()
	RecordPlanOutcome(outcome string)
}

// Request is one fully-resolved planning invocation. Location resolution
// happens upstream; the pipeline treats Location as authoritative and never
// re-derives it.
type Request struct {
	Text               string
	Location           string
	LocationConfidence float64
	// ExtractedLocation is the heuristic extraction recorded for
	// transparency, if one was made. It never overrides Location.
	ExtractedLocation *string
	StartDate         string // YYYY-MM-DD
	EndDate           string // YYYY-MM-DD
	Simulate          bool
}

// Orchestrator runs the planning pipeline.
type Orchestrator struct {
	gen      Generator
	weather  *weather.Source
	validate *validator.Validate
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  Metrics
}

// NewOrchestrator creates an Orchestrator. metrics may be nil.
func NewOrchestrator(gen Generator, src *weather.Source, v *validator.Validate, clock clockwork.Clock, logger *slog.Logger, metrics Metrics) *Orchestrator {
	return &Orchestrator{
		gen:      gen,
		weather:  src,
		validate: v,
		clock:    clock,
		logger:   logger.With("component", "planner"),
		metrics:  metrics,
	}
}

// Plan runs the full pipeline for one request. It never panics and never
// returns an error value: the outcome carries either a PlanningResult or a
// PlanError, exactly one of them non-nil.
func (o *Orchestrator) Plan(ctx context.Context, req Request) (outcome types.PlanOutcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("planning pipeline panicked", "panic", r, "request", req.Text)
			o.recordOutcome("error")
			outcome = types.PlanOutcome{Err: &types.PlanError{
				ErrorType:         string(types.ErrCodeInternalUnexpected),
				Message:           fmt.Sprintf("unexpected failure: %v", r),
				FallbackAvailable: false,
				Suggestion:        "Please try again. If the problem persists, simplify the request.",
			}}
		}
	}()

	req.Location = strings.TrimSpace(req.Location)

	relevance := assessRelevance(req.Text)

	var obs *types.WeatherObservation
	var trace []types.DecisionPoint
	if relevance.IsRelevant {
		// Multi-day ranges plan around the first day.
		observed := o.weather.GetWeather(ctx, req.Location, req.StartDate, req.Simulate)
		obs = &observed
		trace = append(trace, types.DecisionPoint{
			Decision: "Fetched weather data",
			Reason:   fmt.Sprintf("Activity is weather-sensitive (confidence %.1f)", relevance.Confidence),
			DataUsed: types.StrPtr(risk.Summary(observed)),
		})
	} else {
		trace = append(trace, types.DecisionPoint{
			Decision: "Skipped weather lookup",
			Reason:   "Activity is not weather-sensitive",
		})
	}

	result, genErr := o.generate(ctx, req, relevance, obs)
	if genErr != nil {
		o.logger.Warn("generative planning failed, using fallback",
			"error", genErr, "request", req.Text)
		o.recordFallback()
		result = Fallback(req.Text, req.Location, req.StartDate, obs)
		trace = append(trace, types.DecisionPoint{
			Decision: "Used fallback planning",
			Reason:   "Generative planning was unavailable or returned invalid output",
		})
	}

	o.enrich(result, req, relevance, obs, trace)
	o.recordOutcome("result")
	return types.PlanOutcome{Result: result}
}

// generate calls the collaborator and validates its output. Both transport
// failure and invalid output come back as an error, leaving the caller a
// single fallback branch.
func (o *Orchestrator) generate(ctx context.Context, req Request, relevance types.WeatherRelevance, obs *types.WeatherObservation) (*types.PlanningResult, error) {
	raw, err := o.gen.Complete(ctx, systemPrompt, BuildPrompt(req, relevance, obs))
	if err != nil {
		o.recordGenerative("error")
		return nil, err
	}

	result, err := ParseResult(raw, req.StartDate, req.EndDate, o.validate)
	if err != nil {
		o.recordGenerative("invalid_output")
		return nil, err
	}

	o.recordGenerative("success")
	return result, nil
}

// enrich overwrites the collaborator's echo of pipeline-owned fields with
// the authoritative values and prepends the pipeline's decision trace.
func (o *Orchestrator) enrich(result *types.PlanningResult, req Request, relevance types.WeatherRelevance, obs *types.WeatherObservation, trace []types.DecisionPoint) {
	result.OriginalRequest = req.Text
	result.ExtractedLocation = req.ExtractedLocation
	result.StartDate = types.StrPtr(req.StartDate)
	result.EndDate = types.StrPtr(req.EndDate)
	result.LocationUsed = types.StrPtr(req.Location)
	result.LocationConfidence = req.LocationConfidence
	result.WeatherData = obs
	result.GeneratedAt = types.Timestamp(o.clock.Now())

	if result.TaskFeasibility.Feasible {
		result.WeatherRelevance = &relevance
	} else {
		result.WeatherRelevance = &types.WeatherRelevance{
			IsRelevant:  false,
			Confidence:  relevance.Confidence,
			Explanation: "Request is not feasible; weather does not apply.",
		}
	}

	result.DecisionTrace = append(trace, result.DecisionTrace...)
}

// assessRelevance wraps the keyword classifier into the wire-level
// relevance assessment.
func assessRelevance(text string) types.WeatherRelevance {
	cls := classify.Classify(text)

	if len(cls.Activities) > 0 {
		return types.WeatherRelevance{
			IsRelevant:        cls.Sensitive,
			Confidence:        confidenceMatchedActivities,
			Explanation:       fmt.Sprintf("Detected outdoor activities: %s", strings.Join(cls.Activities, ", ")),
			OutdoorActivities: cls.Activities,
		}
	}

	explanation := "No outdoor activities detected; request appears weather-insensitive"
	if cls.Sensitive {
		explanation = "No specific activities recognized; assuming weather may matter"
	}
	return types.WeatherRelevance{
		IsRelevant:  cls.Sensitive,
		Confidence:  confidenceDefault,
		Explanation: explanation,
	}
}

func (o *Orchestrator) recordGenerative(outcome string) {
	if o.metrics != nil {
		o.metrics.RecordGenerativeCall(outcome)
	}
}

func (o *Orchestrator) recordFallback() {
	if o.metrics != nil {
		o.metrics.RecordFallbackPlan()
	}
}

func (o *Orchestrator) recordOutcome(outcome string) {
	if o.metrics != nil {
		o.metrics.RecordPlanOutcome(outcome)
	}
}
