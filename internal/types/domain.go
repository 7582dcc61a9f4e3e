// Package types defines the core domain model for the Chronos planning
// pipeline: weather observations, risk levels, plan structures, the
// decision trace, and the tagged result/error outcome returned by the
// orchestrator. These types are shared by every layer and carry both the
// JSON contract (wire schema) and the validation tags enforced on
// collaborator output.
package types

import "time"

// RiskLevel is the discrete weather-risk rating assigned to a plan or
// observation. Levels are totally ordered by increasing severity.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Severity returns the ordinal position of the level, with RiskLow == 0.
// Unknown levels map to the most severe ordinal so that malformed input
// is never treated as safe.
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 3
	}
}

// Downgrade returns the level one step less severe. RiskCritical downgrades
// to RiskMedium rather than stepping to RiskHigh: a mitigation step cannot
// make critical weather merely "high", but it does take it out of the
// critical band. RiskLow downgrades to itself.
func (r RiskLevel) Downgrade() RiskLevel {
	switch r {
	case RiskCritical:
		return RiskMedium
	case RiskHigh:
		return RiskMedium
	case RiskMedium:
		return RiskLow
	default:
		return RiskLow
	}
}

// Badge returns the presentation-layer emoji for the level.
func (r RiskLevel) Badge() string {
	switch r {
	case RiskLow:
		return "🟢"
	case RiskMedium:
		return "🟡"
	case RiskHigh:
		return "🟠"
	case RiskCritical:
		return "🔴"
	default:
		return "⚪"
	}
}

// Valid reports whether the level is one of the four defined values.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// WeatherObservation is a single-day weather snapshot for a location.
// Observations are constructed once by the weather source (live fetch or
// simulation) and never mutated afterwards, except that IsSimulated is
// forced true when a live fetch silently degrades to simulation.
type WeatherObservation struct {
	Location            string  `json:"location"`
	ForecastDate        string  `json:"forecast_date"` // YYYY-MM-DD
	TemperatureCelsius  float64 `json:"temperature_celsius"`
	Condition           string  `json:"condition"`
	PrecipitationChance int     `json:"precipitation_chance" validate:"gte=0,lte=100"`
	WindSpeedKmh        float64 `json:"wind_speed_kmh" validate:"gte=0"`
	HumidityPercent     int     `json:"humidity_percent" validate:"gte=0,lte=100"`
	IsSimulated         bool    `json:"is_simulated"`
}

// TaskStep is one atomic unit of a plan. TimeFrom and TimeTo are ISO 8601
// datetimes (YYYY-MM-DDTHH:MM); either both are present or both are nil.
type TaskStep struct {
	Order            int     `json:"order" validate:"gte=1"`
	Description      string  `json:"description" validate:"required"`
	TimeFrom         *string `json:"time_from"`
	TimeTo           *string `json:"time_to"`
	Location         *string `json:"location"`
	WeatherSensitive bool    `json:"weather_sensitive"`
	RiskNote         *string `json:"risk_note"`
}

// PlanOption is a named, ordered sequence of steps with an overall risk
// rating. Across the two options of one response, at most one is recommended.
type PlanOption struct {
	Name            string     `json:"name" validate:"required"`
	Summary         string     `json:"summary"`
	Steps           []TaskStep `json:"steps" validate:"min=1,dive"`
	OverallRisk     RiskLevel  `json:"overall_risk" validate:"oneof=low medium high critical"`
	RiskExplanation string     `json:"risk_explanation"`
	Recommended     bool       `json:"recommended"`
}

// TaskFeasibility is the pre-planning reality check: whether the requested
// activity is physically possible at the given location.
type TaskFeasibility struct {
	Feasible   bool    `json:"feasible"`
	Reason     string  `json:"reason" validate:"required"`
	Suggestion *string `json:"suggestion"`
}

// WeatherRelevance is the pipeline's assessment of whether weather
// materially affects the request. It is computed by the classifier, never
// by the generative collaborator.
type WeatherRelevance struct {
	IsRelevant        bool     `json:"is_relevant"`
	Confidence        float64  `json:"confidence" validate:"gte=0,lte=1"`
	Explanation       string   `json:"explanation"`
	OutdoorActivities []string `json:"outdoor_activities"`
}

// DecisionPoint is one entry of the append-only decision trace: what was
// decided, why, and the data (if any) that justified it. Pipeline decisions
// are prepended before collaborator-reported ones, preserving causal order.
type DecisionPoint struct {
	Decision string  `json:"decision" validate:"required"`
	Reason   string  `json:"reasoning" validate:"required"`
	DataUsed *string `json:"data_used"`
}

// PlanningResult is the root aggregate for one successful pipeline
// invocation. The orchestrator is its sole mutator during enrichment;
// consumers treat it as read-only once returned.
type PlanningResult struct {
	OriginalRequest    string              `json:"original_request" validate:"required"`
	ExtractedLocation  *string             `json:"extracted_location"`
	StartDate          *string             `json:"start_date"`
	EndDate            *string             `json:"end_date"`
	LocationUsed       *string             `json:"location_used"`
	LocationConfidence float64             `json:"location_confidence" validate:"gte=0,lte=1"`
	TaskFeasibility    TaskFeasibility     `json:"task_feasibility"`
	WeatherRelevance   *WeatherRelevance   `json:"weather_relevance"`
	WeatherData        *WeatherObservation `json:"weather_data"`
	PlanA              *PlanOption         `json:"plan_a"`
	PlanB              *PlanOption         `json:"plan_b"`
	DecisionTrace      []DecisionPoint     `json:"decision_trace" validate:"dive"`
	GeneratedAt        string              `json:"generated_at"`
	AgentConfidence    float64             `json:"agent_confidence" validate:"gte=0,lte=1"`
}

// PlanError is the alternative terminal outcome of a pipeline invocation.
// It renders as a message plus a suggestion, never a stack trace.
type PlanError struct {
	ErrorType         string `json:"error_type"`
	Message           string `json:"message"`
	FallbackAvailable bool   `json:"fallback_available"`
	Suggestion        string `json:"suggestion"`
}

// PlanOutcome is the tagged union returned by the orchestrator: exactly one
// of Result or Err is non-nil. Call sites must handle both branches.
type PlanOutcome struct {
	Result *PlanningResult
	Err    *PlanError
}

// Success reports whether the outcome carries a PlanningResult.
func (o PlanOutcome) Success() bool {
	return o.Result != nil
}

// StrPtr returns a pointer to s. Helper for the optional string fields of
// the wire schema.
func StrPtr(s string) *string {
	return &s
}

// Timestamp formats t in the layout used for GeneratedAt.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}
