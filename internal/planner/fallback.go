package planner

import (
	"fmt"

	"chronos/internal/risk"
	"chronos/internal/types"
)

// Confidence reported on fallback results, well below any generative
// result so consumers can tell the two apart.
const fallbackConfidence = 0.3

// Fallback builds a rule-based plan pair without the generative
// collaborator. It is total: any non-empty request/location/date yields a
// complete PlanningResult with two plans. obs may be nil, in which case
// Plan A defaults to medium risk.
func Fallback(request, location, date string, obs *types.WeatherObservation) *types.PlanningResult {
	riskA := types.RiskMedium
	explanation := "No weather data available; assuming moderate risk."
	if obs != nil {
		riskA = risk.Level(*obs)
		explanation = risk.Explain(riskA, *obs)
	}

	mainStep := types.TaskStep{
		Order:            1,
		Description:      fmt.Sprintf("Proceed with: %s", request),
		TimeFrom:         types.StrPtr(date + "T09:00"),
		TimeTo:           types.StrPtr(date + "T17:00"),
		Location:         types.StrPtr(location),
		WeatherSensitive: true,
		RiskNote:         types.StrPtr(fmt.Sprintf("Overall risk: %s", riskA)),
	}

	planA := &types.PlanOption{
		Name:            "Plan A - Direct approach",
		Summary:         "Carry out the request as stated during standard daytime hours.",
		Steps:           []types.TaskStep{mainStep},
		OverallRisk:     riskA,
		RiskExplanation: explanation,
		Recommended:     riskA == types.RiskLow,
	}

	riskB := riskA.Downgrade()
	checkStep := types.TaskStep{
		Order:            1,
		Description:      "Check weather before leaving",
		TimeFrom:         types.StrPtr(date + "T08:00"),
		TimeTo:           types.StrPtr(date + "T08:30"),
		Location:         types.StrPtr(location),
		WeatherSensitive: false,
	}
	shifted := mainStep
	shifted.Order = 2

	planB := &types.PlanOption{
		Name:            "Plan B - Weather-checked approach",
		Summary:         "Verify conditions first, then carry out the request.",
		Steps:           []types.TaskStep{checkStep, shifted},
		OverallRisk:     riskB,
		RiskExplanation: fmt.Sprintf("Risk reduced by checking conditions first. %s", explanation),
		Recommended:     riskA != types.RiskLow,
	}

	return &types.PlanningResult{
		OriginalRequest: request,
		LocationUsed:    types.StrPtr(location),
		TaskFeasibility: types.TaskFeasibility{
			Feasible: true,
			Reason:   "Rule-based fallback assumes the request is feasible as stated.",
		},
		PlanA:           planA,
		PlanB:           planB,
		AgentConfidence: fallbackConfidence,
	}
}
