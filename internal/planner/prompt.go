package planner

import (
	"fmt"
	"strings"

	"chronos/internal/dates"
	"chronos/internal/risk"
	"chronos/internal/types"
)

// systemPrompt carries the standing instructions for the generative
// collaborator: the feasibility pre-check, the authority rules for
// location and dates, and the exact JSON contract expected back.
const systemPrompt = `You are a planning assistant that turns an activity request into a structured plan.

Before planning, perform a feasibility check: decide whether the requested activity is physically possible at the given location. If it is not feasible, set task_feasibility.feasible to false with a clear reason and an alternative suggestion, set plan_a and plan_b to null, set weather_relevance.is_relevant to false, and stop. Never produce plans for an infeasible request.

Rules:
- The location provided is authoritative. Use it for every step and never substitute another place mentioned in the request text.
- All step times must fall within the given date range, inclusive.
- Each step sets time_from and time_to together or leaves both null.
- Step orders start at 1 and are contiguous.
- Produce two plan options: plan_a as the direct approach, plan_b as a weather-mitigated alternative. Mark exactly one of them recommended.
- When weather data is provided, factor it into step timing, risk notes, and each plan's overall_risk and risk_explanation.
- Record the key decisions you made in decision_trace.

Respond with a single JSON object and nothing else, matching exactly this shape:
{
  "original_request": string,
  "location_used": string or null,
  "location_confidence": number between 0 and 1,
  "task_feasibility": {"feasible": bool, "reason": string, "suggestion": string or null},
  "weather_relevance": {"is_relevant": bool, "confidence": number, "explanation": string, "outdoor_activities": [string]},
  "plan_a": plan or null,
  "plan_b": plan or null,
  "decision_trace": [{"decision": string, "reasoning": string, "data_used": string or null}],
  "agent_confidence": number between 0 and 1
}
where plan is:
{
  "name": string,
  "summary": string,
  "steps": [{"order": int, "description": string, "time_from": "YYYY-MM-DDTHH:MM" or null, "time_to": "YYYY-MM-DDTHH:MM" or null, "location": string or null, "weather_sensitive": bool, "risk_note": string or null}],
  "overall_risk": "low" | "medium" | "high" | "critical",
  "risk_explanation": string,
  "recommended": bool
}`

// BuildPrompt assembles the per-request context block submitted alongside
// the system instructions.
func BuildPrompt(req Request, relevance types.WeatherRelevance, obs *types.WeatherObservation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Request: %s\n", req.Text)
	fmt.Fprintf(&b, "Location: %s\n", req.Location)
	if req.StartDate == req.EndDate {
		fmt.Fprintf(&b, "Date: %s\n", dates.FormatHuman(req.StartDate))
	} else {
		fmt.Fprintf(&b, "Date range: %s to %s\n",
			dates.FormatHuman(req.StartDate), dates.FormatHuman(req.EndDate))
	}

	if relevance.IsRelevant {
		fmt.Fprintf(&b, "Weather relevance: relevant (confidence %.1f). %s\n",
			relevance.Confidence, relevance.Explanation)
	} else {
		fmt.Fprintf(&b, "Weather relevance: not relevant. %s\n", relevance.Explanation)
	}

	if obs != nil {
		level := risk.Level(*obs)
		fmt.Fprintf(&b, "Weather for %s: %s\n", obs.ForecastDate, risk.Summary(*obs))
		fmt.Fprintf(&b, "Humidity: %d%%\n", obs.HumidityPercent)
		fmt.Fprintf(&b, "Computed weather risk: %s (%s)\n", level, risk.Explain(level, *obs))
		if obs.IsSimulated {
			b.WriteString("Note: the weather data above is estimated, not a live forecast. Treat it as indicative only.\n")
		}
	} else {
		b.WriteString("No weather data was fetched for this request.\n")
	}

	return b.String()
}
