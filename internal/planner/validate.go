package planner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"chronos/internal/dates"
	"chronos/internal/llm"
	"chronos/internal/types"
)

// stepTimeLayout is the ISO 8601 minute-precision layout required on
// TaskStep time bounds.
const stepTimeLayout = "2006-01-02T15:04"

// ParseResult turns a raw collaborator response into a validated
// PlanningResult. Every failure mode collapses into a single
// generative_invalid_output error so the caller has exactly one branch to
// route into fallback planning.
func ParseResult(raw, startDate, endDate string, v *validator.Validate) (*types.PlanningResult, error) {
	content := llm.ExtractJSON(raw)
	if content == "" {
		return nil, invalidOutput("no JSON object found in response", nil)
	}

	var result types.PlanningResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, invalidOutput("response is not valid JSON", err)
	}

	if err := v.Struct(&result); err != nil {
		return nil, invalidOutput("response failed schema validation", err)
	}

	if err := checkStructure(&result, startDate, endDate); err != nil {
		return nil, invalidOutput(err.Error(), nil)
	}

	return &result, nil
}

// checkStructure enforces the cross-field invariants the tag validator
// cannot express.
func checkStructure(r *types.PlanningResult, startDate, endDate string) error {
	if !r.TaskFeasibility.Feasible {
		if r.PlanA != nil || r.PlanB != nil {
			return fmt.Errorf("infeasible result carries plan options")
		}
		if r.WeatherRelevance != nil && r.WeatherRelevance.IsRelevant {
			return fmt.Errorf("infeasible result claims weather relevance")
		}
		return nil
	}

	if r.PlanA != nil {
		if err := checkPlan(r.PlanA, startDate, endDate); err != nil {
			return fmt.Errorf("plan_a: %w", err)
		}
	}
	if r.PlanB != nil {
		if err := checkPlan(r.PlanB, startDate, endDate); err != nil {
			return fmt.Errorf("plan_b: %w", err)
		}
	}
	return nil
}

func checkPlan(p *types.PlanOption, startDate, endDate string) error {
	for i, step := range p.Steps {
		if step.Order != i+1 {
			return fmt.Errorf("step %d has order %d, want %d", i, step.Order, i+1)
		}
		if (step.TimeFrom == nil) != (step.TimeTo == nil) {
			return fmt.Errorf("step %d sets only one of time_from/time_to", step.Order)
		}
		if step.TimeFrom == nil {
			continue
		}
		from, err := time.Parse(stepTimeLayout, *step.TimeFrom)
		if err != nil {
			return fmt.Errorf("step %d time_from: %w", step.Order, err)
		}
		to, err := time.Parse(stepTimeLayout, *step.TimeTo)
		if err != nil {
			return fmt.Errorf("step %d time_to: %w", step.Order, err)
		}
		if to.Before(from) {
			return fmt.Errorf("step %d time_to precedes time_from", step.Order)
		}
		if err := checkWithinRange(from, to, startDate, endDate); err != nil {
			return fmt.Errorf("step %d: %w", step.Order, err)
		}
	}
	return nil
}

// checkWithinRange verifies both bounds fall within [startDate, endDate]
// inclusive of the whole end day.
func checkWithinRange(from, to time.Time, startDate, endDate string) error {
	start, err := time.Parse(dates.ISODate, startDate)
	if err != nil {
		return fmt.Errorf("bad start date %q: %w", startDate, err)
	}
	end, err := time.Parse(dates.ISODate, endDate)
	if err != nil {
		return fmt.Errorf("bad end date %q: %w", endDate, err)
	}
	end = end.AddDate(0, 0, 1)

	if from.Before(start) || !to.Before(end) {
		return fmt.Errorf("times fall outside %s..%s", startDate, endDate)
	}
	return nil
}

func invalidOutput(msg string, err error) *types.AppError {
	return types.NewAppError(types.ErrCodeGenerativeInvalidOutput, msg, err)
}
