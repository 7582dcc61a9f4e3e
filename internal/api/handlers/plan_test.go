package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronos/internal/core"
	"chronos/internal/dates"
	"chronos/internal/locate"
	"chronos/internal/planner"
	"chronos/internal/types"
)

type stubPipeline struct {
	lastReq planner.Request
	outcome types.PlanOutcome
}

func (p *stubPipeline) Plan(_ context.Context, req planner.Request) types.PlanOutcome {
	p.lastReq = req
	return p.outcome
}

type stubLocations struct {
	resolution locate.Resolution
	ok         bool
}

func (s *stubLocations) Resolve(context.Context, locate.Input) (locate.Resolution, bool) {
	return s.resolution, s.ok
}

func successOutcome() types.PlanOutcome {
	return types.PlanOutcome{Result: &types.PlanningResult{
		OriginalRequest: "x",
		TaskFeasibility: types.TaskFeasibility{Feasible: true, Reason: "ok"},
		AgentConfidence: 0.9,
	}}
}

// refNow is a Wednesday.
var refNow = time.Date(2026, time.September, 2, 12, 0, 0, 0, time.UTC)

func newTestHandler(pipeline *stubPipeline, locations *stubLocations) *PlanHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := clockwork.NewFakeClockAt(refNow)
	return NewPlanHandler(
		pipeline,
		locations,
		dates.NewResolver(clock),
		clock,
		core.NewValidator(logger),
		logger,
	)
}

func serve(h *PlanHandler, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlePlanSuccess(t *testing.T) {
	pipeline := &stubPipeline{outcome: successOutcome()}
	locations := &stubLocations{
		resolution: locate.Resolution{Location: "Paris", Confidence: 0.95, Source: locate.SourceExplicit},
		ok:         true,
	}
	h := newTestHandler(pipeline, locations)

	w := serve(h, `{"request": "Plan a beach day", "location": "Paris", "simulate": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Nil(t, resp.Error)

	assert.Equal(t, "Paris", pipeline.lastReq.Location)
	assert.Equal(t, 0.95, pipeline.lastReq.LocationConfidence)
	assert.True(t, pipeline.lastReq.Simulate)
	// "plan" is a planning keyword, so the date resolves to tomorrow.
	assert.Equal(t, "2026-09-03", pipeline.lastReq.StartDate)
	assert.Equal(t, pipeline.lastReq.StartDate, pipeline.lastReq.EndDate)
}

func TestHandlePlanExplicitDatesPassThrough(t *testing.T) {
	pipeline := &stubPipeline{outcome: successOutcome()}
	locations := &stubLocations{
		resolution: locate.Resolution{Location: "Paris", Confidence: 1.0, Source: locate.SourceExplicit},
		ok:         true,
	}
	h := newTestHandler(pipeline, locations)

	w := serve(h, `{"request": "beach trip", "location": "Paris", "start_date": "2026-09-10", "end_date": "2026-09-12"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-09-10", pipeline.lastReq.StartDate)
	assert.Equal(t, "2026-09-12", pipeline.lastReq.EndDate)
}

func TestHandlePlanRejectsWhitespaceRequest(t *testing.T) {
	h := newTestHandler(&stubPipeline{}, &stubLocations{})

	w := serve(h, `{"request": "   ", "location": "Paris"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeValidationEmptyRequest))
}

func TestHandlePlanRejectsMissingRequestField(t *testing.T) {
	h := newTestHandler(&stubPipeline{}, &stubLocations{})

	w := serve(h, `{"location": "Paris"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePlanRejectsReversedDateRange(t *testing.T) {
	locations := &stubLocations{
		resolution: locate.Resolution{Location: "Paris", Confidence: 1.0},
		ok:         true,
	}
	h := newTestHandler(&stubPipeline{}, locations)

	w := serve(h, `{"request": "beach trip", "location": "Paris", "start_date": "2026-09-12", "end_date": "2026-09-10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeValidationDateRange))
}

func TestHandlePlanRejectsMalformedDate(t *testing.T) {
	h := newTestHandler(&stubPipeline{}, &stubLocations{})

	w := serve(h, `{"request": "beach trip", "location": "Paris", "start_date": "12/09/2026"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlePlanRejectsVagueLocation(t *testing.T) {
	h := newTestHandler(&stubPipeline{}, &stubLocations{})

	w := serve(h, `{"request": "beach trip", "location": "somewhere"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeValidationAmbiguousLocation))
}

func TestHandlePlanRejectsUnresolvableLocation(t *testing.T) {
	h := newTestHandler(&stubPipeline{}, &stubLocations{ok: false})

	w := serve(h, `{"request": "beach trip"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), string(types.ErrCodeValidationEmptyLocation))
}

func TestHandlePlanPipelineErrorReturns500(t *testing.T) {
	pipeline := &stubPipeline{outcome: types.PlanOutcome{Err: &types.PlanError{
		ErrorType:  string(types.ErrCodeInternalUnexpected),
		Message:    "unexpected failure",
		Suggestion: "try again",
	}}}
	locations := &stubLocations{
		resolution: locate.Resolution{Location: "Paris", Confidence: 1.0},
		ok:         true,
	}
	h := newTestHandler(pipeline, locations)

	w := serve(h, `{"request": "beach trip", "location": "Paris"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "try again", resp.Error.Suggestion)
}
