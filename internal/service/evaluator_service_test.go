package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"interviewlab/internal/analyzer"
	"interviewlab/internal/catalog"
	"interviewlab/internal/config"
	"interviewlab/internal/model"
)

func testInput(t *testing.T) analyzer.Input {
	t.Helper()
	stage, ok := catalog.New().Stage("problem_exploration")
	if !ok {
		t.Fatal("problem_exploration missing from catalog")
	}
	return analyzer.Input{
		SessionID: "eval-1",
		Stage:     stage,
		Mode:      model.ModeAssess,
		Turns: []model.Turn{
			{Index: 0, Speaker: model.SpeakerUser, Text: "What are your main pain points?"},
			{Index: 1, Speaker: model.SpeakerCounterpart, Text: "Approvals, mostly."},
			{Index: 2, Speaker: model.SpeakerUser, Text: "How does that affect your customers?"},
			{Index: 3, Speaker: model.SpeakerCounterpart, Text: "They chase us for updates."},
		},
	}
}

func newTestEvaluator(baseURL string, timeoutMS int) *EvaluatorService {
	cfg := &config.AIConfig{
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Model:     "gemini-test",
		TimeoutMS: timeoutMS,
	}
	return NewEvaluatorService(cfg, analyzer.New(), zap.NewNop())
}

func geminiEnvelope(t *testing.T, inner string) []byte {
	t.Helper()
	env := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]string{"text": inner},
					},
				},
			},
		},
	}
	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return b
}

func TestAnalyzeSessionSanitizesRemoteReport(t *testing.T) {
	t.Parallel()

	inner := `{
		"coverageScores": {"pain_points": 90, "blockers": 100, "handoffs": 70, "constraints": 40, "bogus": 100},
		"technique": {"openRatio": 80, "followUpRatio": 50, "talkBalance": 100, "earlySolutioning": true},
		"independence": {"pain_points": 50, "bogus": 10},
		"nextTimeScripts": ["  ", "What constraints shape the work?"],
		"coaching": {
			"closedQuestionRewrites": [
				{"turnIndex": 0, "original": "Is it slow?", "rewrite": "How slow is it?"},
				{"turnIndex": 1, "original": "", "rewrite": "dropped"}
			],
			"miniLessons": [
				{"areaId": "constraints", "tip": "Ask about budgets early."},
				{"areaId": "bogus", "tip": "invented area"}
			]
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiEnvelope(t, inner))
	}))
	defer srv.Close()

	in := testInput(t)
	report := newTestEvaluator(srv.URL, 2000).AnalyzeSession(context.Background(), in)

	if report.Source != model.SourceGemini {
		t.Fatalf("Source = %q, want gemini", report.Source)
	}

	// 0-100 payloads rescaled, unknown areas dropped, missing areas filled.
	wantCoverage := map[string]float64{
		"pain_points":     0.9,
		"blockers":        1.0,
		"handoffs":        0.7,
		"constraints":     0.4,
		"customer_impact": analyzer.CoverageFloor,
	}
	for area, want := range wantCoverage {
		if got := report.CoverageScores[area]; math.Abs(got-want) > 1e-9 {
			t.Fatalf("coverage[%s] = %v, want %v", area, got, want)
		}
	}
	if _, ok := report.CoverageScores["bogus"]; ok {
		t.Fatal("invented area survived sanitization")
	}
	if _, ok := report.Independence["bogus"]; ok {
		t.Fatal("invented independence area survived sanitization")
	}
	if got := report.Independence["pain_points"]; got != 0.5 {
		t.Fatalf("independence[pain_points] = %v, want 0.5", got)
	}
	if got := report.Independence["blockers"]; got != 1.0 {
		t.Fatalf("independence[blockers] = %v, want default 1.0", got)
	}

	if report.Technique.OpenRatio != 0.8 || report.Technique.TalkBalance != 1.0 {
		t.Fatalf("technique not rescaled: %+v", report.Technique)
	}
	if !report.Technique.EarlySolutioning {
		t.Fatal("early solutioning flag dropped for a stage that penalizes it")
	}

	if !reflect.DeepEqual(report.CoveredAreas, []string{"pain_points", "blockers", "handoffs"}) {
		t.Fatalf("CoveredAreas = %v", report.CoveredAreas)
	}
	if !reflect.DeepEqual(report.MissedAreas, []string{"constraints", "customer_impact"}) {
		t.Fatalf("MissedAreas = %v", report.MissedAreas)
	}

	if !reflect.DeepEqual(report.NextTimeScripts, []string{"What constraints shape the work?"}) {
		t.Fatalf("NextTimeScripts = %v", report.NextTimeScripts)
	}
	wantRewrites := []model.ClosedQuestionRewrite{
		{TurnIndex: 0, Original: "Is it slow?", Rewrite: "How slow is it?"},
	}
	if !reflect.DeepEqual(report.Coaching.ClosedQuestionRewrites, wantRewrites) {
		t.Fatalf("rewrites = %+v", report.Coaching.ClosedQuestionRewrites)
	}
	wantLessons := []model.MiniLesson{
		{AreaID: "constraints", Tip: "Ask about budgets early."},
		{AreaID: "customer_impact", Tip: "Tie every internal problem to customer impact; it is what makes the business case land."},
	}
	if !reflect.DeepEqual(report.Coaching.MiniLessons, wantLessons) {
		t.Fatalf("lessons = %+v", report.Coaching.MiniLessons)
	}

	if report.Overall < 0 || report.Overall > 1 {
		t.Fatalf("Overall out of range: %v", report.Overall)
	}
	if report.Passed != (report.Overall >= in.Stage.PassThreshold) {
		t.Fatalf("Passed = %v inconsistent with Overall %v", report.Passed, report.Overall)
	}
}

func TestAnalyzeSessionFallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   []byte
	}{
		{"non-200 status", http.StatusInternalServerError, nil},
		{"malformed analysis JSON", http.StatusOK, geminiEnvelope(t, "not json at all")},
		{"no coverage scores", http.StatusOK, geminiEnvelope(t, `{"technique": {"openRatio": 1.0}}`)},
		{"empty candidates", http.StatusOK, []byte(`{"candidates": []}`)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write(tt.body)
			}))
			defer srv.Close()

			report := newTestEvaluator(srv.URL, 2000).AnalyzeSession(context.Background(), testInput(t))
			if report.Source != model.SourceHeuristic {
				t.Fatalf("Source = %q, want heuristic fallback", report.Source)
			}
			if len(report.CoverageScores) != 5 {
				t.Fatalf("fallback report malformed: %+v", report)
			}
		})
	}
}

func TestAnalyzeSessionTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	body := geminiEnvelope(t, `{"coverageScores": {"pain_points": 1.0}}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write(body)
	}))
	defer srv.Close()

	report := newTestEvaluator(srv.URL, 50).AnalyzeSession(context.Background(), testInput(t))
	if report.Source != model.SourceHeuristic {
		t.Fatalf("Source = %q, want heuristic after timeout", report.Source)
	}
}

func TestAnalyzeSessionDisabledSkipsRemote(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := &config.AIConfig{APIKey: "", BaseURL: srv.URL, Model: "gemini-test", TimeoutMS: 2000}
	evaluator := NewEvaluatorService(cfg, analyzer.New(), zap.NewNop())

	report := evaluator.AnalyzeSession(context.Background(), testInput(t))
	if called {
		t.Fatal("remote endpoint called without an API key")
	}
	if report.Source != model.SourceHeuristic {
		t.Fatalf("Source = %q, want heuristic", report.Source)
	}
}

func TestAnalyzeSessionShortTranscriptSkipsRemote(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	in := testInput(t)
	in.Turns = in.Turns[:2] // a single user turn

	report := newTestEvaluator(srv.URL, 2000).AnalyzeSession(context.Background(), in)
	if called {
		t.Fatal("remote endpoint called for a degenerate transcript")
	}
	if report.Source != model.SourceDefault {
		t.Fatalf("Source = %q, want floor default", report.Source)
	}
	if report.Passed {
		t.Fatal("floor report must not pass")
	}
}
