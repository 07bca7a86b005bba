package analyzer

import (
	"math"
	"testing"

	"interviewlab/internal/model"
)

func TestScoreIndependence(t *testing.T) {
	t.Parallel()

	stage := testStage()
	hint := func(area string, et model.HintEventType) model.HintEvent {
		return model.HintEvent{SessionID: "s1", AreaID: area, EventType: et}
	}

	tests := []struct {
		name    string
		hints   []model.HintEvent
		perArea map[string]float64
		agg     float64
	}{
		{
			name:    "no hints keeps full score",
			hints:   nil,
			perArea: map[string]float64{"pain_points": 1.0, "blockers": 1.0, "metrics": 1.0},
			agg:     1.0,
		},
		{
			name:    "clicked costs more than shown",
			hints:   []model.HintEvent{hint("pain_points", model.HintShown), hint("blockers", model.HintClicked)},
			perArea: map[string]float64{"pain_points": 0.9, "blockers": 0.7, "metrics": 1.0},
			agg:     (0.9 + 0.7 + 1.0) / 3,
		},
		{
			name: "repeated clicks clamp at zero",
			hints: []model.HintEvent{
				hint("metrics", model.HintClicked),
				hint("metrics", model.HintClicked),
				hint("metrics", model.HintClicked),
				hint("metrics", model.HintClicked),
			},
			perArea: map[string]float64{"pain_points": 1.0, "blockers": 1.0, "metrics": 0.0},
			agg:     2.0 / 3,
		},
		{
			name:    "unattributed hint spreads a reduced charge",
			hints:   []model.HintEvent{hint("", model.HintAsked)},
			perArea: map[string]float64{"pain_points": 0.95, "blockers": 0.95, "metrics": 0.95},
			agg:     0.95,
		},
		{
			name:    "unknown area treated as unattributed",
			hints:   []model.HintEvent{hint("made_up_area", model.HintAsked)},
			perArea: map[string]float64{"pain_points": 0.95, "blockers": 0.95, "metrics": 0.95},
			agg:     0.95,
		},
		{
			name:    "unknown event type ignored",
			hints:   []model.HintEvent{{SessionID: "s1", AreaID: "metrics", EventType: "hovered"}},
			perArea: map[string]float64{"pain_points": 1.0, "blockers": 1.0, "metrics": 1.0},
			agg:     1.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ScoreIndependence(tt.hints, stage)
			if got.Kind != model.ScoreIndependence {
				t.Fatalf("Kind = %q", got.Kind)
			}
			for area, want := range tt.perArea {
				if v, ok := got.PerArea[area]; !ok || math.Abs(v-want) > 1e-9 {
					t.Fatalf("PerArea[%s] = %v, want %v", area, v, want)
				}
			}
			if math.Abs(got.Aggregate-tt.agg) > 1e-9 {
				t.Fatalf("Aggregate = %v, want %v", got.Aggregate, tt.agg)
			}
		})
	}
}

func TestScoreIndependenceOrdering(t *testing.T) {
	t.Parallel()

	stage := testStage()
	kinds := []model.HintEventType{model.HintShown, model.HintEdited, model.HintAsked, model.HintClicked}

	prev := 1.1
	for _, kind := range kinds {
		got := ScoreIndependence([]model.HintEvent{{SessionID: "s1", AreaID: "pain_points", EventType: kind}}, stage)
		score := got.PerArea["pain_points"]
		if score >= prev {
			t.Fatalf("penalty for %s (score %v) not strictly harsher than the previous event type", kind, score)
		}
		prev = score
	}
}
