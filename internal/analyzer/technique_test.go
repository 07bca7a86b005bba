package analyzer

import (
	"math"
	"testing"

	"interviewlab/internal/model"
)

func TestScoreTechniqueRatios(t *testing.T) {
	t.Parallel()

	stage := testStage()
	labels := []model.TurnLabel{
		{Speaker: model.SpeakerUser, TextLen: 50, IsQuestion: true, IsOpenQuestion: true},
		{Speaker: model.SpeakerCounterpart, TextLen: 50},
		{Speaker: model.SpeakerUser, TextLen: 50, IsQuestion: true, IsFollowUp: true},
	}

	_, breakdown := ScoreTechnique(labels, stage)
	if breakdown.OpenRatio != 0.5 {
		t.Fatalf("OpenRatio = %v, want 0.5", breakdown.OpenRatio)
	}
	if breakdown.FollowUpRatio != 0.5 {
		t.Fatalf("FollowUpRatio = %v, want 0.5", breakdown.FollowUpRatio)
	}
}

func TestScoreTechniqueNoQuestions(t *testing.T) {
	t.Parallel()

	stage := testStage()
	labels := []model.TurnLabel{
		{Speaker: model.SpeakerUser, TextLen: 40},
		{Speaker: model.SpeakerCounterpart, TextLen: 40},
	}

	score, breakdown := ScoreTechnique(labels, stage)
	if breakdown.OpenRatio != 0 || breakdown.FollowUpRatio != 0 {
		t.Fatalf("ratios should be zero with no questions: %+v", breakdown)
	}
	if breakdown.TalkBalance != 1.0 {
		t.Fatalf("TalkBalance = %v, want 1.0 for an even split", breakdown.TalkBalance)
	}
	if score.Aggregate != 0.3 {
		t.Fatalf("Aggregate = %v, want 0.3", score.Aggregate)
	}
}

func TestTalkBalance(t *testing.T) {
	t.Parallel()

	stage := testStage()
	tests := []struct {
		name             string
		userChars        int
		counterpartChars int
		want             float64
	}{
		{"even split", 100, 100, 1.0},
		{"user silent", 0, 100, 0.0},
		{"user monologue", 100, 0, 0.0},
		{"user third", 100, 200, 2.0 / 3.0},
		{"empty transcript", 0, 0, 0.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := []model.TurnLabel{
				{Speaker: model.SpeakerUser, TextLen: tt.userChars},
				{Speaker: model.SpeakerCounterpart, TextLen: tt.counterpartChars},
			}
			_, breakdown := ScoreTechnique(labels, stage)
			if math.Abs(breakdown.TalkBalance-tt.want) > 1e-9 {
				t.Fatalf("TalkBalance = %v, want %v", breakdown.TalkBalance, tt.want)
			}
		})
	}
}

func TestTalkBalanceSymmetric(t *testing.T) {
	t.Parallel()

	stage := testStage()
	pairs := [][2]int{{30, 70}, {1, 3}, {123457, 654321}}
	for _, p := range pairs {
		a := []model.TurnLabel{
			{Speaker: model.SpeakerUser, TextLen: p[0]},
			{Speaker: model.SpeakerCounterpart, TextLen: p[1]},
		}
		b := []model.TurnLabel{
			{Speaker: model.SpeakerUser, TextLen: p[1]},
			{Speaker: model.SpeakerCounterpart, TextLen: p[0]},
		}

		_, ba := ScoreTechnique(a, stage)
		_, bb := ScoreTechnique(b, stage)
		if ba.TalkBalance != bb.TalkBalance {
			t.Fatalf("talk balance not symmetric for %v: %v vs %v", p, ba.TalkBalance, bb.TalkBalance)
		}
	}
}

func TestEarlySolutioning(t *testing.T) {
	t.Parallel()

	stage := testStage() // 3 areas, minimum covered before solutioning = 2

	solution := model.TurnLabel{Speaker: model.SpeakerUser, TextLen: 40, MentionsSolutionLanguage: true}
	coversOne := func(area string) model.TurnLabel {
		return model.TurnLabel{Speaker: model.SpeakerUser, TextLen: 40, MatchedAreas: []string{area}}
	}

	tests := []struct {
		name   string
		labels []model.TurnLabel
		want   bool
	}{
		{"solution language up front", []model.TurnLabel{solution}, true},
		{
			"solution after one area",
			[]model.TurnLabel{coversOne("pain_points"), solution},
			true,
		},
		{
			"solution after two areas",
			[]model.TurnLabel{coversOne("pain_points"), coversOne("blockers"), solution},
			false,
		},
		{
			"same turn covers and solutions",
			[]model.TurnLabel{
				coversOne("pain_points"),
				{Speaker: model.SpeakerUser, TextLen: 40, MentionsSolutionLanguage: true, MatchedAreas: []string{"blockers"}},
			},
			true,
		},
		{
			"counterpart solution language ignored",
			[]model.TurnLabel{
				{Speaker: model.SpeakerCounterpart, TextLen: 40, MentionsSolutionLanguage: true},
				coversOne("pain_points"),
			},
			false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, breakdown := ScoreTechnique(tt.labels, stage)
			if breakdown.EarlySolutioning != tt.want {
				t.Fatalf("EarlySolutioning = %v, want %v", breakdown.EarlySolutioning, tt.want)
			}
		})
	}
}

func TestEarlySolutioningGatedByStage(t *testing.T) {
	t.Parallel()

	stage := testStage()
	stage.PenalizeEarlySolutions = false

	labels := []model.TurnLabel{
		{Speaker: model.SpeakerUser, TextLen: 40, MentionsSolutionLanguage: true},
		{Speaker: model.SpeakerUser, TextLen: 40, IsQuestion: true, IsOpenQuestion: true},
	}

	_, breakdown := ScoreTechnique(labels, stage)
	if breakdown.EarlySolutioning {
		t.Fatalf("design stages must not flag early solutioning")
	}
}

func TestCompositeTechnique(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		b    model.TechniqueBreakdown
		want float64
	}{
		{"perfect", model.TechniqueBreakdown{OpenRatio: 1, FollowUpRatio: 1, TalkBalance: 1}, 1.0},
		{"perfect with penalty", model.TechniqueBreakdown{OpenRatio: 1, FollowUpRatio: 1, TalkBalance: 1, EarlySolutioning: true}, 0.85},
		{"weighted mix", model.TechniqueBreakdown{OpenRatio: 0.5, FollowUpRatio: 1, TalkBalance: 0}, 0.5},
		{"penalty clamps at zero", model.TechniqueBreakdown{EarlySolutioning: true}, 0.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CompositeTechnique(tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("CompositeTechnique = %v, want %v", got, tt.want)
			}
		})
	}
}
