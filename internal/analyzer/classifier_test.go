package analyzer

import (
	"reflect"
	"testing"

	"interviewlab/internal/model"
)

func testStage() *model.StageDefinition {
	return &model.StageDefinition{
		ID:                     "discovery",
		Title:                  "Discovery",
		PassThreshold:          0.65,
		PenalizeEarlySolutions: true,
		RequiredAreas: []model.RequiredArea{
			{
				ID:             "pain_points",
				Label:          "Pain points",
				Keywords:       []string{"pain point", "problem", "frustrat"},
				NextTimeScript: "What causes the most pain day to day?",
				MiniLesson:     "Start with pain, not features.",
			},
			{
				ID:             "blockers",
				Label:          "Blockers",
				Keywords:       []string{"blocked", "stuck", "bottleneck"},
				NextTimeScript: "Where does work get stuck most often?",
				MiniLesson:     "Blockers reveal the real process.",
			},
			{
				ID:             "metrics",
				Label:          "Metrics",
				Keywords:       []string{"measure", "how long", "volume"},
				NextTimeScript: "How do you measure this today?",
				MiniLesson:     "Numbers anchor the baseline.",
			},
		},
	}
}

func userTurn(i int, text string) model.Turn {
	return model.Turn{Index: i, Speaker: model.SpeakerUser, Text: text}
}

func counterpartTurn(i int, text string) model.Turn {
	return model.Turn{Index: i, Speaker: model.SpeakerCounterpart, Text: text}
}

func TestClassifyQuestionDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		question bool
		open     bool
	}{
		{"open with question mark", "What happens after approval?", true, true},
		{"open without question mark", "how does the order reach finance", true, true},
		{"could you is open", "Could you tell me more about that?", true, true},
		{"tell me is open", "Tell me about a recent example.", true, true},
		{"do you is closed", "Do you use a ticketing system?", true, false},
		{"are you is closed", "Are you happy with the process?", true, false},
		{"is it is closed", "Is it slow?", true, false},
		{"can you is a closed question", "Can you approve orders yourself?", true, false},
		{"trailing question mark only", "The approvals go to finance, right?", true, true},
		{"statement", "We ship orders on Fridays.", false, false},
		{"leading whitespace", "  What changed last quarter?", true, true},
	}

	stage := testStage()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := Classify([]model.Turn{userTurn(0, tt.text)}, stage)
			if got := labels[0].IsQuestion; got != tt.question {
				t.Fatalf("IsQuestion = %v, want %v", got, tt.question)
			}
			if got := labels[0].IsOpenQuestion; got != tt.open {
				t.Fatalf("IsOpenQuestion = %v, want %v", got, tt.open)
			}
		})
	}
}

func TestClassifyGreetingAndSolutionLanguage(t *testing.T) {
	t.Parallel()

	stage := testStage()
	turns := []model.Turn{
		userTurn(0, "Hi, thanks for making time today."),
		userTurn(1, "I think we should implement a new system."),
		userTurn(2, "What does the team struggle with?"),
	}
	labels := Classify(turns, stage)

	if !labels[0].IsGreeting {
		t.Fatalf("expected turn 0 to be a greeting")
	}
	if labels[0].MentionsSolutionLanguage {
		t.Fatalf("greeting should not carry solution language")
	}
	if !labels[1].MentionsSolutionLanguage {
		t.Fatalf("expected turn 1 to mention solution language")
	}
	if labels[2].IsGreeting || labels[2].MentionsSolutionLanguage {
		t.Fatalf("turn 2 misclassified: %+v", labels[2])
	}
}

func TestClassifyFollowUp(t *testing.T) {
	t.Parallel()

	stage := testStage()
	tests := []struct {
		name     string
		turns    []model.Turn
		idx      int
		followUp bool
	}{
		{
			name: "question right after counterpart",
			turns: []model.Turn{
				counterpartTurn(0, "The approvals take days."),
				userTurn(1, "Why do they take days?"),
			},
			idx:      1,
			followUp: true,
		},
		{
			name: "counterpart two turns back",
			turns: []model.Turn{
				counterpartTurn(0, "The approvals take days."),
				{Index: 1, Speaker: model.SpeakerSystem, Text: "hint panel opened"},
				userTurn(2, "Why do they take days?"),
			},
			idx:      2,
			followUp: true,
		},
		{
			name: "intervening user turn breaks the exchange",
			turns: []model.Turn{
				counterpartTurn(0, "The approvals take days."),
				userTurn(1, "Noted, that sounds rough."),
				userTurn(2, "What else slows you down?"),
			},
			idx:      2,
			followUp: false,
		},
		{
			name: "counterpart outside the lookback window",
			turns: []model.Turn{
				counterpartTurn(0, "The approvals take days."),
				{Index: 1, Speaker: model.SpeakerSystem, Text: "hint"},
				{Index: 2, Speaker: model.SpeakerSystem, Text: "hint"},
				userTurn(3, "What happens after approval?"),
			},
			idx:      3,
			followUp: false,
		},
		{
			name: "opening question is not a follow-up",
			turns: []model.Turn{
				userTurn(0, "What brings the most pain today?"),
			},
			idx:      0,
			followUp: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := Classify(tt.turns, stage)
			if got := labels[tt.idx].IsFollowUp; got != tt.followUp {
				t.Fatalf("IsFollowUp = %v, want %v", got, tt.followUp)
			}
		})
	}
}

func TestClassifyAreaMatching(t *testing.T) {
	t.Parallel()

	stage := testStage()
	tests := []struct {
		name  string
		text  string
		areas []string
	}{
		{"single keyword", "What problem costs you the most?", []string{"pain_points"}},
		{"case insensitive", "What PAIN POINT hurts most?", []string{"pain_points"}},
		{"two areas in one turn", "Where do things get stuck, and how do you measure the delay?", []string{"blockers", "metrics"}},
		{"no match", "Thanks, that was helpful.", []string{}},
		{"one match per area despite two keywords", "Is the team frustrated by this problem?", []string{"pain_points"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := Classify([]model.Turn{userTurn(0, tt.text)}, stage)
			if !reflect.DeepEqual(labels[0].MatchedAreas, tt.areas) {
				t.Fatalf("MatchedAreas = %v, want %v", labels[0].MatchedAreas, tt.areas)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	stage := testStage()
	turns := []model.Turn{
		userTurn(0, "Hi, thanks for the time."),
		counterpartTurn(1, "Sure, where shall we start?"),
		userTurn(2, "What problem is most frustrating right now?"),
		counterpartTurn(3, "Approvals. Everything gets stuck there."),
		userTurn(4, "How long does an approval usually take?"),
	}

	first := Classify(turns, stage)
	second := Classify(turns, stage)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification is not deterministic:\n%+v\n%+v", first, second)
	}
}
