package analyzer

import (
	"fmt"
	"strings"

	"interviewlab/internal/model"
)

// Overall weights. Coverage dominates; independence only counts in
// assessment mode since hints are expected during practice.
const (
	assessWeightCoverage     = 0.70
	assessWeightTechnique    = 0.20
	assessWeightIndependence = 0.10

	practiceWeightCoverage  = 0.75
	practiceWeightTechnique = 0.25
)

// maxClosedRewrites caps how many closed-question rewrites a report carries.
const maxClosedRewrites = 3

// minUserTurns is the smallest transcript worth scoring. Anything shorter
// yields the documented floor report; a session always produces a report.
const minUserTurns = 2

// Opener-keyed rewrite templates. The closed opener is replaced and the
// rest of the question is kept verbatim.
var closedRewriteTemplates = []struct {
	opener   string
	template string // %s is the remainder of the original question
}{
	{"do you", "How often do you %s, and what does that look like?"},
	{"are you", "To what extent are you %s, and why?"},
	{"is it", "How %s is it, and what drives that?"},
	{"can you", "What would it take to %s?"},
	{"will you", "What would make you %s?"},
	{"have you", "When have you %s, and what happened?"},
	{"does it", "In what ways does it %s?"},
}

// Compose combines the three sub-scores into the final feedback report and
// synthesizes the coaching material for missed and weak areas.
func Compose(
	sessionID string,
	turns []model.Turn,
	labels []model.TurnLabel,
	coverage model.SubScore,
	technique model.SubScore,
	breakdown model.TechniqueBreakdown,
	independence model.SubScore,
	stage *model.StageDefinition,
	mode model.Mode,
) *model.FeedbackReport {
	covered, missed := Partition(coverage, stage)

	overall := clamp01(Overall(coverage.Aggregate, technique.Aggregate, independence.Aggregate, mode))

	report := &model.FeedbackReport{
		SessionID:       sessionID,
		StageID:         stage.ID,
		Mode:            mode,
		CoverageScores:  coverage.PerArea,
		Technique:       breakdown,
		Independence:    independence.PerArea,
		Overall:         overall,
		Passed:          overall >= stage.PassThreshold,
		CoveredAreas:    covered,
		MissedAreas:     missed,
		NextTimeScripts: nextTimeScripts(missed, stage),
		Coaching: model.Coaching{
			ClosedQuestionRewrites: closedRewrites(turns, labels),
			MiniLessons:            miniLessons(missed, stage),
		},
		Source: model.SourceHeuristic,
	}
	return report
}

// Overall is the deterministic weighted combination of the three sub-score
// aggregates for the given mode.
func Overall(coverage, technique, independence float64, mode model.Mode) float64 {
	if mode == model.ModePractice {
		return practiceWeightCoverage*coverage + practiceWeightTechnique*technique
	}
	return assessWeightCoverage*coverage +
		assessWeightTechnique*technique +
		assessWeightIndependence*independence
}

// FloorReport is the well-formed low-confidence report for degenerate
// transcripts (and the last tier of the analysis fallback chain). Coverage
// sits at the floor for every area, technique at zero, independence at
// full score.
func FloorReport(sessionID string, stage *model.StageDefinition, mode model.Mode) *model.FeedbackReport {
	coverage := make(map[string]float64, len(stage.RequiredAreas))
	independence := make(map[string]float64, len(stage.RequiredAreas))
	missed := make([]string, 0, len(stage.RequiredAreas))
	for _, area := range stage.RequiredAreas {
		coverage[area.ID] = CoverageFloor
		independence[area.ID] = 1.0
		missed = append(missed, area.ID)
	}

	overall := clamp01(Overall(CoverageFloor, 0, 1.0, mode))

	return &model.FeedbackReport{
		SessionID:       sessionID,
		StageID:         stage.ID,
		Mode:            mode,
		CoverageScores:  coverage,
		Technique:       model.TechniqueBreakdown{},
		Independence:    independence,
		Overall:         overall,
		Passed:          overall >= stage.PassThreshold,
		CoveredAreas:    []string{},
		MissedAreas:     missed,
		NextTimeScripts: nextTimeScripts(missed, stage),
		Coaching: model.Coaching{
			ClosedQuestionRewrites: []model.ClosedQuestionRewrite{},
			MiniLessons:            miniLessons(missed, stage),
		},
		Source: model.SourceDefault,
	}
}

func nextTimeScripts(missed []string, stage *model.StageDefinition) []string {
	scripts := []string{}
	for _, areaID := range missed {
		if area, ok := stage.Area(areaID); ok {
			scripts = append(scripts, fmt.Sprintf("Next time, try asking: %q", area.NextTimeScript))
		}
	}
	return scripts
}

func miniLessons(missed []string, stage *model.StageDefinition) []model.MiniLesson {
	lessons := []model.MiniLesson{}
	for _, areaID := range missed {
		if area, ok := stage.Area(areaID); ok {
			lessons = append(lessons, model.MiniLesson{AreaID: area.ID, Tip: area.MiniLesson})
		}
	}
	return lessons
}

// closedRewrites pairs up to maxClosedRewrites closed user questions with
// templated open-form rewrites, in transcript order.
func closedRewrites(turns []model.Turn, labels []model.TurnLabel) []model.ClosedQuestionRewrite {
	byIndex := make(map[int]model.Turn, len(turns))
	for _, t := range turns {
		byIndex[t.Index] = t
	}

	rewrites := []model.ClosedQuestionRewrite{}
	for _, l := range labels {
		if len(rewrites) >= maxClosedRewrites {
			break
		}
		if l.Speaker != model.SpeakerUser || !l.IsQuestion || l.IsOpenQuestion {
			continue
		}
		turn, ok := byIndex[l.TurnIndex]
		if !ok {
			continue
		}
		if rw, ok := rewriteClosedQuestion(turn.Text); ok {
			rewrites = append(rewrites, model.ClosedQuestionRewrite{
				TurnIndex: l.TurnIndex,
				Original:  turn.Text,
				Rewrite:   rw,
			})
		}
	}
	return rewrites
}

func rewriteClosedQuestion(original string) (string, bool) {
	text := strings.TrimSpace(original)
	lower := strings.ToLower(text)
	for _, t := range closedRewriteTemplates {
		if !strings.HasPrefix(lower, t.opener) {
			continue
		}
		remainder := strings.TrimSpace(text[len(t.opener):])
		remainder = strings.TrimSuffix(remainder, "?")
		remainder = strings.TrimSpace(remainder)
		if remainder == "" {
			return "", false
		}
		return fmt.Sprintf(t.template, remainder), true
	}
	return "", false
}
