// Package analyzer scores completed practice transcripts. The pipeline is
// classifier -> {coverage, technique, independence} -> composer; the three
// scorers are independent and run in parallel. Everything here is pure:
// the same transcript and hint log always produce the same report.
package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"interviewlab/internal/model"
)

// Input is a completed session's material for one analysis run.
type Input struct {
	SessionID string
	Stage     *model.StageDefinition
	Mode      model.Mode
	Turns     []model.Turn
	Hints     []model.HintEvent
}

// Analyzer is the local heuristic scoring pipeline.
type Analyzer struct{}

// New creates an Analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// Analyze runs the full pipeline. It never fails: degenerate transcripts
// yield the floor report.
func (a *Analyzer) Analyze(ctx context.Context, in Input) *model.FeedbackReport {
	if TooShort(in.Turns) {
		return FloorReport(in.SessionID, in.Stage, in.Mode)
	}

	labels := Classify(in.Turns, in.Stage)

	var (
		coverage     model.SubScore
		technique    model.SubScore
		breakdown    model.TechniqueBreakdown
		independence model.SubScore
	)

	// The scorers share no state; ordering between them is irrelevant.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		coverage = ScoreCoverage(labels, in.Stage)
		return nil
	})
	g.Go(func() error {
		technique, breakdown = ScoreTechnique(labels, in.Stage)
		return nil
	})
	g.Go(func() error {
		independence = ScoreIndependence(in.Hints, in.Stage)
		return nil
	})
	_ = g.Wait()

	return Compose(in.SessionID, in.Turns, labels, coverage, technique, breakdown, independence, in.Stage, in.Mode)
}

// TooShort reports whether a transcript is below the minimum worth
// scoring. Such transcripts always get the floor report, on every path.
func TooShort(turns []model.Turn) bool {
	return countUserTurns(turns) < minUserTurns
}

func countUserTurns(turns []model.Turn) int {
	n := 0
	for _, t := range turns {
		if t.Speaker == model.SpeakerUser {
			n++
		}
	}
	return n
}
