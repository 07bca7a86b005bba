package analyzer

import "interviewlab/internal/model"

const (
	// CoverageFloor is the per-area score for an area never demonstrated.
	// Deliberately above zero so one missed area is not punitively fatal.
	CoverageFloor = 0.2

	// coverageCutoff splits covered from missed areas.
	coverageCutoff = 0.5
)

// ScoreCoverage maps classified turns against the stage's required areas.
// Per-area: 1.0 if at least one user turn matched the area, else the floor.
// Aggregate is the arithmetic mean across required areas.
func ScoreCoverage(labels []model.TurnLabel, stage *model.StageDefinition) model.SubScore {
	hit := make(map[string]bool, len(stage.RequiredAreas))
	for _, l := range labels {
		if l.Speaker != model.SpeakerUser {
			continue
		}
		for _, areaID := range l.MatchedAreas {
			hit[areaID] = true
		}
	}

	perArea := make(map[string]float64, len(stage.RequiredAreas))
	sum := 0.0
	for _, area := range stage.RequiredAreas {
		score := CoverageFloor
		if hit[area.ID] {
			score = 1.0
		}
		perArea[area.ID] = score
		sum += score
	}

	agg := 0.0
	if len(stage.RequiredAreas) > 0 {
		agg = sum / float64(len(stage.RequiredAreas))
	}

	return model.SubScore{Kind: model.ScoreCoverage, PerArea: perArea, Aggregate: agg}
}

// Partition splits the stage's required areas into covered and missed using
// the coverage cutoff. The two slices always partition the required areas
// exactly, in catalog order.
func Partition(coverage model.SubScore, stage *model.StageDefinition) (covered, missed []string) {
	covered = []string{}
	missed = []string{}
	for _, area := range stage.RequiredAreas {
		if coverage.PerArea[area.ID] >= coverageCutoff {
			covered = append(covered, area.ID)
		} else {
			missed = append(missed, area.ID)
		}
	}
	return covered, missed
}
