package analyzer

import "interviewlab/internal/model"

// Hint penalties per event type. A hint merely shown costs less than one
// the trainee leaned on.
var hintPenalties = map[model.HintEventType]float64{
	model.HintShown:   0.10,
	model.HintEdited:  0.15,
	model.HintAsked:   0.20,
	model.HintClicked: 0.30,
}

// unattributedCostFactor scales the charge for hint events without an
// area id; they are spread over every required area at quarter weight.
const unattributedCostFactor = 0.25

// ScoreIndependence starts every required area at 1.0 and reduces it per
// hint event tied to the area during the session. Areas with no hint
// events keep the full score. Aggregate is the mean across required areas.
func ScoreIndependence(hints []model.HintEvent, stage *model.StageDefinition) model.SubScore {
	perArea := make(map[string]float64, len(stage.RequiredAreas))
	for _, area := range stage.RequiredAreas {
		perArea[area.ID] = 1.0
	}

	for _, h := range hints {
		cost, ok := hintPenalties[h.EventType]
		if !ok {
			continue
		}
		if _, known := perArea[h.AreaID]; h.AreaID != "" && known {
			perArea[h.AreaID] = clamp01(perArea[h.AreaID] - cost)
			continue
		}
		// No area attribution (or an area the stage doesn't require):
		// spread a reduced charge across all areas.
		for _, area := range stage.RequiredAreas {
			perArea[area.ID] = clamp01(perArea[area.ID] - cost*unattributedCostFactor)
		}
	}

	sum := 0.0
	for _, v := range perArea {
		sum += v
	}
	agg := 0.0
	if len(stage.RequiredAreas) > 0 {
		agg = sum / float64(len(stage.RequiredAreas))
	}

	return model.SubScore{Kind: model.ScoreIndependence, PerArea: perArea, Aggregate: agg}
}
