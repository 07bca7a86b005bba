package analyzer

import "interviewlab/internal/model"

// Technique composite weights
const (
	weightOpenRatio     = 0.4
	weightFollowUpRatio = 0.3
	weightTalkBalance   = 0.3

	// earlySolutionPenalty is subtracted from the composite when solution
	// language shows up before the stage is sufficiently explored.
	earlySolutionPenalty = 0.15
)

// ScoreTechnique aggregates questioning quality over the trainee's turns:
// open-question ratio, follow-up ratio and talk balance, with an
// early-solutioning penalty gated by the stage.
func ScoreTechnique(labels []model.TurnLabel, stage *model.StageDefinition) (model.SubScore, model.TechniqueBreakdown) {
	questions, open, followUps := 0, 0, 0
	userChars, counterpartChars := 0, 0

	for _, l := range labels {
		switch l.Speaker {
		case model.SpeakerCounterpart:
			counterpartChars += l.TextLen
		case model.SpeakerUser:
			userChars += l.TextLen
			if l.IsQuestion {
				questions++
				if l.IsOpenQuestion {
					open++
				}
				if l.IsFollowUp {
					followUps++
				}
			}
		}
	}

	breakdown := model.TechniqueBreakdown{}
	if questions > 0 {
		breakdown.OpenRatio = float64(open) / float64(questions)
		breakdown.FollowUpRatio = float64(followUps) / float64(questions)
	}
	breakdown.TalkBalance = talkBalance(userChars, counterpartChars)
	if stage.PenalizeEarlySolutions {
		breakdown.EarlySolutioning = detectEarlySolutioning(labels, stage)
	}

	return model.SubScore{Kind: model.ScoreTechnique, Aggregate: CompositeTechnique(breakdown)}, breakdown
}

// CompositeTechnique folds a technique breakdown into the composite
// aggregate: 0.4*open + 0.3*followUp + 0.3*talkBalance, minus the
// early-solutioning penalty, clamped to [0,1].
func CompositeTechnique(b model.TechniqueBreakdown) float64 {
	agg := weightOpenRatio*b.OpenRatio +
		weightFollowUpRatio*b.FollowUpRatio +
		weightTalkBalance*b.TalkBalance
	if b.EarlySolutioning {
		agg -= earlySolutionPenalty
	}
	return clamp01(agg)
}

// talkBalance scores relative speaking volume. 1.0 at an even split,
// falling linearly to 0.0 when one side does all the talking. Computed as
// twice the smaller side's share so mirrored transcripts score identically
// rather than symmetrically up to rounding.
func talkBalance(userChars, counterpartChars int) float64 {
	total := userChars + counterpartChars
	if total == 0 {
		return 0
	}
	return clamp01(2 * float64(min(userChars, counterpartChars)) / float64(total))
}

// detectEarlySolutioning reports whether any user turn carries solution
// language before the running distinct-area count reaches 60% (rounded up)
// of the stage's required areas.
func detectEarlySolutioning(labels []model.TurnLabel, stage *model.StageDefinition) bool {
	minCovered := (3*len(stage.RequiredAreas) + 4) / 5
	covered := map[string]bool{}
	for _, l := range labels {
		if l.Speaker != model.SpeakerUser {
			continue
		}
		if l.MentionsSolutionLanguage && len(covered) < minCovered {
			return true
		}
		for _, areaID := range l.MatchedAreas {
			covered[areaID] = true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

