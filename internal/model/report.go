package model

// ScoreKind identifies a sub-scorer
type ScoreKind string

const (
	ScoreCoverage     ScoreKind = "coverage"
	ScoreTechnique    ScoreKind = "technique"
	ScoreIndependence ScoreKind = "independence"
)

// SubScore is one scorer's output. PerArea is populated for coverage and
// independence; technique is aggregate-only (its named sub-metrics live in
// TechniqueBreakdown).
type SubScore struct {
	Kind      ScoreKind          `json:"kind"`
	PerArea   map[string]float64 `json:"perArea,omitempty"`
	Aggregate float64            `json:"aggregate"`
}

// TechniqueBreakdown carries the named technique sub-metrics alongside the
// composite aggregate.
type TechniqueBreakdown struct {
	OpenRatio        float64 `json:"openRatio" bson:"openRatio"`
	FollowUpRatio    float64 `json:"followUpRatio" bson:"followUpRatio"`
	TalkBalance      float64 `json:"talkBalance" bson:"talkBalance"`
	EarlySolutioning bool    `json:"earlySolutioning" bson:"earlySolutioning"`
}

// ClosedQuestionRewrite pairs a closed question the trainee asked with an
// open-form rewrite.
type ClosedQuestionRewrite struct {
	TurnIndex int    `json:"turnIndex" bson:"turnIndex"`
	Original  string `json:"original" bson:"original"`
	Rewrite   string `json:"rewrite" bson:"rewrite"`
}

// MiniLesson is a short static tip for a missed or weak area.
type MiniLesson struct {
	AreaID string `json:"areaId" bson:"areaId"`
	Tip    string `json:"tip" bson:"tip"`
}

// Coaching bundles the composer's remediation output.
type Coaching struct {
	ClosedQuestionRewrites []ClosedQuestionRewrite `json:"closedQuestionRewrites" bson:"closedQuestionRewrites"`
	MiniLessons            []MiniLesson            `json:"miniLessons" bson:"miniLessons"`
}

// ReportSource records which path produced the report
type ReportSource string

const (
	SourceGemini    ReportSource = "gemini"
	SourceHeuristic ReportSource = "heuristic"
	SourceDefault   ReportSource = "default"
)

// FeedbackReport is the terminal artifact of a session analysis. Immutable
// once returned; a retake produces an independent report.
//
// Invariants:
//   - every areaId in CoverageScores/Independence/CoveredAreas/MissedAreas
//     comes from the active stage's required areas
//   - CoveredAreas and MissedAreas partition the required areas exactly
//   - Overall is in [0,1] and Passed == Overall >= stage threshold
type FeedbackReport struct {
	SessionID       string                  `json:"sessionId" bson:"sessionId"`
	StageID         string                  `json:"stageId" bson:"stageId"`
	Mode            Mode                    `json:"mode" bson:"mode"`
	CoverageScores  map[string]float64      `json:"coverageScores" bson:"coverageScores"`
	Technique       TechniqueBreakdown      `json:"technique" bson:"technique"`
	Independence    map[string]float64      `json:"independence" bson:"independence"`
	Overall         float64                 `json:"overall" bson:"overall"`
	Passed          bool                    `json:"passed" bson:"passed"`
	CoveredAreas    []string                `json:"coveredAreas" bson:"coveredAreas"`
	MissedAreas     []string                `json:"missedAreas" bson:"missedAreas"`
	NextTimeScripts []string                `json:"nextTimeScripts" bson:"nextTimeScripts"`
	Coaching        Coaching                `json:"coaching" bson:"coaching"`
	Source          ReportSource            `json:"source" bson:"source"`
	GeneratedAtMS   int64                   `json:"generatedAtMs,omitempty" bson:"generatedAtMs,omitempty"`
}
