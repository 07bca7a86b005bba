package model

// Mode selects the scoring weights: hints are expected during practice,
// so independence only counts in assessment.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeAssess   Mode = "assess"
)

// RequiredArea is a must-cover topic for a stage. Keywords drive area
// matching; the script/lesson fields feed the coaching composer. Keeping
// them on the area itself means the composer can never reference an area
// the stage doesn't define.
type RequiredArea struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Keywords       []string `json:"keywords"`
	NextTimeScript string   `json:"nextTimeScript"`
	MiniLesson     string   `json:"miniLesson"`
}

// StageDefinition is one training stage of the BA curriculum. Immutable,
// loaded from the static catalog at startup.
type StageDefinition struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	RequiredAreas []RequiredArea `json:"requiredAreas"`
	PassThreshold float64        `json:"passThreshold"`

	// PenalizeEarlySolutions gates the early-solutioning penalty. It applies
	// to problem-exploration style stages; in design stages proposing
	// solutions is the point.
	PenalizeEarlySolutions bool `json:"penalizeEarlySolutions"`
}

// AreaIDs returns the required area ids in catalog order.
func (s *StageDefinition) AreaIDs() []string {
	ids := make([]string, 0, len(s.RequiredAreas))
	for _, a := range s.RequiredAreas {
		ids = append(ids, a.ID)
	}
	return ids
}

// Area looks up a required area by id.
func (s *StageDefinition) Area(id string) (RequiredArea, bool) {
	for _, a := range s.RequiredAreas {
		if a.ID == id {
			return a, true
		}
	}
	return RequiredArea{}, false
}
