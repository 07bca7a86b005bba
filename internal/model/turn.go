package model

// Speaker identifies who authored a turn
type Speaker string

const (
	SpeakerUser        Speaker = "user"        // the trainee
	SpeakerCounterpart Speaker = "counterpart" // the simulated stakeholder
	SpeakerSystem      Speaker = "system"      // briefing / stage directions
)

// Turn is one message in a practice conversation. Never mutated after
// creation; ordering by Index is the only ordering guarantee.
type Turn struct {
	Index           int     `json:"index" bson:"index"`
	Speaker         Speaker `json:"speaker" bson:"speaker"`
	Text            string  `json:"text" bson:"text"`
	TimestampMillis int64   `json:"timestampMillis" bson:"timestampMillis"`
}

// TurnLabel is the classifier's per-turn output. Ephemeral: recomputed on
// every analysis run, never persisted on its own.
type TurnLabel struct {
	TurnIndex                int      `json:"turnIndex"`
	Speaker                  Speaker  `json:"speaker"`
	TextLen                  int      `json:"textLen"`
	IsGreeting               bool     `json:"isGreeting"`
	IsQuestion               bool     `json:"isQuestion"`
	IsOpenQuestion           bool     `json:"isOpenQuestion"`
	IsFollowUp               bool     `json:"isFollowUp"`
	MentionsSolutionLanguage bool     `json:"mentionsSolutionLanguage"`
	MatchedAreas             []string `json:"matchedAreas"`
}

// HintEventType distinguishes how a trainee interacted with a coaching hint
type HintEventType string

const (
	HintShown   HintEventType = "shown"   // hint surfaced in the panel
	HintClicked HintEventType = "clicked" // hint used verbatim
	HintEdited  HintEventType = "edited"  // hint taken as a base and reworded
	HintAsked   HintEventType = "asked"   // trainee explicitly asked for help
)

// HintEvent is appended by the coaching panel during live_meeting.
// Read-only input to the independence scorer.
type HintEvent struct {
	SessionID       string        `json:"sessionId" bson:"sessionId"`
	AreaID          string        `json:"areaId,omitempty" bson:"areaId,omitempty"`
	EventType       HintEventType `json:"eventType" bson:"eventType"`
	PayloadText     string        `json:"payloadText,omitempty" bson:"payloadText,omitempty"`
	TimestampMillis int64         `json:"timestampMillis" bson:"timestampMillis"`
}
