package model

import "time"

// SessionStatus is the session lifecycle state.
// pre_brief -> live_meeting -> post_brief -> completed
type SessionStatus string

const (
	SessionPreBrief    SessionStatus = "pre_brief"
	SessionLiveMeeting SessionStatus = "live_meeting"
	SessionPostBrief   SessionStatus = "post_brief"
	SessionCompleted   SessionStatus = "completed"
)

// Session is one practice or assessment run of a trainee through a stage.
// Turns and Hints accumulate during live_meeting and are frozen afterwards.
type Session struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	TraineeID string        `json:"traineeId" bson:"traineeId"`
	StageID   string        `json:"stageId" bson:"stageId"`
	Mode      Mode          `json:"mode" bson:"mode"`
	Status    SessionStatus `json:"status" bson:"status"`
	Attempt   int           `json:"attempt" bson:"attempt"`
	Turns     []Turn        `json:"turns" bson:"turns"`
	Hints     []HintEvent   `json:"hints" bson:"hints"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
	StartedAt *time.Time    `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt   *time.Time    `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}
