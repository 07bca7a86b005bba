package model

import "time"

// Trainee is a registered practice user.
type Trainee struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// TraineeProfile is the rolling cross-session progress record for one
// trainee, updated after every generated report.
type TraineeProfile struct {
	TraineeID string `json:"traineeId"`

	// Rolling quality (exponential moving averages)
	OverallTrend   float64 `json:"overallTrend"`
	OpenRatioTrend float64 `json:"openRatioTrend"`

	// Totals
	SessionCount int `json:"sessionCount"`
	PassCount    int `json:"passCount"`

	// Areas missed most often across sessions: areaId -> miss count
	WeakAreas map[string]int `json:"weakAreas"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// LeaderboardEntry is one row of a stage leaderboard.
type LeaderboardEntry struct {
	TraineeID string  `json:"traineeId"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
}
