package service

// Broadcaster pushes live session events out over WebSocket. Implemented
// by the ws hub; injected so services stay transport-agnostic.
type Broadcaster interface {
	BroadcastToCoach(sessionID string, msgType string, payload interface{})
	BroadcastToTrainee(sessionID string, msgType string, payload interface{})
}
