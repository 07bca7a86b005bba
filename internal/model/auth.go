package model

import "github.com/golang-jwt/jwt/v5"

// CoachClaims is the JWT payload for a coach (curriculum owner) token.
type CoachClaims struct {
	CoachID string `json:"coachId"`
	jwt.RegisteredClaims
}

// TraineeClaims is the JWT payload for a session-scoped trainee token.
type TraineeClaims struct {
	TraineeID string `json:"traineeId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the coach login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful coach login.
type LoginResponse struct {
	Token   string `json:"token"`
	CoachID string `json:"coachId"`
}

// JoinResponse is returned when a trainee joins a session.
type JoinResponse struct {
	Token     string `json:"token"`
	TraineeID string `json:"traineeId"`
	SessionID string `json:"sessionId"`
}
