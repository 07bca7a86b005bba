package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"interviewlab/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles coach and trainee authentication.
type AuthService struct {
	coachUsername string
	coachPassword string
	jwtSecret     []byte
}

// NewAuthService creates a new auth service.
func NewAuthService() *AuthService {
	username := os.Getenv("COACH_USERNAME")
	if username == "" {
		username = "coach"
	}
	password := os.Getenv("COACH_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		coachUsername: username,
		coachPassword: password,
		jwtSecret:     []byte(secret),
	}
}

// Login validates coach credentials and returns a token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.coachUsername || password != s.coachPassword {
		return nil, ErrInvalidCredentials
	}

	coachID := "coach_" + uuid.New().String()[:8]

	claims := &model.CoachClaims{
		CoachID: coachID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   tokenString,
		CoachID: coachID,
	}, nil
}

// ValidateCoachToken validates a coach JWT and returns its claims.
func (s *AuthService) ValidateCoachToken(tokenString string) (*model.CoachClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.CoachClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.CoachClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateTraineeToken creates a session-scoped token for a trainee.
func (s *AuthService) GenerateTraineeToken(sessionID, traineeID string) (string, error) {
	claims := &model.TraineeClaims{
		TraineeID: traineeID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateTraineeToken validates a trainee JWT and returns its claims.
func (s *AuthService) ValidateTraineeToken(tokenString string) (*model.TraineeClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.TraineeClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.TraineeClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
