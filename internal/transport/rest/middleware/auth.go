package middleware

import (
	"context"
	"net/http"
	"strings"

	"interviewlab/internal/service"
)

type contextKey string

const (
	CoachIDKey   contextKey = "coachId"
	TraineeIDKey contextKey = "traineeId"
	SessionIDKey contextKey = "sessionId"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireCoach validates a coach JWT from the Authorization header
func (m *AuthMiddleware) RequireCoach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateCoachToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), CoachIDKey, claims.CoachID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireTrainee validates a trainee JWT from the Authorization header or
// the token query param (for WebSocket upgrades).
func (m *AuthMiddleware) RequireTrainee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateTraineeToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, TraineeIDKey, claims.TraineeID)
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCoachID extracts the coach id from context
func GetCoachID(ctx context.Context) string {
	if v := ctx.Value(CoachIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetTraineeID extracts the trainee id from context
func GetTraineeID(ctx context.Context) string {
	if v := ctx.Value(TraineeIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetSessionID extracts the token-scoped session id from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
