package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewlab/internal/catalog"
	"interviewlab/internal/model"
	"interviewlab/internal/repository"
	"interviewlab/internal/store"
)

// WebSocket message types emitted during a live meeting
const (
	MsgTurnAppended = "turn_appended"
	MsgHintRecorded = "hint_recorded"
	MsgReportReady  = "report_ready"
)

var ErrUnknownStage = errors.New("unknown stage")

// SessionService drives the session lifecycle:
// pre_brief -> live_meeting -> post_brief -> completed. The analyzer runs
// exactly once per transition into post_brief.
type SessionService struct {
	store       *store.SessionStore
	sessionRepo repository.SessionRepo
	traineeRepo repository.TraineeRepo
	feedback    *FeedbackService
	catalog     *catalog.Catalog
	broadcaster Broadcaster
	logger      *zap.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(
	st *store.SessionStore,
	sessionRepo repository.SessionRepo,
	traineeRepo repository.TraineeRepo,
	feedback *FeedbackService,
	cat *catalog.Catalog,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		store:       st,
		sessionRepo: sessionRepo,
		traineeRepo: traineeRepo,
		feedback:    feedback,
		catalog:     cat,
		logger:      logger,
	}
}

// SetBroadcaster injects the WebSocket hub.
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// CreateSession registers a new pre_brief session for a trainee.
func (s *SessionService) CreateSession(ctx context.Context, traineeID, stageID string, mode model.Mode) (*model.Session, error) {
	if _, ok := s.catalog.Stage(stageID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stageID)
	}
	if mode != model.ModePractice && mode != model.ModeAssess {
		mode = model.ModePractice
	}

	if traineeID == "" {
		traineeID = "trainee_" + uuid.New().String()[:8]
	}
	if trainee, err := s.traineeRepo.GetByID(ctx, traineeID); err == nil && trainee == nil {
		if err := s.traineeRepo.Save(ctx, &model.Trainee{ID: traineeID, CreatedAt: time.Now()}); err != nil {
			s.logger.Warn("failed to persist trainee", zap.String("traineeId", traineeID), zap.Error(err))
		}
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		TraineeID: traineeID,
		StageID:   stageID,
		Mode:      mode,
		Status:    model.SessionPreBrief,
		Attempt:   1,
		Turns:     []model.Turn{},
		Hints:     []model.HintEvent{},
		CreatedAt: time.Now(),
	}
	s.store.Put(session)
	return session, nil
}

// GetSession returns a session from the live store, falling back to Mongo
// for sessions already flushed out of memory.
func (s *SessionService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.store.Get(id)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, store.ErrSessionNotFound) {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, id)
}

// StartMeeting transitions the session into live_meeting.
func (s *SessionService) StartMeeting(ctx context.Context, id string) (*model.Session, error) {
	return s.store.Start(id)
}

// AppendTurn records a live message and relays it to the coach panel.
func (s *SessionService) AppendTurn(ctx context.Context, id string, speaker model.Speaker, text string) (model.Turn, error) {
	turn, err := s.store.AppendTurn(id, speaker, text)
	if err != nil {
		return model.Turn{}, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToCoach(id, MsgTurnAppended, turn)
	}
	return turn, nil
}

// RecordHint records a coaching-panel hint event during live_meeting.
func (s *SessionService) RecordHint(ctx context.Context, id, areaID string, eventType model.HintEventType, payload string) (model.HintEvent, error) {
	event, err := s.store.RecordHint(id, areaID, eventType, payload)
	if err != nil {
		return model.HintEvent{}, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToCoach(id, MsgHintRecorded, event)
	}
	return event, nil
}

// EndMeeting freezes the transcript, persists the session and runs the
// analyzer. This is the single invocation point of the feedback pipeline.
func (s *SessionService) EndMeeting(ctx context.Context, id string) (*model.FeedbackReport, error) {
	session, err := s.store.EndMeeting(id)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		s.logger.Error("failed to persist session", zap.String("sessionId", id), zap.Error(err))
	}

	report, err := s.feedback.GenerateReport(ctx, session)
	if err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToTrainee(id, MsgReportReady, report)
		s.broadcaster.BroadcastToCoach(id, MsgReportReady, report)
	}
	return report, nil
}

// CompleteSession closes out a post_brief session and releases it from the
// in-memory store.
func (s *SessionService) CompleteSession(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.store.Complete(id)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		s.logger.Error("failed to persist completed session", zap.String("sessionId", id), zap.Error(err))
	}
	s.store.Delete(id)
	return session, nil
}

// Retake spawns a fresh session for the same trainee, stage and mode. Each
// retake gets an independent report; nothing is merged or versioned.
func (s *SessionService) Retake(ctx context.Context, id string) (*model.Session, error) {
	prev, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, store.ErrSessionNotFound
	}

	session := &model.Session{
		ID:        uuid.New().String(),
		TraineeID: prev.TraineeID,
		StageID:   prev.StageID,
		Mode:      prev.Mode,
		Status:    model.SessionPreBrief,
		Attempt:   prev.Attempt + 1,
		Turns:     []model.Turn{},
		Hints:     []model.HintEvent{},
		CreatedAt: time.Now(),
	}
	s.store.Put(session)
	return session, nil
}
