// Package store keeps live sessions in process memory. The store is an
// injected dependency rather than a package-level singleton so tests can
// run against isolated instances.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"interviewlab/internal/model"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrNotLive           = errors.New("session is not in live_meeting")
)

// SessionStore holds in-flight sessions keyed by id. All access is
// mutex-guarded: multiple sessions may be driven concurrently within one
// process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*model.Session)}
}

// Put inserts a new session in pre_brief state.
func (s *SessionStore) Put(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get returns a deep copy of the session so callers can read it without
// racing appends from the live meeting.
func (s *SessionStore) Get(id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(session), nil
}

// Start transitions pre_brief -> live_meeting.
func (s *SessionStore) Start(id string) (*model.Session, error) {
	return s.transition(id, model.SessionPreBrief, model.SessionLiveMeeting, func(sess *model.Session) {
		now := time.Now()
		sess.StartedAt = &now
	})
}

// EndMeeting transitions live_meeting -> post_brief, freezing the turn and
// hint logs. The feedback analyzer is invoked exactly once per transition
// into post_brief, by the session service.
func (s *SessionStore) EndMeeting(id string) (*model.Session, error) {
	return s.transition(id, model.SessionLiveMeeting, model.SessionPostBrief, func(sess *model.Session) {
		now := time.Now()
		sess.EndedAt = &now
	})
}

// Complete transitions post_brief -> completed.
func (s *SessionStore) Complete(id string) (*model.Session, error) {
	return s.transition(id, model.SessionPostBrief, model.SessionCompleted, nil)
}

// AppendTurn adds a message to a live session and assigns its index.
func (s *SessionStore) AppendTurn(id string, speaker model.Speaker, text string) (model.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.Turn{}, ErrSessionNotFound
	}
	if session.Status != model.SessionLiveMeeting {
		return model.Turn{}, ErrNotLive
	}
	turn := model.Turn{
		Index:           len(session.Turns),
		Speaker:         speaker,
		Text:            text,
		TimestampMillis: time.Now().UnixMilli(),
	}
	session.Turns = append(session.Turns, turn)
	return turn, nil
}

// RecordHint appends a coaching-panel hint event to a live session.
func (s *SessionStore) RecordHint(id string, areaID string, eventType model.HintEventType, payload string) (model.HintEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.HintEvent{}, ErrSessionNotFound
	}
	if session.Status != model.SessionLiveMeeting {
		return model.HintEvent{}, ErrNotLive
	}
	event := model.HintEvent{
		SessionID:       id,
		AreaID:          areaID,
		EventType:       eventType,
		PayloadText:     payload,
		TimestampMillis: time.Now().UnixMilli(),
	}
	session.Hints = append(session.Hints, event)
	return event, nil
}

// Delete removes a session from the store (after persistence).
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) transition(id string, from, to model.SessionStatus, apply func(*model.Session)) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Status != from {
		return nil, fmt.Errorf("%w: %s -> %s (current %s)", ErrInvalidTransition, from, to, session.Status)
	}
	session.Status = to
	if apply != nil {
		apply(session)
	}
	return copySession(session), nil
}

func copySession(src *model.Session) *model.Session {
	dst := *src
	dst.Turns = append([]model.Turn(nil), src.Turns...)
	dst.Hints = append([]model.HintEvent(nil), src.Hints...)
	return &dst
}
