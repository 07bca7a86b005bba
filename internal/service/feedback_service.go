package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"interviewlab/internal/analyzer"
	"interviewlab/internal/cache"
	"interviewlab/internal/catalog"
	"interviewlab/internal/model"
	"interviewlab/internal/repository"
)

// FeedbackService generates and serves feedback reports. Persistence and
// caching are best-effort sinks: a storage hiccup is logged, never shown
// to the trainee, who always receives the complete report.
type FeedbackService struct {
	evaluator   *EvaluatorService
	reportRepo  repository.ReportRepo
	reportCache cache.ReportCache
	leaderboard cache.LeaderboardCache
	progress    *ProgressService
	catalog     *catalog.Catalog
	logger      *zap.Logger
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(
	evaluator *EvaluatorService,
	reportRepo repository.ReportRepo,
	reportCache cache.ReportCache,
	leaderboard cache.LeaderboardCache,
	progress *ProgressService,
	cat *catalog.Catalog,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		evaluator:   evaluator,
		reportRepo:  reportRepo,
		reportCache: reportCache,
		leaderboard: leaderboard,
		progress:    progress,
		catalog:     cat,
		logger:      logger,
	}
}

// GenerateReport analyzes a session that has just entered post_brief.
// The only error it can return is a stage id the catalog doesn't know,
// which is a wiring bug, not a runtime condition.
func (s *FeedbackService) GenerateReport(ctx context.Context, session *model.Session) (*model.FeedbackReport, error) {
	stage, ok := s.catalog.Stage(session.StageID)
	if !ok {
		return nil, fmt.Errorf("unknown stage %q for session %s", session.StageID, session.ID)
	}

	report := s.evaluator.AnalyzeSession(ctx, analyzer.Input{
		SessionID: session.ID,
		Stage:     stage,
		Mode:      session.Mode,
		Turns:     session.Turns,
		Hints:     session.Hints,
	})
	report.GeneratedAtMS = time.Now().UnixMilli()

	if err := s.reportRepo.Save(ctx, report); err != nil {
		s.logger.Error("failed to persist report", zap.String("sessionId", session.ID), zap.Error(err))
	}
	if err := s.reportCache.Set(ctx, report); err != nil {
		s.logger.Warn("failed to cache report", zap.String("sessionId", session.ID), zap.Error(err))
	}
	if session.Mode == model.ModeAssess {
		if err := s.leaderboard.RecordScore(ctx, session.StageID, session.TraineeID, report.Overall); err != nil {
			s.logger.Warn("failed to update leaderboard", zap.String("sessionId", session.ID), zap.Error(err))
		}
	}
	if err := s.progress.RecordReport(ctx, session.TraineeID, report); err != nil {
		s.logger.Warn("failed to update trainee profile", zap.String("traineeId", session.TraineeID), zap.Error(err))
	}

	return report, nil
}

// GetReport serves a cached report: Redis first, then Mongo. Returns nil
// if no report exists for the session yet.
func (s *FeedbackService) GetReport(ctx context.Context, sessionID string) (*model.FeedbackReport, error) {
	report, err := s.reportCache.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("sessionId", sessionID), zap.Error(err))
	}
	if report != nil {
		return report, nil
	}

	report, err = s.reportRepo.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if report != nil {
		if err := s.reportCache.Set(ctx, report); err != nil {
			s.logger.Warn("failed to re-cache report", zap.String("sessionId", sessionID), zap.Error(err))
		}
	}
	return report, nil
}

// Leaderboard returns the top trainees for a stage.
func (s *FeedbackService) Leaderboard(ctx context.Context, stageID string, limit int64) ([]model.LeaderboardEntry, error) {
	if _, ok := s.catalog.Stage(stageID); !ok {
		return nil, fmt.Errorf("unknown stage %q", stageID)
	}
	return s.leaderboard.GetTop(ctx, stageID, limit)
}
