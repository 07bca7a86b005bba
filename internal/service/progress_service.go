package service

import (
	"context"

	"interviewlab/internal/cache"
	"interviewlab/internal/model"
)

// ProgressService maintains the rolling per-trainee profile across
// sessions.
type ProgressService struct {
	progressCache cache.ProgressCache
}

// NewProgressService creates a new progress service.
func NewProgressService(progressCache cache.ProgressCache) *ProgressService {
	return &ProgressService{progressCache: progressCache}
}

// RecordReport folds a generated report into the trainee's profile.
func (s *ProgressService) RecordReport(ctx context.Context, traineeID string, report *model.FeedbackReport) error {
	profile, err := s.progressCache.GetProfile(ctx, traineeID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &model.TraineeProfile{
			TraineeID: traineeID,
			WeakAreas: make(map[string]int),
		}
	}

	profile.SessionCount++
	if report.Passed {
		profile.PassCount++
	}

	// Exponential moving averages over session quality
	if profile.SessionCount == 1 {
		profile.OverallTrend = report.Overall
		profile.OpenRatioTrend = report.Technique.OpenRatio
	} else {
		profile.OverallTrend = 0.7*profile.OverallTrend + 0.3*report.Overall
		profile.OpenRatioTrend = 0.7*profile.OpenRatioTrend + 0.3*report.Technique.OpenRatio
	}

	for _, areaID := range report.MissedAreas {
		profile.WeakAreas[areaID]++
	}

	return s.progressCache.SetProfile(ctx, profile)
}

// GetProfile returns the trainee's rolling profile, or nil if none exists.
func (s *ProgressService) GetProfile(ctx context.Context, traineeID string) (*model.TraineeProfile, error) {
	return s.progressCache.GetProfile(ctx, traineeID)
}
