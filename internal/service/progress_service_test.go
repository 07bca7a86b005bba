package service

import (
	"context"
	"math"
	"testing"

	"interviewlab/internal/model"
)

// memProgressCache implements cache.ProgressCache in memory.
type memProgressCache struct {
	profiles map[string]*model.TraineeProfile
}

func newMemProgressCache() *memProgressCache {
	return &memProgressCache{profiles: make(map[string]*model.TraineeProfile)}
}

func (c *memProgressCache) GetProfile(ctx context.Context, traineeID string) (*model.TraineeProfile, error) {
	p, ok := c.profiles[traineeID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (c *memProgressCache) SetProfile(ctx context.Context, profile *model.TraineeProfile) error {
	c.profiles[profile.TraineeID] = profile
	return nil
}

func progressReport(overall, openRatio float64, passed bool, missed ...string) *model.FeedbackReport {
	return &model.FeedbackReport{
		SessionID:   "r",
		Overall:     overall,
		Passed:      passed,
		MissedAreas: missed,
		Technique:   model.TechniqueBreakdown{OpenRatio: openRatio},
	}
}

func TestRecordReportFirstSession(t *testing.T) {
	t.Parallel()

	svc := NewProgressService(newMemProgressCache())
	ctx := context.Background()

	if err := svc.RecordReport(ctx, "t1", progressReport(0.8, 0.9, true, "constraints")); err != nil {
		t.Fatalf("RecordReport: %v", err)
	}

	profile, err := svc.GetProfile(ctx, "t1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.SessionCount != 1 || profile.PassCount != 1 {
		t.Fatalf("counts: %+v", profile)
	}
	if profile.OverallTrend != 0.8 || profile.OpenRatioTrend != 0.9 {
		t.Fatalf("first session must seed the trends directly: %+v", profile)
	}
	if profile.WeakAreas["constraints"] != 1 {
		t.Fatalf("WeakAreas = %v", profile.WeakAreas)
	}
}

func TestRecordReportMovingAverage(t *testing.T) {
	t.Parallel()

	svc := NewProgressService(newMemProgressCache())
	ctx := context.Background()

	if err := svc.RecordReport(ctx, "t1", progressReport(1.0, 1.0, true)); err != nil {
		t.Fatalf("RecordReport: %v", err)
	}
	if err := svc.RecordReport(ctx, "t1", progressReport(0.0, 0.0, false, "constraints", "blockers")); err != nil {
		t.Fatalf("RecordReport: %v", err)
	}

	profile, err := svc.GetProfile(ctx, "t1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.SessionCount != 2 || profile.PassCount != 1 {
		t.Fatalf("counts: %+v", profile)
	}
	if math.Abs(profile.OverallTrend-0.7) > 1e-9 {
		t.Fatalf("OverallTrend = %v, want 0.7", profile.OverallTrend)
	}
	if math.Abs(profile.OpenRatioTrend-0.7) > 1e-9 {
		t.Fatalf("OpenRatioTrend = %v, want 0.7", profile.OpenRatioTrend)
	}
	if profile.WeakAreas["constraints"] != 1 || profile.WeakAreas["blockers"] != 1 {
		t.Fatalf("WeakAreas = %v", profile.WeakAreas)
	}
}

func TestGetProfileUnknownTrainee(t *testing.T) {
	t.Parallel()

	svc := NewProgressService(newMemProgressCache())
	profile, err := svc.GetProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile != nil {
		t.Fatalf("profile = %+v, want nil", profile)
	}
}
