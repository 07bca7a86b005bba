package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlab/internal/model"
)

// ReportRepo handles MongoDB operations for feedback reports. One report
// per session; a retake is a new session and therefore a new report.
type ReportRepo interface {
	Save(ctx context.Context, report *model.FeedbackReport) error
	GetBySession(ctx context.Context, sessionID string) (*model.FeedbackReport, error)
	GetByStage(ctx context.Context, stageID string) ([]model.FeedbackReport, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository.
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{collection: db.Collection("feedback_reports")}
}

func (r *reportRepo) Save(ctx context.Context, report *model.FeedbackReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"sessionId": report.SessionID}, report, opts)
	return err
}

func (r *reportRepo) GetBySession(ctx context.Context, sessionID string) (*model.FeedbackReport, error) {
	var report model.FeedbackReport
	err := r.collection.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) GetByStage(ctx context.Context, stageID string) ([]model.FeedbackReport, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"stageId": stageID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []model.FeedbackReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
