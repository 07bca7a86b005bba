package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlab/internal/model"
)

// TraineeRepo handles MongoDB operations for trainee records.
type TraineeRepo interface {
	Save(ctx context.Context, trainee *model.Trainee) error
	GetByID(ctx context.Context, id string) (*model.Trainee, error)
}

type traineeRepo struct {
	collection *mongo.Collection
}

// NewTraineeRepo creates a new trainee repository.
func NewTraineeRepo(db *mongo.Database) TraineeRepo {
	return &traineeRepo{collection: db.Collection("trainees")}
}

func (r *traineeRepo) Save(ctx context.Context, trainee *model.Trainee) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": trainee.ID}, trainee, opts)
	return err
}

func (r *traineeRepo) GetByID(ctx context.Context, id string) (*model.Trainee, error) {
	var trainee model.Trainee
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&trainee)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trainee, nil
}
