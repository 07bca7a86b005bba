// Seeds a demo trainee with one completed problem-exploration session and
// its analyzed feedback report, so a fresh install has data to look at.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"interviewlab/internal/analyzer"
	"interviewlab/internal/catalog"
	"interviewlab/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	cat := catalog.New()
	if err := cat.Validate(); err != nil {
		log.Fatalf("Catalog invalid: %v", err)
	}
	stage, _ := cat.Stage("problem_exploration")

	db := client.Database("interviewlab")

	now := time.Now()
	started := now.Add(-15 * time.Minute)
	ended := now.Add(-2 * time.Minute)
	base := started.UnixMilli()

	texts := []struct {
		speaker model.Speaker
		text    string
	}{
		{model.SpeakerUser, "Hi, thanks for taking the time today."},
		{model.SpeakerCounterpart, "Happy to help. Where do you want to start?"},
		{model.SpeakerUser, "What are the biggest pain points in your ordering workflow right now?"},
		{model.SpeakerCounterpart, "Mostly the approvals. Orders sit with finance for days and nobody knows why."},
		{model.SpeakerUser, "Where does the work get stuck or blocked most often?"},
		{model.SpeakerCounterpart, "The handover to finance, definitely. We email a spreadsheet and wait."},
		{model.SpeakerUser, "How does that delay affect your customers?"},
		{model.SpeakerCounterpart, "They call us chasing orders. A few big accounts have started ordering elsewhere."},
	}

	turns := make([]model.Turn, 0, len(texts))
	for i, t := range texts {
		turns = append(turns, model.Turn{
			Index:           i,
			Speaker:         t.speaker,
			Text:            t.text,
			TimestampMillis: base + int64(i)*45_000,
		})
	}

	session := &model.Session{
		ID:        "demo-session",
		TraineeID: "demo-trainee",
		StageID:   stage.ID,
		Mode:      model.ModePractice,
		Status:    model.SessionCompleted,
		Attempt:   1,
		Turns:     turns,
		Hints:     []model.HintEvent{},
		CreatedAt: started,
		StartedAt: &started,
		EndedAt:   &ended,
	}

	report := analyzer.New().Analyze(ctx, analyzer.Input{
		SessionID: session.ID,
		Stage:     stage,
		Mode:      session.Mode,
		Turns:     session.Turns,
		Hints:     session.Hints,
	})
	report.GeneratedAtMS = ended.UnixMilli()

	trainee := &model.Trainee{ID: session.TraineeID, DisplayName: "Demo Trainee", CreatedAt: started}

	upsert := options.Replace().SetUpsert(true)
	if _, err := db.Collection("trainees").ReplaceOne(ctx, bson.M{"_id": trainee.ID}, trainee, upsert); err != nil {
		log.Fatalf("Failed to seed trainee: %v", err)
	}
	if _, err := db.Collection("sessions").ReplaceOne(ctx, bson.M{"_id": session.ID}, session, upsert); err != nil {
		log.Fatalf("Failed to seed session: %v", err)
	}
	if _, err := db.Collection("feedback_reports").ReplaceOne(ctx, bson.M{"sessionId": report.SessionID}, report, upsert); err != nil {
		log.Fatalf("Failed to seed report: %v", err)
	}

	fmt.Printf("Seeded session %q (overall %.2f, passed=%v, covered %d/%d areas)\n",
		session.ID, report.Overall, report.Passed, len(report.CoveredAreas), len(stage.RequiredAreas))
}
