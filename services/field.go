package services

import (
	"context"
	"fmt"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func fieldEventColl() *mongo.Collection { return config.GetCollection("field_events") }

// AppendFieldEvent logs a crew check-in against an issue. Field events are
// append-only and deliberately do not touch the status ledger: crews log
// progress without changing issue status.
func AppendFieldEvent(ctx context.Context, issueID primitive.ObjectID, kind models.FieldEventKind, lat, lon *float64, photo *string) (*models.FieldEvent, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown field event %q", models.ErrValidation, kind)
	}

	event := models.FieldEvent{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		Kind:      kind,
		Latitude:  lat,
		Longitude: lon,
		Photo:     photo,
		CreatedAt: time.Now(),
	}
	if _, err := fieldEventColl().InsertOne(ctx, event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListFieldEvents returns the most recent crew events for an issue, newest
// first, capped at limit
func ListFieldEvents(ctx context.Context, issueID primitive.ObjectID, limit int64) ([]models.FieldEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := fieldEventColl().Find(ctx, bson.M{"issue": issueID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.FieldEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
