package services

import (
	"context"

	"civictrack-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The ledger is append-only: rows are written by CreateIssue and the
// transition engine, and only ever read back here.

// ListEventsForIssue returns an issue's status timeline, oldest first
func ListEventsForIssue(ctx context.Context, issueID primitive.ObjectID) ([]models.IssueEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := eventColl().Find(ctx, bson.M{"issue": issueID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.IssueEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ListEventsForIssues groups timelines for a batch of issues, each group
// oldest first
func ListEventsForIssues(ctx context.Context, issueIDs []primitive.ObjectID) (map[primitive.ObjectID][]models.IssueEvent, error) {
	grouped := map[primitive.ObjectID][]models.IssueEvent{}
	if len(issueIDs) == 0 {
		return grouped, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := eventColl().Find(ctx, bson.M{"issue": bson.M{"$in": issueIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var ev models.IssueEvent
		if err := cursor.Decode(&ev); err != nil {
			return nil, err
		}
		grouped[ev.IssueID] = append(grouped[ev.IssueID], ev)
	}
	return grouped, cursor.Err()
}
