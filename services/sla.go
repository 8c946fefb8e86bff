package services

import (
	"context"
	"log"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func slaColl() *mongo.Collection { return config.GetCollection("issue_sla") }

// LookupSLA returns the allowed resolution hours for a (department, type)
// pair, or ErrNotFound when no entry exists. Absence defers due-date
// computation; it is never treated as a failure by callers.
func LookupSLA(ctx context.Context, dept models.Department, issueType string) (int, error) {
	var entry models.SLAEntry
	err := slaColl().FindOne(ctx, bson.M{"department": dept, "issueType": issueType}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, models.ErrNotFound
		}
		return 0, err
	}
	return entry.Hours, nil
}

// SeedSLATable upserts the default SLA entries so a fresh database has a
// working table. Existing entries keep their hours.
func SeedSLATable(ctx context.Context) error {
	for _, entry := range models.DefaultSLAs {
		filter := bson.M{"department": entry.Department, "issueType": entry.IssueType}
		update := bson.M{"$setOnInsert": bson.M{"hours": entry.Hours}}
		if _, err := slaColl().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeDueDates walks every open issue, joins it against the live SLA
// table and rewrites any due date that is missing or more than a minute
// off created+hours. Each row update is independently idempotent, so the
// pass is safe to repeat and to interrupt.
func RecomputeDueDates(ctx context.Context) (int, error) {
	filter := bson.M{"status": bson.M{"$in": []models.IssueStatus{models.Pending, models.InProgress}}}
	cursor, err := issueColl().Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var issue models.Issue
		if err := cursor.Decode(&issue); err != nil {
			return updated, err
		}

		hours, err := LookupSLA(ctx, issue.Department, issue.IssueType)
		if err == models.ErrNotFound {
			continue
		}
		if err != nil {
			return updated, err
		}

		if !models.DueAtStale(issue.DueAt, issue.CreatedAt, hours) {
			continue
		}

		due := models.ComputeDueAt(issue.CreatedAt, hours)
		_, err = issueColl().UpdateOne(ctx, bson.M{"_id": issue.ID}, bson.M{"$set": bson.M{"dueAt": due}})
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, cursor.Err()
}

// StartDueDateReconciler runs RecomputeDueDates on a fixed interval until
// the context is cancelled. Errors are logged and retried on the next tick;
// they never reach a request.
func StartDueDateReconciler(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := RecomputeDueDates(ctx)
				if err != nil {
					log.Println("[reconciler] SLA due-date update error:", err)
					continue
				}
				if n > 0 {
					log.Printf("[reconciler] refreshed due dates on %d issues", n)
				}
			}
		}
	}()
}
