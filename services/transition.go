package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collections are resolved lazily so importing this package (tests
// included) does not force a database connection.
func issueColl() *mongo.Collection { return config.GetCollection("issues") }
func eventColl() *mongo.Collection { return config.GetCollection("issue_events") }

// StatusChange is a validated request to move an issue through its
// lifecycle. Actor is nil for system-generated changes; Evidence is only
// consulted when the transition enters Resolved or Closed from an open
// status.
type StatusChange struct {
	IssueID   primitive.ObjectID
	NewStatus models.IssueStatus
	Actor     *primitive.ObjectID
	Note      *string
	Evidence  *models.ClosureEvidence
}

// ApplyTransition validates a status change against the lifecycle graph and
// the evidence gate, then writes the new status and appends the ledger row
// as one logical unit. Self-transitions are applied as no-ops that still
// produce a ledger entry, so officials can attach a note without changing
// state.
func ApplyTransition(ctx context.Context, change StatusChange) (*models.Issue, error) {
	if !change.NewStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, change.NewStatus)
	}

	var issue models.Issue
	err := issueColl().FindOne(ctx, bson.M{"_id": change.IssueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	from := issue.Status
	if !models.CanTransition(from, change.NewStatus) {
		return nil, fmt.Errorf("%w: cannot move %s to %s", models.ErrValidation, from, change.NewStatus)
	}
	if models.RequiresEvidence(from, change.NewStatus) && change.Evidence == nil {
		return nil, models.ErrEvidenceRequired
	}

	now := time.Now()
	update := bson.M{
		"status":    change.NewStatus,
		"updatedAt": now,
	}
	if change.Evidence != nil {
		update["closedImage"] = change.Evidence.Image
		update["closedLat"] = change.Evidence.Lat
		update["closedLon"] = change.Evidence.Lon
	}

	event := models.IssueEvent{
		ID:         primitive.NewObjectID(),
		IssueID:    issue.ID,
		Actor:      change.Actor,
		FromStatus: &from,
		ToStatus:   change.NewStatus,
		Note:       change.Note,
		CreatedAt:  now,
	}

	if err := writeStatusAndEvent(ctx, issue.ID, update, event); err != nil {
		return nil, err
	}

	issue.Status = change.NewStatus
	issue.UpdatedAt = now
	if change.Evidence != nil {
		issue.ClosedImage = &change.Evidence.Image
		issue.ClosedLat = &change.Evidence.Lat
		issue.ClosedLon = &change.Evidence.Lon
	}
	return &issue, nil
}

// writeStatusAndEvent persists the status update and the ledger append
// inside a session transaction. Standalone servers have no transaction
// support, so on that class of error the writes run sequentially instead;
// a ledger failure after the status write then surfaces as ErrPartialWrite
// so callers can tell the two stores are inconsistent.
func writeStatusAndEvent(ctx context.Context, issueID primitive.ObjectID, update bson.M, event models.IssueEvent) error {
	session, err := config.MongoClient().StartSession()
	if err == nil {
		defer session.EndSession(ctx)
		_, txnErr := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := issueColl().UpdateOne(sc, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
				return nil, err
			}
			_, err := eventColl().InsertOne(sc, event)
			return nil, err
		})
		if txnErr == nil {
			return nil
		}
		if !transactionsUnsupported(txnErr) {
			return txnErr
		}
	}

	if _, err := issueColl().UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}); err != nil {
		return err
	}
	if _, err := eventColl().InsertOne(ctx, event); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPartialWrite, err)
	}
	return nil
}

// transactionsUnsupported reports whether the error means the server cannot
// run transactions at all (standalone deployments). Those reject the first
// transactional write with IllegalOperation (code 20); the message check is
// a fallback for drivers or proxies that strip the code.
func transactionsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers") ||
		strings.Contains(msg, "transactions are not supported")
}
