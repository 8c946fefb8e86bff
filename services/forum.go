package services

import (
	"context"
	"log"
	"time"

	"civictrack-be/config"
	"civictrack-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func upvoteColl() *mongo.Collection { return config.GetCollection("forum_upvotes") }

// UpvoteOps abstracts the store writes behind upvote registration so the
// one-time award rules can be exercised without a deployment.
type UpvoteOps interface {
	InsertUpvote(ctx context.Context, upvote models.ForumUpvote) error
	DeleteUpvote(ctx context.Context, post, citizen primitive.ObjectID) (int64, error)
	AdjustPoints(ctx context.Context, citizen primitive.ObjectID, delta int) error
}

type mongoUpvoteOps struct{}

// MongoUpvoteOps returns the collection-backed implementation used by the
// handlers
func MongoUpvoteOps() UpvoteOps { return mongoUpvoteOps{} }

func (mongoUpvoteOps) InsertUpvote(ctx context.Context, upvote models.ForumUpvote) error {
	_, err := upvoteColl().InsertOne(ctx, upvote)
	return err
}

func (mongoUpvoteOps) DeleteUpvote(ctx context.Context, post, citizen primitive.ObjectID) (int64, error) {
	result, err := upvoteColl().DeleteOne(ctx, bson.M{"post": post, "citizen": citizen})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (mongoUpvoteOps) AdjustPoints(ctx context.Context, citizen primitive.ObjectID, delta int) error {
	return AwardPoints(ctx, citizen, delta)
}

// RegisterUpvote records one upvote per (post, citizen) and awards points
// only when a new vote actually landed. The unique index turns a repeat
// upvote into a duplicate-key error, so the voter and author are each paid
// exactly once per (post, citizen) pair. Returns whether points were
// awarded.
func RegisterUpvote(ctx context.Context, ops UpvoteOps, post, voter, author primitive.ObjectID) (bool, error) {
	upvote := models.ForumUpvote{
		ID:        primitive.NewObjectID(),
		Post:      post,
		Citizen:   voter,
		CreatedAt: time.Now(),
	}

	if err := ops.InsertUpvote(ctx, upvote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Already upvoted previously; nothing to award
			return false, nil
		}
		return false, err
	}

	if err := ops.AdjustPoints(ctx, voter, PointsUpvoteVoter); err != nil {
		log.Println("Failed to award voter points:", err)
	}
	if err := ops.AdjustPoints(ctx, author, PointsUpvoteAuthor); err != nil {
		log.Println("Failed to award author points:", err)
	}
	return true, nil
}

// RemoveUpvote deletes the citizen's upvote if one exists. Removing a vote
// that was never cast is a no-op: no deltas, no error. Deductions apply
// only when a row was actually deleted, and balances clamp at zero in the
// store. Returns whether points were adjusted.
func RemoveUpvote(ctx context.Context, ops UpvoteOps, post, voter, author primitive.ObjectID) (bool, error) {
	deleted, err := ops.DeleteUpvote(ctx, post, voter)
	if err != nil {
		return false, err
	}
	if deleted == 0 {
		return false, nil
	}

	if err := ops.AdjustPoints(ctx, voter, -PointsUpvoteVoter); err != nil {
		log.Println("Failed to deduct voter points:", err)
	}
	if err := ops.AdjustPoints(ctx, author, -PointsUpvoteAuthor); err != nil {
		log.Println("Failed to deduct author points:", err)
	}
	return true, nil
}

// PostScopeFilter builds the forum listing filter. A nil constituency means
// the caller explicitly asked for everything; otherwise posts are limited
// to the constituency plus global (nil-constituency) threads.
func PostScopeFilter(constituency *string) bson.M {
	if constituency == nil {
		return bson.M{}
	}
	return bson.M{"$or": []bson.M{
		{"constituency": *constituency},
		{"constituency": nil},
	}}
}

// CountUpvotes returns the total votes on a post and whether the given
// citizen is among them
func CountUpvotes(ctx context.Context, post, citizen primitive.ObjectID) (int64, bool, error) {
	total, err := upvoteColl().CountDocuments(ctx, bson.M{"post": post})
	if err != nil {
		return 0, false, err
	}
	mine, err := upvoteColl().CountDocuments(ctx, bson.M{"post": post, "citizen": citizen})
	if err != nil {
		return total, false, err
	}
	return total, mine > 0, nil
}
