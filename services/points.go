package services

import (
	"context"

	"civictrack-be/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func citizenColl() *mongo.Collection { return config.GetCollection("citizens") }

// Point deltas for qualifying actions. Each is applied at most once per
// underlying action: issue and post creation award on the single insert
// path, and upvote awards ride on the unique (post, citizen) index.
const (
	PointsIssueReported = 5
	PointsForumPost     = 3
	PointsUpvoteVoter   = 1
	PointsUpvoteAuthor  = 2
)

// AwardPoints adjusts a citizen's points balance by delta, clamping at
// zero. The clamp runs inside the update pipeline so concurrent deductions
// can never drive the counter negative.
func AwardPoints(ctx context.Context, citizenID primitive.ObjectID, delta int) error {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "points", Value: bson.D{
				{Key: "$max", Value: bson.A{
					0,
					bson.D{{Key: "$add", Value: bson.A{
						bson.D{{Key: "$ifNull", Value: bson.A{"$points", 0}}},
						delta,
					}}},
				}},
			}},
		}}},
	}
	_, err := citizenColl().UpdateOne(ctx, bson.M{"_id": citizenID}, pipeline)
	return err
}
