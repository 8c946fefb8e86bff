package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ForumPost is a constituency discussion thread
type ForumPost struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author       primitive.ObjectID `bson:"author" json:"author"`
	Title        string             `bson:"title" json:"title"`
	Content      string             `bson:"content" json:"content"`
	Constituency *string            `bson:"constituency,omitempty" json:"constituency,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// ForumUpvote records one citizen's upvote on one post
type ForumUpvote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Post      primitive.ObjectID `bson:"post" json:"post"`
	Citizen   primitive.ObjectID `bson:"citizen" json:"citizen"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureUpvoteIndex creates a unique compound index for (post, citizen).
// The index is what makes upvote point awards one-time: a second upvote
// attempt fails with a duplicate key error and awards nothing.
func EnsureUpvoteIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "post", Value: 1}, {Key: "citizen", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
