package services

import (
	"context"
	"errors"
	"testing"

	"civictrack-be/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeUpvoteOps struct {
	insertErr    error
	deleteCount  int64
	deleteErr    error
	inserted     []models.ForumUpvote
	pointChanges map[primitive.ObjectID]int
}

func newFakeUpvoteOps() *fakeUpvoteOps {
	return &fakeUpvoteOps{pointChanges: map[primitive.ObjectID]int{}}
}

func (f *fakeUpvoteOps) InsertUpvote(_ context.Context, upvote models.ForumUpvote) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, upvote)
	return nil
}

func (f *fakeUpvoteOps) DeleteUpvote(_ context.Context, _, _ primitive.ObjectID) (int64, error) {
	return f.deleteCount, f.deleteErr
}

func (f *fakeUpvoteOps) AdjustPoints(_ context.Context, citizen primitive.ObjectID, delta int) error {
	f.pointChanges[citizen] += delta
	return nil
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
}

func TestRegisterUpvoteAwardsOnce(t *testing.T) {
	post := primitive.NewObjectID()
	voter := primitive.NewObjectID()
	author := primitive.NewObjectID()

	ops := newFakeUpvoteOps()
	awarded, err := RegisterUpvote(context.Background(), ops, post, voter, author)

	assert.NoError(t, err)
	assert.True(t, awarded)
	assert.Len(t, ops.inserted, 1)
	assert.Equal(t, post, ops.inserted[0].Post)
	assert.Equal(t, voter, ops.inserted[0].Citizen)
	assert.Equal(t, PointsUpvoteVoter, ops.pointChanges[voter])
	assert.Equal(t, PointsUpvoteAuthor, ops.pointChanges[author])
}

func TestRegisterUpvoteDuplicateSkipsAwards(t *testing.T) {
	voter := primitive.NewObjectID()
	author := primitive.NewObjectID()

	ops := newFakeUpvoteOps()
	ops.insertErr = duplicateKeyErr()

	awarded, err := RegisterUpvote(context.Background(), ops, primitive.NewObjectID(), voter, author)

	assert.NoError(t, err)
	assert.False(t, awarded)
	assert.Empty(t, ops.pointChanges)
}

func TestRegisterUpvoteInsertFailure(t *testing.T) {
	ops := newFakeUpvoteOps()
	ops.insertErr = errors.New("connection reset")

	awarded, err := RegisterUpvote(context.Background(), ops, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	assert.Error(t, err)
	assert.False(t, awarded)
	assert.Empty(t, ops.pointChanges)
}

func TestRemoveUpvoteDeductsWhenDeleted(t *testing.T) {
	voter := primitive.NewObjectID()
	author := primitive.NewObjectID()

	ops := newFakeUpvoteOps()
	ops.deleteCount = 1

	adjusted, err := RemoveUpvote(context.Background(), ops, primitive.NewObjectID(), voter, author)

	assert.NoError(t, err)
	assert.True(t, adjusted)
	assert.Equal(t, -PointsUpvoteVoter, ops.pointChanges[voter])
	assert.Equal(t, -PointsUpvoteAuthor, ops.pointChanges[author])
}

func TestRemoveUpvoteMissingVoteIsNoOp(t *testing.T) {
	ops := newFakeUpvoteOps()
	ops.deleteCount = 0

	adjusted, err := RemoveUpvote(context.Background(), ops, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.False(t, adjusted)
	assert.Empty(t, ops.pointChanges)
}

func TestRemoveUpvoteDeleteFailure(t *testing.T) {
	ops := newFakeUpvoteOps()
	ops.deleteErr = errors.New("connection reset")

	adjusted, err := RemoveUpvote(context.Background(), ops, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	assert.Error(t, err)
	assert.False(t, adjusted)
	assert.Empty(t, ops.pointChanges)
}

func TestPostScopeFilter(t *testing.T) {
	assert.Empty(t, PostScopeFilter(nil))

	ward := "Ward 12"
	filter := PostScopeFilter(&ward)
	or, ok := filter["$or"].([]bson.M)
	if assert.True(t, ok) {
		assert.Equal(t, ward, or[0]["constituency"])
		assert.Nil(t, or[1]["constituency"])
	}
}
