package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SLAEntry maps (department, issue type) to the allowed resolution hours.
// Static reference data; an issue with no matching entry simply has no due
// date until an entry appears.
type SLAEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Department Department         `bson:"department" json:"department"`
	IssueType  string             `bson:"issueType" json:"issueType"`
	Hours      int                `bson:"hours" json:"hours"`
}

// DefaultSLAs seeds the table on first boot
var DefaultSLAs = []SLAEntry{
	{Department: Sanitation, IssueType: "Garbage", Hours: 48},
	{Department: Sanitation, IssueType: "Sewage", Hours: 24},
	{Department: Roads, IssueType: "Pothole", Hours: 72},
	{Department: Roads, IssueType: "Signage", Hours: 96},
	{Department: Water, IssueType: "Leak", Hours: 24},
	{Department: Water, IssueType: "Supply", Hours: 48},
	{Department: Electricity, IssueType: "Streetlight", Hours: 48},
	{Department: Electricity, IssueType: "Outage", Hours: 12},
	{Department: Parks, IssueType: "Maintenance", Hours: 120},
}

// EnsureSLAIndex creates the unique (department, issueType) index
func EnsureSLAIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "department", Value: 1}, {Key: "issueType", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
