package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"civictrack-be/models"
	authUtils "civictrack-be/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewIssueInput carries the validated fields of a citizen report
type NewIssueInput struct {
	ReportedBy  primitive.ObjectID
	Title       string
	IssueType   string
	Description string
	Location    string
	Department  models.Department
	Latitude    *float64
	Longitude   *float64
	ImageURL    *string
}

// CreateIssue inserts a new Pending issue with a fresh QR token, seeds the
// ledger with the creation event, awards the reporter's points, and
// computes the due date if an SLA entry already exists (absence defers the
// computation to the reconciler, it is not an error).
func CreateIssue(ctx context.Context, input NewIssueInput) (*models.Issue, error) {
	if input.ReportedBy.IsZero() || input.IssueType == "" || input.Description == "" ||
		input.Location == "" || input.Department == "" {
		return nil, fmt.Errorf("%w: reporter, type, description, location and department are required", models.ErrValidation)
	}

	now := time.Now()
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		ReportedBy:  input.ReportedBy,
		Title:       input.Title,
		IssueType:   input.IssueType,
		Description: input.Description,
		Location:    input.Location,
		Department:  input.Department,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		ImageURL:    input.ImageURL,
		Status:      models.Pending,
		QRToken:     authUtils.GenerateQRToken(24),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if hours, err := LookupSLA(ctx, issue.Department, issue.IssueType); err == nil {
		due := models.ComputeDueAt(issue.CreatedAt, hours)
		issue.DueAt = &due
	} else if err != models.ErrNotFound {
		log.Println("SLA lookup failed on create:", err)
	}

	if _, err := issueColl().InsertOne(ctx, issue); err != nil {
		return nil, err
	}

	note := "Issue created"
	creation := models.IssueEvent{
		ID:        primitive.NewObjectID(),
		IssueID:   issue.ID,
		ToStatus:  models.Pending,
		Note:      &note,
		CreatedAt: now,
	}
	if _, err := eventColl().InsertOne(ctx, creation); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPartialWrite, err)
	}

	if err := AwardPoints(ctx, issue.ReportedBy, PointsIssueReported); err != nil {
		log.Println("Failed to award report points:", err)
	}

	return &issue, nil
}

// GetIssueByID loads one issue or reports ErrNotFound
func GetIssueByID(ctx context.Context, id primitive.ObjectID) (*models.Issue, error) {
	var issue models.Issue
	err := issueColl().FindOne(ctx, bson.M{"_id": id}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// GetIssueByToken resolves a scanned QR token to its issue
func GetIssueByToken(ctx context.Context, token string) (*models.Issue, error) {
	var issue models.Issue
	err := issueColl().FindOne(ctx, bson.M{"qrToken": token}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &issue, nil
}

// ListIssuesByReporter returns a citizen's issues filtered to the given
// statuses, newest first
func ListIssuesByReporter(ctx context.Context, reporter primitive.ObjectID, statuses []models.IssueStatus) ([]models.Issue, error) {
	filter := bson.M{"reportedBy": reporter}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueColl().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}
