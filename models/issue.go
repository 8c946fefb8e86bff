package models

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Department enum
type Department string

const (
	Sanitation  Department = "Sanitation"
	Roads       Department = "Roads"
	Water       Department = "Water"
	Electricity Department = "Electricity"
	Parks       Department = "Parks"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "Pending"
	InProgress IssueStatus = "In Progress"
	Resolved   IssueStatus = "Resolved"
	Closed     IssueStatus = "Closed"
)

// ValidDepartment reports whether d is a known department
func ValidDepartment(d string) bool {
	switch Department(d) {
	case Sanitation, Roads, Water, Electricity, Parks:
		return true
	}
	return false
}

// Valid reports whether s is a known issue status
func (s IssueStatus) Valid() bool {
	switch s {
	case Pending, InProgress, Resolved, Closed:
		return true
	}
	return false
}

// Issue represents a citizen-reported civic complaint
type Issue struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportedBy  primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	Title       string             `bson:"title" json:"title"`
	IssueType   string             `bson:"issueType" json:"issueType"`
	Description string             `bson:"description" json:"description"`
	Location    string             `bson:"location" json:"location"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	ImageURL    *string            `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Department  Department         `bson:"department" json:"department"`
	Status      IssueStatus        `bson:"status" json:"status"`
	QRToken     string             `bson:"qrToken" json:"qrToken"`
	ClosedImage *string            `bson:"closedImage,omitempty" json:"closedImage,omitempty"`
	ClosedLat   *float64           `bson:"closedLat,omitempty" json:"closedLat,omitempty"`
	ClosedLon   *float64           `bson:"closedLon,omitempty" json:"closedLon,omitempty"`
	DueAt       *time.Time         `bson:"dueAt,omitempty" json:"dueAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EnsureQRTokenIndex creates a unique index on the QR token so each printed
// sticker maps to exactly one issue
func EnsureQRTokenIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "qrToken", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// Open reports whether the issue still counts against its SLA deadline.
// Only open issues get their due date recomputed.
func (s IssueStatus) Open() bool {
	return s == Pending || s == InProgress
}

// forward edges of the status graph; self-transitions and the
// administrative override to Closed are handled in CanTransition.
var transitions = map[IssueStatus][]IssueStatus{
	Pending:    {InProgress, Resolved},
	InProgress: {Resolved},
	Resolved:   {},
	Closed:     {},
}

// CanTransition reports whether moving from one status to another is legal.
// Self-transitions are allowed as note-only no-ops, and Closed is reachable
// from any status (administrative override).
func CanTransition(from, to IssueStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to || to == Closed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresEvidence reports whether a transition needs closure proof
// (after-photo plus GPS). Entering Resolved or Closed from an open status
// is the proof-of-work gate; moves between the two closed-side statuses
// reuse the evidence already on file.
func RequiresEvidence(from, to IssueStatus) bool {
	return (to == Resolved || to == Closed) && from.Open()
}

// ClosureEvidence is the proof attached when an issue is marked done in the
// field: an after-photo reference and where it was taken.
type ClosureEvidence struct {
	Image string
	Lat   float64
	Lon   float64
}

// ParseClosureEvidence validates the raw closure inputs. Returns
// ErrEvidenceRequired when the photo is missing or the coordinates are
// absent or not numeric.
func ParseClosureEvidence(image, lat, lon *string) (*ClosureEvidence, error) {
	if image == nil || *image == "" || lat == nil || *lat == "" || lon == nil || *lon == "" {
		return nil, ErrEvidenceRequired
	}
	latF, err := strconv.ParseFloat(*lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: latitude %q is not a number", ErrEvidenceRequired, *lat)
	}
	lonF, err := strconv.ParseFloat(*lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: longitude %q is not a number", ErrEvidenceRequired, *lon)
	}
	return &ClosureEvidence{Image: *image, Lat: latF, Lon: lonF}, nil
}

// ComputeDueAt returns the SLA deadline for an issue created at the given
// time with the given allowance in hours.
func ComputeDueAt(created time.Time, slaHours int) time.Time {
	return created.Add(time.Duration(slaHours) * time.Hour)
}

// DueAtStale reports whether a stored due date needs to be rewritten from
// the SLA formula. A value within one minute of created+hours is considered
// current, which makes recomputation idempotent.
func DueAtStale(due *time.Time, created time.Time, slaHours int) bool {
	if due == nil {
		return true
	}
	drift := due.Sub(ComputeDueAt(created, slaHours))
	if drift < 0 {
		drift = -drift
	}
	return drift > time.Minute
}
