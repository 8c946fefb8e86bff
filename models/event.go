package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueEvent is one row of the append-only status ledger. The creation
// event has a nil FromStatus and a nil Actor; system-generated rows also
// carry a nil Actor.
type IssueEvent struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	IssueID    primitive.ObjectID  `bson:"issue" json:"issue"`
	Actor      *primitive.ObjectID `bson:"actor,omitempty" json:"actor,omitempty"`
	FromStatus *IssueStatus        `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus   IssueStatus         `bson:"toStatus" json:"toStatus"`
	Note       *string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}

// ValidateLedger checks that an issue's event sequence (oldest first) is
// consistent with the status graph: it must open with the creation row
// (nil -> Pending) and every consecutive pair must be a legal transition.
func ValidateLedger(events []IssueEvent) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: ledger is empty", ErrValidation)
	}
	first := events[0]
	if first.FromStatus != nil || first.ToStatus != Pending {
		return fmt.Errorf("%w: ledger must start with the creation event", ErrValidation)
	}
	prev := first.ToStatus
	for _, ev := range events[1:] {
		if ev.FromStatus == nil {
			return fmt.Errorf("%w: missing from-status after the creation event", ErrValidation)
		}
		if *ev.FromStatus != prev {
			return fmt.Errorf("%w: event from-status %s does not follow %s", ErrValidation, *ev.FromStatus, prev)
		}
		if !CanTransition(*ev.FromStatus, ev.ToStatus) {
			return fmt.Errorf("%w: illegal transition %s -> %s", ErrValidation, *ev.FromStatus, ev.ToStatus)
		}
		prev = ev.ToStatus
	}
	return nil
}

// FieldEventKind enum — progress markers field crews log via the QR scan
// flow, independent of the status ledger.
type FieldEventKind string

const (
	CrewArrived   FieldEventKind = "ARRIVED"
	CrewStarted   FieldEventKind = "STARTED"
	CrewCompleted FieldEventKind = "COMPLETED"
)

// Valid reports whether k is one of the three crew event kinds
func (k FieldEventKind) Valid() bool {
	switch k {
	case CrewArrived, CrewStarted, CrewCompleted:
		return true
	}
	return false
}

// FieldEvent is a crew check-in logged against an issue's QR token
type FieldEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssueID   primitive.ObjectID `bson:"issue" json:"issue"`
	Kind      FieldEventKind     `bson:"kind" json:"kind"`
	Latitude  *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Photo     *string            `bson:"photo,omitempty" json:"photo,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
