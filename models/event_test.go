package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ledgerRow(from *IssueStatus, to IssueStatus, at time.Time) IssueEvent {
	return IssueEvent{
		ID:         primitive.NewObjectID(),
		IssueID:    primitive.NewObjectID(),
		FromStatus: from,
		ToStatus:   to,
		CreatedAt:  at,
	}
}

func statusPtr(s IssueStatus) *IssueStatus { return &s }

func TestValidateLedger(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creation then lifecycle", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Pending, base),
			ledgerRow(statusPtr(Pending), InProgress, base.Add(time.Hour)),
			ledgerRow(statusPtr(InProgress), Resolved, base.Add(2*time.Hour)),
			ledgerRow(statusPtr(Resolved), Closed, base.Add(3*time.Hour)),
		}
		assert.NoError(t, ValidateLedger(events))
	})

	t.Run("self transition rows are legal", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Pending, base),
			ledgerRow(statusPtr(Pending), Pending, base.Add(time.Hour)),
			ledgerRow(statusPtr(Pending), InProgress, base.Add(2*time.Hour)),
		}
		assert.NoError(t, ValidateLedger(events))
	})

	t.Run("administrative override to closed", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Pending, base),
			ledgerRow(statusPtr(Pending), Closed, base.Add(time.Hour)),
		}
		assert.NoError(t, ValidateLedger(events))
	})

	t.Run("empty ledger fails", func(t *testing.T) {
		assert.ErrorIs(t, ValidateLedger(nil), ErrValidation)
	})

	t.Run("first row must be the creation event", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(statusPtr(Pending), InProgress, base),
		}
		assert.ErrorIs(t, ValidateLedger(events), ErrValidation)
	})

	t.Run("creation must land on pending", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Resolved, base),
		}
		assert.ErrorIs(t, ValidateLedger(events), ErrValidation)
	})

	t.Run("broken chain fails", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Pending, base),
			ledgerRow(statusPtr(InProgress), Resolved, base.Add(time.Hour)),
		}
		assert.ErrorIs(t, ValidateLedger(events), ErrValidation)
	})

	t.Run("illegal backward transition fails", func(t *testing.T) {
		events := []IssueEvent{
			ledgerRow(nil, Pending, base),
			ledgerRow(statusPtr(Pending), Resolved, base.Add(time.Hour)),
			ledgerRow(statusPtr(Resolved), Pending, base.Add(2*time.Hour)),
		}
		assert.ErrorIs(t, ValidateLedger(events), ErrValidation)
	})
}

func TestFieldEventKindValid(t *testing.T) {
	assert.True(t, CrewArrived.Valid())
	assert.True(t, CrewStarted.Valid())
	assert.True(t, CrewCompleted.Valid())
	assert.False(t, FieldEventKind("PAUSED").Valid())
	assert.False(t, FieldEventKind("arrived").Valid())
	assert.False(t, FieldEventKind("").Valid())
}
