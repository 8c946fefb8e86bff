package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from IssueStatus
		to   IssueStatus
		want bool
	}{
		{"pending to in progress", Pending, InProgress, true},
		{"pending to resolved", Pending, Resolved, true},
		{"in progress to resolved", InProgress, Resolved, true},
		{"resolved to closed", Resolved, Closed, true},
		{"pending override to closed", Pending, Closed, true},
		{"in progress override to closed", InProgress, Closed, true},
		{"pending self loop", Pending, Pending, true},
		{"resolved self loop", Resolved, Resolved, true},
		{"closed self loop", Closed, Closed, true},
		{"resolved back to pending", Resolved, Pending, false},
		{"resolved back to in progress", Resolved, InProgress, false},
		{"closed back to resolved", Closed, Resolved, false},
		{"closed back to pending", Closed, Pending, false},
		{"in progress back to pending", InProgress, Pending, false},
		{"unknown target", Pending, IssueStatus("Archived"), false},
		{"unknown source", IssueStatus("Archived"), Closed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.from, tc.to))
		})
	}
}

func TestRequiresEvidence(t *testing.T) {
	cases := []struct {
		name string
		from IssueStatus
		to   IssueStatus
		want bool
	}{
		{"pending to resolved", Pending, Resolved, true},
		{"pending to closed", Pending, Closed, true},
		{"in progress to resolved", InProgress, Resolved, true},
		{"in progress to closed", InProgress, Closed, true},
		{"resolved to closed reuses evidence", Resolved, Closed, false},
		{"resolved self loop", Resolved, Resolved, false},
		{"closed self loop", Closed, Closed, false},
		{"pending to in progress", Pending, InProgress, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RequiresEvidence(tc.from, tc.to))
		})
	}
}

func TestParseClosureEvidence(t *testing.T) {
	image := "uploads/closures/after.jpg"
	lat := "12.9716"
	lon := "77.5946"

	t.Run("all present", func(t *testing.T) {
		ev, err := ParseClosureEvidence(&image, &lat, &lon)
		require.NoError(t, err)
		assert.Equal(t, image, ev.Image)
		assert.Equal(t, 12.9716, ev.Lat)
		assert.Equal(t, 77.5946, ev.Lon)
	})

	t.Run("missing photo", func(t *testing.T) {
		_, err := ParseClosureEvidence(nil, &lat, &lon)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
	})

	t.Run("missing latitude", func(t *testing.T) {
		_, err := ParseClosureEvidence(&image, nil, &lon)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
	})

	t.Run("empty longitude", func(t *testing.T) {
		empty := ""
		_, err := ParseClosureEvidence(&image, &lat, &empty)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
	})

	t.Run("non-numeric coordinate", func(t *testing.T) {
		bad := "north-ish"
		_, err := ParseClosureEvidence(&image, &bad, &lon)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
	})
}

func TestComputeDueAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	due := ComputeDueAt(created, 48)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), due)
}

func TestDueAtStale(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	exact := ComputeDueAt(created, 48)

	t.Run("nil due is stale", func(t *testing.T) {
		assert.True(t, DueAtStale(nil, created, 48))
	})

	t.Run("exact value is current", func(t *testing.T) {
		assert.False(t, DueAtStale(&exact, created, 48))
	})

	t.Run("within a minute is current", func(t *testing.T) {
		near := exact.Add(40 * time.Second)
		assert.False(t, DueAtStale(&near, created, 48))
		nearBehind := exact.Add(-40 * time.Second)
		assert.False(t, DueAtStale(&nearBehind, created, 48))
	})

	t.Run("beyond a minute is stale", func(t *testing.T) {
		far := exact.Add(2 * time.Minute)
		assert.True(t, DueAtStale(&far, created, 48))
	})

	t.Run("recompute is idempotent", func(t *testing.T) {
		// Rewriting from the formula and checking again must not flag
		// the value a second time.
		recomputed := ComputeDueAt(created, 48)
		assert.False(t, DueAtStale(&recomputed, created, 48))
	})
}

func TestValidDepartment(t *testing.T) {
	assert.True(t, ValidDepartment("Sanitation"))
	assert.True(t, ValidDepartment("Roads"))
	assert.False(t, ValidDepartment("Treasury"))
	assert.False(t, ValidDepartment(""))
}
