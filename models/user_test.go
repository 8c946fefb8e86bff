package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCitizenPasswordRoundTrip(t *testing.T) {
	citizen := Citizen{Password: "s3cret-pass"}
	require.NoError(t, citizen.HashPassword())
	assert.NotEqual(t, "s3cret-pass", citizen.Password)
	assert.True(t, citizen.ComparePassword("s3cret-pass"))
	assert.False(t, citizen.ComparePassword("wrong"))
}
