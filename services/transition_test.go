package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestTransactionsUnsupported(t *testing.T) {
	standalone := mongo.CommandError{
		Code:    20,
		Name:    "IllegalOperation",
		Message: "Transaction numbers are only allowed on a replica set member or mongos",
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"illegal operation code", standalone, true},
		{"wrapped illegal operation", fmt.Errorf("run transaction: %w", standalone), true},
		{"message only", errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{"unsupported message", errors.New("transactions are not supported by this deployment"), true},
		{"other command error", mongo.CommandError{Code: 11600, Name: "InterruptedAtShutdown", Message: "interrupted"}, false},
		{"unrelated error", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transactionsUnsupported(tt.err))
		})
	}
}
