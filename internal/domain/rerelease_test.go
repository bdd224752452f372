package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRereleaseStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to RereleaseStatus
		want     bool
	}{
		{RereleaseActive, RereleaseFulfilled, true},
		{RereleaseActive, RereleaseArchived, true},
		{RereleaseActive, RereleaseActive, false},
		{RereleaseFulfilled, RereleaseActive, false},
		{RereleaseFulfilled, RereleaseArchived, false},
		{RereleaseArchived, RereleaseActive, false},
		{RereleaseArchived, RereleaseFulfilled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRereleaseRequest_AcceptsVotes(t *testing.T) {
	assert.True(t, RereleaseRequest{Status: RereleaseActive}.AcceptsVotes())
	assert.False(t, RereleaseRequest{Status: RereleaseFulfilled}.AcceptsVotes())
	assert.False(t, RereleaseRequest{Status: RereleaseArchived}.AcceptsVotes())
}

func TestRereleaseStatus_IsValid(t *testing.T) {
	assert.True(t, RereleaseArchived.IsValid())
	assert.False(t, RereleaseStatus("pending").IsValid())
}
