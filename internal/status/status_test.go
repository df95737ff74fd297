package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	assert.Equal(t, Inactive, Active.Deactivate())
	assert.Equal(t, Active, Inactive.Reactivate())

	// Both transitions are idempotent.
	assert.Equal(t, Inactive, Inactive.Deactivate())
	assert.Equal(t, Active, Active.Reactivate())
}

func TestIsActive(t *testing.T) {
	assert.True(t, Active.IsActive())
	assert.False(t, Inactive.IsActive())
}

func TestValid(t *testing.T) {
	assert.True(t, Active.Valid())
	assert.True(t, Inactive.Valid())
	assert.False(t, Status("deleted").Valid())
	assert.False(t, Status("").Valid())
}
