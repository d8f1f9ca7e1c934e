package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	var state State
	assert.False(t, state.IsHealthy())

	state.SetHealthy()
	assert.True(t, state.IsHealthy())

	state.SetUnhealthy()
	assert.False(t, state.IsHealthy())
}
