package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotNil(t, ErrMissingSyncOrchestrator)
	assert.Contains(t, ErrMissingSyncOrchestrator.Error(), "sync orchestrator")
}

func TestErrors_CanBeWrapped(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrMissingSyncOrchestrator)
	assert.ErrorIs(t, wrapped, ErrMissingSyncOrchestrator)
}
