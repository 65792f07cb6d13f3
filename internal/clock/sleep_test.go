package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleep(t *testing.T) {
	t.Run("zero duration", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), 0))
	})

	t.Run("elapses", func(t *testing.T) {
		assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
		assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
	})
}
