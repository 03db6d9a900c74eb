package shutdown_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/shutdown"
	"github.com/stretchr/testify/assert"
)

func TestShutdown_RunsHooksInReverseOrder(t *testing.T) {
	order := []int{}

	shutdown.Subscribe(func(ctx context.Context) error {
		order = append(order, 1)
		return nil
	})

	shutdown.Subscribe(func(ctx context.Context) error {
		order = append(order, 2)
		return errors.New("failing hooks do not stop the others")
	})

	shutdown.Shutdown(time.Second)

	assert.Equal(t, []int{2, 1}, order)

	// Hooks run only once
	shutdown.Shutdown(time.Second)
	assert.Equal(t, []int{2, 1}, order)
}

func TestWait_ReturnsWhenContextIsDone(t *testing.T) {
	called := false

	shutdown.Subscribe(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		called = hasDeadline
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	shutdown.Wait(ctx, time.Second)
	assert.True(t, called)
}
