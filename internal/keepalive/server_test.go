package keepalive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServe_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0")
	}()

	// Let the listener come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestServe_BadAddrReturnsError(t *testing.T) {
	err := Serve(context.Background(), "not-an-addr")
	assert.Error(t, err)
}
