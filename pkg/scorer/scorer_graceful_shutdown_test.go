package scorer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/goetarget/pkg/shot"
)

// TestRun_GracefulShutdown tests that the output channel closes when the
// context is cancelled while the input stays open.
func TestRun_GracefulShutdown(t *testing.T) {
	p, env := testParams()
	s := New(p, env, nil)

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan shot.Record)
	out := s.Run(ctx, in)

	in <- shot.Record{Number: 1, RawCounts: [4]uint32{3, 3, 3, 3}}
	select {
	case sc := <-out:
		assert.Equal(t, uint64(1), sc.Record.Number)
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for scored shot")
	}

	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok, "Output channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for output channel to close")
	}
}

// TestRun_InputClosed tests that closing the input closes the output.
func TestRun_InputClosed(t *testing.T) {
	p, env := testParams()
	s := New(p, env, nil)

	in := make(chan shot.Record)
	out := s.Run(context.Background(), in)
	close(in)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "Output channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for output channel to close")
	}
}
