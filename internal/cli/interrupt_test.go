package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	handler := NewInterruptHandler(nil, "Import")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestWatch_Canceled(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	ctx, cancel := context.WithCancel(context.Background())
	stop := handler.Watch(ctx)
	cancel()
	stop()

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Import interrupted!")
	assert.Contains(t, output.String(), "Nothing was saved")
	assert.Equal(t, 1, strings.Count(output.String(), "interrupted!"))
}

func TestWatch_CanceledRightBeforeStop(t *testing.T) {
	for i := range 200 {
		output := &syncBuffer{}
		handler := NewInterruptHandler(output, "Import")

		ctx, cancel := context.WithCancel(context.Background())
		stop := handler.Watch(ctx)
		cancel()
		stop()

		require.True(t, handler.WasInterrupted(), "iteration %d", i)
		require.Equal(t, 1, strings.Count(output.String(), "interrupted!"), "iteration %d", i)
	}
}

func TestWatch_FinishedNormally(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	ctx, cancel := context.WithCancel(context.Background())
	stop := handler.Watch(ctx)
	stop()
	cancel()

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestWatch_StopIsIdempotent(t *testing.T) {
	handler := NewInterruptHandler(&syncBuffer{}, "Import")
	stop := handler.Watch(context.Background())
	stop()
	stop()
	assert.False(t, handler.WasInterrupted())
}
