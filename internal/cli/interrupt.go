package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// InterruptHandler reports a friendly message when a long-running
// operation is canceled before it finishes.
type InterruptHandler struct {
	writer      io.Writer
	operation   string
	stopOnce    sync.Once
	stopped     chan struct{}
	finished    chan struct{}
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a handler describing the named operation.
func NewInterruptHandler(writer io.Writer, operation string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer:    writer,
		operation: operation,
		stopped:   make(chan struct{}),
		finished:  make(chan struct{}),
	}
}

// Watch starts waiting for ctx to be canceled. The returned function marks
// the operation as finished; after it returns, no message will be printed.
func (h *InterruptHandler) Watch(ctx context.Context) func() {
	go func() {
		defer close(h.finished)
		select {
		case <-ctx.Done():
			h.markInterrupted()
		case <-h.stopped:
			// Both cases may be ready at once; a context canceled before
			// the stop still counts as an interruption.
			if ctx.Err() != nil {
				h.markInterrupted()
			}
		}
	}()

	return func() {
		h.stopOnce.Do(func() { close(h.stopped) })
		<-h.finished
	}
}

func (h *InterruptHandler) markInterrupted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.interrupted {
		h.interrupted = true
		h.showInterruptMessage()
	}
}

func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n" + FormatWarning(h.operation+" interrupted!") +
		"\n" + FormatInfo("Nothing was saved. Run the command again to retry.") + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the operation was canceled.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
