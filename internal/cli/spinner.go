package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/adrianjhpc/streamgrid/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a progress indicator on a terminal line. It stops when its
// context is cancelled.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int
}

func newSpinner(w io.Writer, message string) *Spinner {
	return newSpinnerWithContext(context.Background(), w, message)
}

func newSpinnerWithContext(ctx context.Context, w io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
	fmt.Fprintf(s.w, "\r%s", line)
	s.width = max(s.width, len(s.message)+4)
}

// Stop stops the spinner and clears the line. Stop may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		close(s.done)
	})
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Cancelled reports whether the spinner's parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	select {
	case <-s.done:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

// =============================================================================
// Pipeline progress
// =============================================================================

// spinnerHooks reports pipeline progress on a spinner.
type spinnerHooks struct {
	observability.NoopPipelineHooks
	spinner *Spinner

	mu       sync.Mutex
	total    int
	rendered int
}

func (h *spinnerHooks) OnParseStart(_ context.Context, input string) {
	h.spinner.SetMessage("Reading " + input)
}

func (h *spinnerHooks) OnLayoutStart(_ context.Context, nodeCount int) {
	h.spinner.SetMessage(fmt.Sprintf("Laying out %d nodes", nodeCount))
}

func (h *spinnerHooks) OnRenderStart(_ context.Context, artifacts int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total, h.rendered = artifacts, 0
	h.spinner.SetMessage(fmt.Sprintf("Rendering 0/%d", artifacts))
}

func (h *spinnerHooks) OnArtifact(_ context.Context, name string, _ int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered++
	h.spinner.SetMessage(fmt.Sprintf("Rendering %d/%d  %s", h.rendered, h.total, name))
}
