package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a progress indicator on a terminal line. It also implements
// observability.PipelineHooks so the message follows the running stage.
type Spinner struct {
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started atomic.Bool

	mu      sync.Mutex
	message string
	width   int
}

var _ observability.PipelineHooks = (*Spinner)(nil)

// newSpinner creates a spinner writing to w that stops when ctx is done.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// Message returns the text currently shown.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop halts the animation and clears the line. It is safe to call twice.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	pad := max(0, s.width-len(s.message))
	s.width = len(s.message)
	fmt.Fprintf(s.w, "\r%s%s", line, strings.Repeat(" ", pad))
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", max(s.width, len(s.message))+4))
}

// =============================================================================
// PipelineHooks
// =============================================================================

func (s *Spinner) OnGenerateStart(_ context.Context, seed uint64, strategy string) {
	s.SetMessage(fmt.Sprintf("Generating seed %d (%s)", seed, strategy))
}

func (s *Spinner) OnGenerateComplete(context.Context, int, int, time.Duration, error) {}

func (s *Spinner) OnStageStart(_ context.Context, stage string) {
	s.SetMessage(stageLabel(stage) + "...")
}

func (s *Spinner) OnStageComplete(context.Context, string, int, time.Duration, error) {}

func stageLabel(stage string) string {
	switch stage {
	case observability.StageSplit:
		return "Splitting rooms"
	case observability.StagePrune:
		return "Pruning rooms"
	case observability.StageReduce:
		return "Reducing loops"
	case observability.StageGrid:
		return "Building grid"
	case observability.StagePath:
		return "Searching path"
	}
	return stage
}
