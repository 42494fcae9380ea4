package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on w until the work it covers ends or ctx
// is cancelled. Outcome lines go to the same writer, so stdout stays free
// for image data.
type spinner struct {
	w       io.Writer
	message string
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}

	mu   sync.Mutex
	once sync.Once
}

// startSpinner starts a spinner showing message.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// stop ends the animation and clears the line. It is safe to call more than once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		s.mu.Unlock()
	})
}

// succeed stops the spinner and leaves a success line.
func (s *spinner) succeed(format string, args ...any) {
	s.stop()
	fmt.Fprintln(s.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// fail stops the spinner and leaves an error line. When the parent context
// was cancelled the line is only cleared.
func (s *spinner) fail(format string, args ...any) {
	s.stop()
	if s.interrupted() {
		return
	}
	fmt.Fprintln(s.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// interrupted reports whether the parent context has ended.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
