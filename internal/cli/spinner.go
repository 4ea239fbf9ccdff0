package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerInterval = 80 * time.Millisecond
	// spinnerShowElapsed is how long a task runs before its elapsed time is
	// appended to the status line.
	spinnerShowElapsed = time.Second
)

// spinner animates a single status line while a blocking call runs. It stops
// on its own when the parent context is cancelled.
type spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	start   sync.Once
	stop    sync.Once
	began   time.Time

	mu      sync.Mutex
	message string
	width   int
}

// newSpinner returns a stopped spinner that draws to w.
func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		parent:  ctx,
		ctx:     inner,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// startSpinner draws message on stderr until Stop is called.
func startSpinner(ctx context.Context, message string) *spinner {
	s := newSpinner(ctx, os.Stderr, message)
	s.Start()
	return s
}

// Start begins the animation. Calling it twice has no effect.
func (s *spinner) Start() {
	s.start.Do(func() {
		s.began = time.Now()
		go s.run()
	})
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.message
	if elapsed := time.Since(s.began); elapsed >= spinnerShowElapsed {
		text = fmt.Sprintf("%s %.0fs", text, elapsed.Seconds())
	}
	if n := len(text) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

// Update replaces the status text shown on the next frame.
func (s *spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call more than
// once and on a spinner that was never started.
func (s *spinner) Stop() {
	s.stop.Do(func() {
		s.start.Do(func() { close(s.stopped) })
		s.cancel()
		<-s.stopped
		s.clear()
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *spinner) StopWithSuccess(format string, args ...any) {
	s.Stop()
	printSuccess(format, args...)
}

// StopWithError stops the spinner and prints an error line.
func (s *spinner) StopWithError(format string, args ...any) {
	s.Stop()
	printError(format, args...)
}

// Cancelled reports whether the parent context ended, which stops the
// animation without a call to Stop.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
