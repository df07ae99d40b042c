// Package progress provides a terminal spinner for pipeline stages.
// All output goes to stderr to avoid polluting stdout/pipes.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Spinner shows stage activity while a blocking call is in flight.
type Spinner struct {
	Label   string
	Enabled bool

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

// NewSpinner creates a spinner. Automatically disabled when stderr is
// not a TTY or CHARTKIT_NO_PROGRESS=1.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		Label:   label,
		Enabled: shouldEnable(),
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !s.Enabled {
		return
	}

	s.mu.Lock()
	s.stopped = false
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				if !s.stopped {
					fmt.Fprintf(os.Stderr, "\r\033[K%c %s", frames[i%len(frames)], s.Label)
					i++
				}
				s.mu.Unlock()
			}
		}
	}()
}

// Stop stops the spinner and prints a success line.
func (s *Spinner) Stop(result string) {
	s.finish("✓", result)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(result string) {
	s.finish("✗", result)
}

func (s *Spinner) finish(mark, result string) {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	select {
	case <-s.done:
	default:
		close(s.done)
	}

	if s.Enabled {
		fmt.Fprintf(os.Stderr, "\r\033[K%s %s\n", mark, result)
	}
}

func shouldEnable() bool {
	if os.Getenv("CHARTKIT_NO_PROGRESS") == "1" {
		return false
	}
	stat, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
