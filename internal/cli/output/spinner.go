package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner animates a message on w while a long operation runs.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string

	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner. Nothing is drawn until Start.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"|", "/", "-", "\\"},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start draws frames every 100ms until Stop, Success or Fail.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

func (s *Spinner) halt(final string) {
	s.once.Do(func() {
		close(s.stop)
		select {
		case <-s.done:
		case <-time.After(time.Second):
		}
		fmt.Fprint(s.w, final)
	})
}

// Stop clears the line.
func (s *Spinner) Stop() { s.halt("\r\033[K") }

// Success replaces the spinner with an ok line.
func (s *Spinner) Success(message string) { s.halt("\r\033[Kok: " + message + "\n") }

// Fail replaces the spinner with a failure line.
func (s *Spinner) Fail(message string) { s.halt("\r\033[Kfailed: " + message + "\n") }
