// Package progress draws a transient "working" indicator while a request is
// in flight.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Indicator is shown while a blocking call runs. Stop must return only after
// the indicator has stopped writing and cleared itself.
type Indicator interface {
	Start()
	Stop()
}

// Nop is an Indicator that draws nothing.
type Nop struct{}

func (Nop) Start() {}
func (Nop) Stop()  {}

// DefaultLabel is the text shown next to the spinner.
const DefaultLabel = "Consulting with robots..."

// Dots are braille spinner frames.
var Dots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const green = "\x1b[32m"
const reset = "\x1b[0m"

// Spinner redraws "[<frame>] <label>" on a single line until stopped.
type Spinner struct {
	w        io.Writer
	label    string
	color    bool
	frames   []string
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	width   int
}

// NewSpinner creates a spinner writing to w. The label is green when color is set.
func NewSpinner(w io.Writer, label string, color bool) *Spinner {
	return &Spinner{
		w:        w,
		label:    label,
		color:    color,
		frames:   Dots,
		interval: 80 * time.Millisecond,
	}
}

// Start draws the first frame and keeps animating in the background.
// Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	s.draw(0)
	go s.loop(s.stop, s.done)
}

func (s *Spinner) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 1; ; i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.draw(i)
		}
	}
}

func (s *Spinner) draw(i int) {
	frame := s.frames[i%len(s.frames)]
	plain := fmt.Sprintf("[%s] %s", frame, s.label)
	line := plain
	if s.color {
		line = fmt.Sprintf("[%s] %s%s%s", frame, green, s.label, reset)
	}
	if n := utf8.RuneCountInString(plain); n > s.width {
		s.width = n
	}
	fmt.Fprint(s.w, "\r"+line)
}

// Stop halts the animation, waits for the last write and blanks the line.
// It is safe to call more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stop)
	<-s.done
	s.running = false
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
}
