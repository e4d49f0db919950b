package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress redraws a single status line from a polled counter. With a known
// total it draws a bar; otherwise a spinner and the running count.
type Progress struct {
	w        io.Writer
	title    string
	total    int64
	width    int
	poll     func() int64
	interval time.Duration

	frame    int
	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewProgress creates a progress line. total <= 0 means unknown.
func NewProgress(w io.Writer, title string, total int64, poll func() int64) *Progress {
	return &Progress{
		w:        w,
		title:    title,
		total:    total,
		width:    40,
		poll:     poll,
		interval: 100 * time.Millisecond,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start redraws the line until Stop is called.
func (p *Progress) Start() {
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			p.render(p.poll())
			select {
			case <-p.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the animation and prints message on a line of its own.
// Only the first call has any effect.
func (p *Progress) Stop(message string) {
	p.stopOnce.Do(func() {
		close(p.stop)
		<-p.stopped
		fmt.Fprintf(p.w, "\r\033[K%s\n", message)
	})
}

func (p *Progress) render(current int64) {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %s %d ops", spinnerFrames[p.frame%len(spinnerFrames)], p.title, current)
		p.frame++
		return
	}

	percent := float64(current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d)", p.title, bar, percent*100, current, p.total)
}
