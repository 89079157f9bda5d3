package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

const (
	progressBarWidth = 40
	progressFPS      = 30

	// clearLine erases the current terminal line and returns the cursor to column 0
	clearLine = "\x1b[2K\r"
)

var (
	barFilledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// progressBar eases towards the completed-tile fraction with a critically damped spring
type progressBar struct {
	mu       sync.Mutex // guards drawing and the spring state
	drawn    bool       // the bar occupies the current line
	w        io.Writer
	width    int
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
}

func newProgressBar(w io.Writer, width int) *progressBar {
	return &progressBar{
		w:      w,
		width:  width,
		spring: harmonica.NewSpring(harmonica.FPS(progressFPS), 6.0, 1.0),
	}
}

// SetProgress moves the target the bar eases towards
func (p *progressBar) SetProgress(update renderer.Progress) {
	if update.TilesTotal > 0 {
		p.target = float64(update.TilesDone) / float64(update.TilesTotal)
	}
}

// Step advances the spring by one frame and returns the displayed fraction
func (p *progressBar) Step() float64 {
	p.position, p.velocity = p.spring.Update(p.position, p.velocity, p.target)
	return p.Fraction()
}

// Fraction returns the displayed fraction clamped to [0, 1]
func (p *progressBar) Fraction() float64 {
	return max(0, min(1, p.position))
}

// View renders the bar for the displayed fraction
func (p *progressBar) View() string {
	filled := int(p.Fraction()*float64(p.width) + 0.5)
	return fmt.Sprintf("%s%s %3.0f%%",
		barFilledStyle.Render(strings.Repeat("█", filled)),
		barEmptyStyle.Render(strings.Repeat("░", p.width-filled)),
		p.Fraction()*100)
}

// Run redraws the bar every frame until updates is closed, then finishes at the last target
func (p *progressBar) Run(updates <-chan renderer.Progress) {
	ticker := time.NewTicker(time.Second / progressFPS)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-updates:
			p.mu.Lock()
			if !ok {
				p.position, p.velocity = p.target, 0
				fmt.Fprintf(p.w, "\r%s\n", p.View())
				p.drawn = false
				p.mu.Unlock()
				return
			}
			p.SetProgress(update)
			p.mu.Unlock()
		case <-ticker.C:
			p.mu.Lock()
			p.Step()
			p.draw()
			p.mu.Unlock()
		}
	}
}

// draw redraws the bar in place; callers hold p.mu
func (p *progressBar) draw() {
	fmt.Fprintf(p.w, "\r%s", p.View())
	p.drawn = true
}

// Logger wraps next so that each log line replaces the bar on the current
// line and the bar is redrawn below it
func (p *progressBar) Logger(next core.Logger) core.Logger {
	return &barLogger{bar: p, next: next}
}

type barLogger struct {
	bar  *progressBar
	next core.Logger
}

func (l *barLogger) Printf(format string, args ...interface{}) {
	l.bar.mu.Lock()
	defer l.bar.mu.Unlock()

	if !l.bar.drawn {
		l.next.Printf(format, args...)
		return
	}
	fmt.Fprint(l.bar.w, clearLine)
	l.next.Printf(format, args...)
	l.bar.draw()
}
