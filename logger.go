package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/df07/go-pathtracer/pkg/core"
)

var (
	timestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// termLogger writes timestamped, styled lines to a terminal
type termLogger struct {
	mu sync.Mutex
	w  io.Writer
}

var _ core.Logger = (*termLogger)(nil)

func newTermLogger(w io.Writer) *termLogger {
	return &termLogger{w: w}
}

// Printf implements core.Logger; the trailing newline is optional
func (l *termLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if strings.HasPrefix(message, "Warning:") {
		message = warningStyle.Render(message)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s\n", timestampStyle.Render(time.Now().Format("15:04:05")), message)
}
