package server

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

const consoleCapacity = 200

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// Console keeps the most recent messages, dropping the oldest when full
type Console struct {
	mu       sync.Mutex
	messages []ConsoleMessage
	capacity int
}

// NewConsole creates a console holding at most capacity messages
func NewConsole(capacity int) *Console {
	return &Console{capacity: capacity}
}

// Append records a message
func (c *Console) Append(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)
	if over := len(c.messages) - c.capacity; over > 0 {
		c.messages = append(c.messages[:0], c.messages[over:]...)
	}
}

// Messages returns a copy of the recorded messages, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ConsoleMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// WebLogger implements core.Logger by recording messages in a console
type WebLogger struct {
	renderID string
	console  *Console
	out      core.Logger
}

// NewWebLogger creates a new web logger for a specific render.
// Messages are also forwarded to out when it is non-nil.
func NewWebLogger(renderID string, console *Console, out core.Logger) *WebLogger {
	return &WebLogger{
		renderID: renderID,
		console:  console,
		out:      out,
	}
}

var _ core.Logger = (*WebLogger)(nil)

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	if wl.out != nil {
		wl.out.Printf("[%s] %s", wl.renderID, message)
	}

	if wl.console != nil {
		wl.console.Append(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   strings.TrimRight(message, "\n"),
			Timestamp: time.Now(),
			Level:     levelOf(message),
		})
	}
}

func levelOf(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "error"), strings.Contains(lower, "failed"):
		return "error"
	case strings.Contains(lower, "warning"), strings.Contains(lower, "cancelled"), strings.Contains(lower, "stopped"):
		return "warning"
	default:
		return "info"
	}
}
