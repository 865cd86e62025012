package collector

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLength is the longest message the collector accepts, in runes.
const MaxMessageLength = 500

// Event is the payload posted to the collector.
type Event struct {
	Stack   Stack   `json:"stack"`
	Level   Level   `json:"level"`
	Package Package `json:"package"`
	Message string  `json:"message"`
}

// NewEvent builds an Event, truncating message to MaxMessageLength runes.
func NewEvent(stack Stack, level Level, pkg Package, message string) Event {
	return Event{
		Stack:   stack,
		Level:   level,
		Package: pkg,
		Message: truncate(message, MaxMessageLength),
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	var i int
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// fallbackLine renders e the way it is written to the local log when
// delivery fails.
func (e Event) fallbackLine(ts time.Time) string {
	return fmt.Sprintf("[FALLBACK LOG] %s [%s] %s:%s - %s",
		ts.UTC().Format(time.RFC3339Nano),
		strings.ToUpper(string(e.Stack)),
		strings.ToUpper(string(e.Level)),
		e.Package,
		e.Message,
	)
}
