package printer

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mozilla-ai/mcpcheck/internal/domain"
)

const separator = "────────────────────────────────────────────"

// Level is the severity of a console line.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Icon returns the icon for a level.
func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return "✅"
	case LevelWarning:
		return "⚠️"
	case LevelError:
		return "❌"
	default:
		return "ℹ️"
	}
}

func (l Level) color() *color.Color {
	switch l {
	case LevelSuccess:
		return successColor
	case LevelWarning:
		return warningColor
	case LevelError:
		return errorColor
	default:
		return infoColor
	}
}

// Line writes a single message prefixed with the level's icon, colored when the terminal supports it.
func Line(w io.Writer, l Level, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "%s %s\n", l.Icon(), l.color().Sprintf(format, args...))
}

// ProbeLevel maps a probe status to a console level.
func ProbeLevel(s domain.ProbeStatus) Level {
	switch s {
	case domain.ProbeStatusOK:
		return LevelSuccess
	case domain.ProbeStatusTimeout, domain.ProbeStatusSkipped:
		return LevelWarning
	default:
		return LevelError
	}
}

// CapabilityLevel maps a capability status to a console level.
func CapabilityLevel(s domain.CapabilityStatus) Level {
	switch s {
	case domain.CapabilityStatusHealthy:
		return LevelSuccess
	case domain.CapabilityStatusOptional:
		return LevelInfo
	case domain.CapabilityStatusUnavailable:
		return LevelError
	default:
		return LevelWarning
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
