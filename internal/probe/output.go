package probe

import (
	"strings"
	"unicode/utf8"
)

// captureLimit bounds how much output a local probe keeps in memory.
const captureLimit = 64 * 1024

// helpMarkers are matched case-insensitively against captured output.
var helpMarkers = []string{"help", "usage"}

// IsHelpLikeOutput reports whether text looks like a command printed its help or usage.
// Many servers exit non-zero after printing usage, so a match counts as a successful probe.
// The match is a plain substring test: output such as "no help available" also matches.
func IsHelpLikeOutput(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range helpMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// sample trims s and truncates it to at most sampleLimit bytes without splitting a rune.
func sample(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= sampleLimit {
		return s
	}

	cut := sampleLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut]
}

// limitedBuffer keeps the first captureLimit bytes written to it and discards the rest.
type limitedBuffer struct {
	buf strings.Builder
}

// Write implements io.Writer. It never fails, so the child process never sees a broken pipe.
func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := captureLimit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
