package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYAMLHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		handle   func(h *YAMLHandler[sample]) error
		expected string
	}{
		{
			name: "single result",
			handle: func(h *YAMLHandler[sample]) error {
				return h.HandleResult(sample{Name: "memory", Healthy: true})
			},
			expected: "result:\n  name: memory\n  healthy: true\n",
		},

		{
			name: "error",
			handle: func(h *YAMLHandler[sample]) error {
				return h.HandleError(errors.New("invalid JSON format"))
			},
			expected: "error: invalid JSON format\n",
		},
		{
			name:     "empty error",
			handle:   func(h *YAMLHandler[sample]) error { return h.HandleError(errors.New("")) },
			expected: "error: \"\"\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			h := NewYAMLHandler[sample](buf, 2)
			require.Equal(t, buf, h.Writer())
			require.NoError(t, tc.handle(h))
			require.Equal(t, tc.expected, buf.String())
		})
	}
}
