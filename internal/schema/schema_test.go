package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()

	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{HTTPServer, MCPConfiguration, StdioServer}, Names())
}

func TestSource_Unknown(t *testing.T) {
	t.Parallel()

	_, err := Source("Nope")
	require.ErrorIs(t, err, ErrUnknownSchema)

	_, err = NewCache().Validate("Nope", map[string]any{})
	require.ErrorIs(t, err, ErrUnknownSchema)
}

func TestCache_CompilesOnce(t *testing.T) {
	t.Parallel()

	c := NewCache()
	require.Zero(t, c.Len())

	first, err := c.Get(StdioServer)
	require.NoError(t, err)
	second, err := c.Get(StdioServer)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, c.Len())
}

func TestValidate_MCPConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    string
		fields []string
	}{
		{
			name: "valid",
			doc:  `{"mcpServers": {"a": {"command": "x"}}, "global": {"timeoutMs": 30000}, "version": "1.0.0"}`,
		},
		{
			name:   "missing servers",
			doc:    `{"version": "1.0.0"}`,
			fields: []string{"(root)"},
		},
		{
			name:   "entry is not an object",
			doc:    `{"mcpServers": {"a": "bunx"}}`,
			fields: []string{"mcpServers.a"},
		},
		{
			name:   "global out of range",
			doc:    `{"mcpServers": {"a": {}}, "global": {"maxConcurrentServers": 0}}`,
			fields: []string{"global.maxConcurrentServers"},
		},
		{
			name:   "unknown top-level key",
			doc:    `{"mcpServers": {"a": {}}, "servers": {}}`,
			fields: []string{"(root)"},
		},
		{
			name:   "version is not a string",
			doc:    `{"mcpServers": {"a": {}}, "version": 1}`,
			fields: []string{"version"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations, err := Validate(MCPConfiguration, decode(t, tc.doc))
			require.NoError(t, err)

			fields := []string{}
			for _, v := range violations {
				fields = append(fields, v.Field)
				require.NotEmpty(t, v.Description)
				require.Contains(t, v.String(), v.Field+": ")
			}
			if tc.fields == nil {
				tc.fields = []string{}
			}
			require.Equal(t, tc.fields, fields)
		})
	}
}

func TestValidate_StdioServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
		valid bool
	}{
		{name: "minimal", entry: `{"command": "bunx"}`, valid: true},
		{name: "full", entry: `{"type": "stdio", "command": "bunx", "args": ["-y", "pkg"], "env": {"A": "${A}"}, "cwd": "/tmp", "initTimeoutMs": 10000, "autoRestart": true, "maxRestarts": 3}`, valid: true},
		{name: "blank command", entry: `{"command": "   "}`, valid: false},
		{name: "args not strings", entry: `{"command": "bunx", "args": [1, 2]}`, valid: false},
		{name: "args not array", entry: `{"command": "bunx", "args": "-y"}`, valid: false},
		{name: "env not flat", entry: `{"command": "bunx", "env": {"A": {"nested": true}}}`, valid: false},
		{name: "init timeout out of range", entry: `{"command": "bunx", "initTimeoutMs": 100}`, valid: false},
		{name: "unknown type", entry: `{"type": "grpc", "command": "bunx"}`, valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations, err := Validate(StdioServer, decode(t, tc.entry))
			require.NoError(t, err)
			require.Equal(t, tc.valid, len(violations) == 0, "%v", violations)
		})
	}
}

func TestValidate_HTTPServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
		valid bool
	}{
		{name: "minimal", entry: `{"serverUrl": "https://example.test/sse"}`, valid: true},
		{name: "headers", entry: `{"serverUrl": "https://example.test/sse", "headers": {"Authorization": "Bearer x"}}`, valid: true},
		{name: "missing url", entry: `{"headers": {}}`, valid: false},
		{name: "headers not strings", entry: `{"serverUrl": "https://example.test", "headers": {"X": 1}}`, valid: false},
		{name: "retry delay out of range", entry: `{"serverUrl": "https://example.test", "retryDelayMs": 5}`, valid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			violations, err := Validate(HTTPServer, decode(t, tc.entry))
			require.NoError(t, err)
			require.Equal(t, tc.valid, len(violations) == 0, "%v", violations)
		})
	}
}
