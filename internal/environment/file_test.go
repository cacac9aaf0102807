package environment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	values, found, err := LoadFile(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, values)
}

func TestLoadFile_EmptyPath(t *testing.T) {
	t.Parallel()

	values, found, err := LoadFile("  ")
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, values)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".env")
	content := `# credentials
GITHUB_PERSONAL_ACCESS_TOKEN=ghp_first

not a pair
  SPACED_KEY  =  spaced value
EMPTY=
URL=https://example.test/path?a=b
GITHUB_PERSONAL_ACCESS_TOKEN=ghp_second
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	values, found, err := LoadFile(path)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, map[string]string{
		"GITHUB_PERSONAL_ACCESS_TOKEN": "ghp_second",
		"SPACED_KEY":                   "spaced value",
		"EMPTY":                        "",
		"URL":                          "https://example.test/path?a=b",
	}, values)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:     "empty",
			content:  "",
			expected: map[string]string{},
		},
		{
			name:     "comments only",
			content:  "# A=1\n#B=2\n",
			expected: map[string]string{},
		},
		{
			name:     "quoted value",
			content:  `TOKEN="quoted value"`,
			expected: map[string]string{"TOKEN": "quoted value"},
		},
		{
			name:     "last duplicate wins",
			content:  "A=1\nA=2\nA=3",
			expected: map[string]string{"A": "3"},
		},
		{
			name:     "lines without equals are ignored",
			content:  "JUSTAKEY\nB=2",
			expected: map[string]string{"B": "2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.expected, Parse([]byte(tc.content)))
		})
	}
}
