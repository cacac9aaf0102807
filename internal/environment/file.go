package environment

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadFile reads KEY=VALUE pairs from the dotenv file at path.
// Blank lines, comments and lines without '=' are ignored, and the last declaration of a key wins.
// A missing file is not an error: the returned bool reports whether the file was found.
func LoadFile(path string) (map[string]string, bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read env file (%s): %w", path, err)
	}

	return Parse(data), true, nil
}

// Parse decodes dotenv content.
// Each line is parsed on its own, so a malformed line never hides the others.
func Parse(data []byte) map[string]string {
	values := map[string]string{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}

		parsed, err := godotenv.Unmarshal(line)
		if err != nil {
			continue
		}

		for k, v := range parsed {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			values[k] = strings.TrimSpace(v)
		}
	}

	return values
}
