package envfile

import (
	"bufio"
	"strings"
)

// ParseDotenv parses dotenv content. Multi-line values are not supported.
func ParseDotenv(content string) *Vars {
	vars := NewVars()

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vars.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return vars
}
