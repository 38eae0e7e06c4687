package console

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/muesli/termenv"
)

var (
	// semanticRegex matches {{_content_}} format for semantic tags
	semanticRegex = regexp.MustCompile(`\{\{_([A-Za-z0-9_]+)_\}\}`)

	// directRegex matches {{|content|}} format for direct fg:bg:flags codes
	directRegex = regexp.MustCompile(`\{\{\|([A-Za-z0-9_:\-#]+)\|\}\}`)

	ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// ExpandTags converts semantic tags to the standardized {{|style|}} format.
// Unknown semantic tags are removed.
func ExpandTags(text string) string {
	return semanticRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := strings.ToLower(match[3 : len(match)-3]) // Strip "{{_" and "_}}"
		if style, ok := semanticMap[content]; ok {
			return "{{|" + style + "|}}"
		}
		return ""
	})
}

// ToANSI converts semantic and direct tags to ANSI escape sequences
// - {{_Tag_}} : Semantic lookup -> ANSI
// - {{|code|}} : Direct fg:bg:flags -> ANSI
//
// When stdout is not a terminal all tags are stripped instead.
func ToANSI(text string) string {
	if !isTTYGlobal || preferredProfile == termenv.Ascii {
		return Strip(text)
	}

	text = ExpandTags(text)
	return directRegex.ReplaceAllStringFunc(text, func(match string) string {
		return parseStyleCode(match[3 : len(match)-3]) // Strip "{{|" and "|}}"
	})
}

// Parse is the entry point used by the logger for messages carrying tags.
func Parse(text string) string {
	return ToANSI(text)
}

// parseStyleCode parses fg:bg:flags format and returns ANSI codes
func parseStyleCode(content string) string {
	if content == "-" {
		return CodeReset
	}

	parts := strings.Split(content, ":")
	var codes strings.Builder

	if len(parts) > 0 {
		codes.WriteString(colorCode(parts[0], false))
	}
	if len(parts) > 1 {
		codes.WriteString(colorCode(parts[1], true))
	}
	if len(parts) > 2 {
		for _, flag := range parts[2] {
			codes.WriteString(flagCodes[flag])
		}
	}
	return codes.String()
}

// colorCode returns the escape sequence of a named or hex color, degraded to the current profile
func colorCode(name string, background bool) string {
	if name == "" || name == "-" {
		return ""
	}

	var c termenv.Color
	if strings.HasPrefix(name, "#") {
		c = preferredProfile.Color(name)
	} else if ansi, ok := namedColors[strings.ToLower(name)]; ok {
		c = preferredProfile.Convert(ansi)
	} else {
		return ""
	}

	seq := c.Sequence(background)
	if seq == "" {
		return ""
	}
	return termenv.CSI + seq + "m"
}

// Strip removes all semantic and direct tags from text, as well as ANSI escape sequences
func Strip(text string) string {
	text = semanticRegex.ReplaceAllString(text, "")
	text = directRegex.ReplaceAllString(text, "")
	return StripANSI(text)
}

// StripANSI removes ANSI color sequences from text
func StripANSI(text string) string {
	return ansiRegex.ReplaceAllString(text, "")
}

// Sprintf formats according to a format specifier and returns the string with ANSI codes
func Sprintf(format string, a ...any) string {
	return ToANSI(fmt.Sprintf(format, a...))
}

// Println prints a line to stdout with tags converted to ANSI codes
func Println(a ...any) {
	Fprintln(os.Stdout, a...)
}

// Fprintln writes a line to w with tags converted to ANSI codes
func Fprintln(w io.Writer, a ...any) {
	fmt.Fprintln(w, ToANSI(fmt.Sprint(a...)))
}
