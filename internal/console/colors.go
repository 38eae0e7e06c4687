package console

import (
	"strings"

	"github.com/muesli/termenv"
)

// Raw ANSI Color Codes
const (
	// Reset
	CodeReset = "\033[0m"

	// Modifiers
	CodeBold      = "\033[1m"
	CodeDim       = "\033[2m"
	CodeUnderline = "\033[4m"
	CodeBlink     = "\033[5m"
	CodeReverse   = "\033[7m"

	// Modifiers off
	CodeBoldOff      = "\033[22m"
	CodeUnderlineOff = "\033[24m"
	CodeBlinkOff     = "\033[25m"
	CodeReverseOff   = "\033[27m"

	// Foreground
	CodeBlack   = "\033[30m"
	CodeRed     = "\033[31m"
	CodeGreen   = "\033[32m"
	CodeYellow  = "\033[33m"
	CodeBlue    = "\033[34m"
	CodeMagenta = "\033[35m"
	CodeCyan    = "\033[36m"
	CodeWhite   = "\033[37m"

	// Background
	CodeRedBg = "\033[41m"
)

// namedColors maps the color names usable in {{|fg:bg:flags|}} tags to terminal colors
var namedColors = map[string]termenv.ANSIColor{
	"black":   termenv.ANSIBlack,
	"red":     termenv.ANSIRed,
	"green":   termenv.ANSIGreen,
	"yellow":  termenv.ANSIYellow,
	"blue":    termenv.ANSIBlue,
	"magenta": termenv.ANSIMagenta,
	"cyan":    termenv.ANSICyan,
	"white":   termenv.ANSIWhite,
}

// flagCodes maps style flags: uppercase turns an attribute on, lowercase turns it off
var flagCodes = map[rune]string{
	'B': CodeBold,
	'b': CodeBoldOff,
	'D': CodeDim,
	'd': CodeBoldOff,
	'U': CodeUnderline,
	'u': CodeUnderlineOff,
	'L': CodeBlink,
	'l': CodeBlinkOff,
	'R': CodeReverse,
	'r': CodeReverseOff,
}

// semanticMap stores semantic tag -> direct style mappings (e.g., "version" -> "cyan").
// Keys are lowercase.
var semanticMap = map[string]string{
	// Application
	"applicationname": "cyan::B",
	"version":         "cyan",
	"file":            "cyan::B",
	"folder":          "cyan::B",
	"var":             "magenta",
	"env":             "cyan",
	"current":         "green::B",
	"missing":         "red",
	"extra":           "green",
	"yes":             "green",
	"no":              "red",

	// Command line
	"usercommand":            "yellow::B",
	"usercommanderror":       "red::U",
	"usercommanderrormarker": "red",
	"usagecommand":           "yellow::B",
	"usageoption":            "yellow",
	"usagefile":              "cyan::B",
	"usagevar":               "magenta",

	// Log levels
	"trace":  "blue",
	"debug":  "blue",
	"info":   "blue",
	"notice": "green",
	"warn":   "yellow",
	"error":  "red",
	"fatal":  "white:red",

	// Stack traces
	"fatalfooter":      "-",
	"traceheader":      "red",
	"tracefooter":      "red",
	"traceframenumber": "red",
	"traceframelines":  "red",
	"tracesourcefile":  "cyan::B",
	"tracelinenumber":  "yellow::B",
	"tracefunction":    "green::B",
}

// RegisterSemanticTag registers or replaces a semantic tag with its direct style value
func RegisterSemanticTag(name, style string) {
	semanticMap[strings.ToLower(name)] = style
}
