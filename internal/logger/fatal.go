package logger

import (
	"context"
	"envm/internal/version"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

func getSystemInfo() []string {
	executable, _ := os.Executable()
	return []string{
		fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}] (%s)", version.ApplicationName, version.Version, version.Commit),
		"",
		fmt.Sprintf("Currently running as: %s (PID %d)", executable, os.Getpid()),
		"",
		fmt.Sprintf("ARCH:             %s", runtime.GOARCH),
		fmt.Sprintf("OS:               %s", runtime.GOOS),
		fmt.Sprintf("GO:               %s", runtime.Version()),
	}
}

// Fatal logs a message at FatalLevel with system information and a stack trace, then panics with FatalError
func Fatal(ctx context.Context, msg any, args ...any) {
	FatalWithStackSkip(ctx, 1, msg, args...)
}

// FatalWithStackSkip is Fatal with skip extra frames removed from the top of the trace
func FatalWithStackSkip(ctx context.Context, skip int, msg any, args ...any) {
	now := time.Now()

	pc := make([]uintptr, 32)
	n := runtime.Callers(2+skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var allFrames []runtime.Frame
	for {
		frame, more := frames.Next()
		allFrames = append(allFrames, frame)
		if !more {
			break
		}
	}

	var infoLines []string
	for _, line := range getSystemInfo() {
		if line != "" {
			line = "  " + line
		}
		infoLines = append(infoLines, line)
	}

	output := []any{
		"{{_TraceHeader_}}### BEGIN SYSTEM INFORMATION AND STACK TRACE ###",
		infoLines,
		"",
		traceLines(allFrames),
		"{{_TraceFooter_}}### END SYSTEM INFORMATION AND STACK TRACE ###",
		"",
		msg,
		"",
		"{{_FatalFooter_}}Please let the dev know of this error.",
	}

	logAt(ctx, now, LevelFatal, output, args...)
	panic(FatalError{})
}

// traceLines renders frames outermost first, each call indented under its caller
func traceLines(allFrames []runtime.Frame) []string {
	maxIndex := len(allFrames) - 1
	width := len(fmt.Sprintf("%d", maxIndex))
	fmtStr := fmt.Sprintf("%%s%%%dd{{|-|}}%%s %%s%%s%%s%%s:%%s%%d{{|-|}} (%%s%%s{{|-|}})", width)

	wd, _ := os.Getwd()

	var lines []string
	indent := ""
	for i := len(allFrames) - 1; i >= 0; i-- {
		frame := allFrames[i]

		if wd != "" {
			if rel, err := filepath.Rel(wd, frame.File); err == nil && !strings.HasPrefix(rel, "..") {
				frame.File = "./" + filepath.ToSlash(rel)
			}
		}

		suffix := ""
		arrowIndent := indent
		if i < len(allFrames)-1 {
			suffix = "└>"
			if len(indent) >= 2 {
				arrowIndent = indent[:len(indent)-2]
			}
		}

		line := fmt.Sprintf(
			fmtStr,
			"{{_TraceFrameNumber_}}", i,
			":",
			arrowIndent,
			"{{_TraceFrameLines_}}"+suffix+"{{|-|}}",
			"{{_TraceSourceFile_}}", frame.File,
			"{{_TraceLineNumber_}}", frame.Line,
			"{{_TraceFunction_}}", filepath.Base(frame.Function),
		)
		lines = append(lines, "  "+line)
		indent += "  "
	}
	return lines
}

// FatalNoTrace logs a message at FatalLevel without stack trace and panics with FatalError
func FatalNoTrace(ctx context.Context, msg any, args ...any) {
	output := []any{
		msg,
		"",
		"{{_FatalFooter_}}Please let the dev know of this error.",
	}
	logAt(ctx, time.Now(), LevelFatal, output, args...)
	panic(FatalError{})
}
