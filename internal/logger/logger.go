package logger

import (
	"context"
	"envm/internal/console"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Helper to resolve message from any type to string
func resolveMsg(msg any) string {
	switch v := msg.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case []any:
		var parts []string
		for _, item := range v {
			parts = append(parts, resolveMsg(item))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}

func log(ctx context.Context, level slog.Level, msg any, args ...any) {
	logAt(ctx, time.Now(), level, msg, args...)
}

// Internal helper to log with a specific timestamp
func logAt(ctx context.Context, t time.Time, level slog.Level, msg any, args ...any) {
	h := slog.Default().Handler()
	if !h.Enabled(ctx, level) {
		return
	}

	msgStr := resolveMsg(msg)
	if len(args) > 0 && strings.Contains(msgStr, "%") {
		msgStr = fmt.Sprintf(msgStr, args...)
		args = nil
	}
	msgStr = console.Parse(msgStr)

	// Every line gets its own record and a trailing reset so colors never bleed
	// into the next timestamp.
	for i, line := range strings.Split(msgStr, "\n") {
		r := slog.NewRecord(t, level, line+console.CodeReset, 0)
		if i == 0 {
			r.Add(args...)
		}
		_ = h.Handle(ctx, r)
	}
}

// Custom log levels
const (
	LevelTrace  = slog.Level(-8)
	LevelDebug  = slog.LevelDebug
	LevelInfo   = slog.Level(-2)
	LevelNotice = slog.LevelInfo
	LevelWarn   = slog.LevelWarn
	LevelError  = slog.LevelError
	LevelFatal  = slog.Level(12)
)

// LevelVar allows dynamic changing of the log level
var LevelVar = new(slog.LevelVar)
var FileLevelVar = new(slog.LevelVar)

func init() {
	LevelVar.Set(LevelNotice)
	FileLevelVar.Set(LevelInfo)
}

// SetLevel sets the console level. The log file always records at least Info.
func SetLevel(level slog.Level) {
	LevelVar.Set(level)
	if level < LevelInfo {
		FileLevelVar.Set(level)
	} else {
		FileLevelVar.Set(LevelInfo)
	}
}

var levelLabels = map[slog.Level]string{
	LevelTrace:  "[TRACE ]",
	LevelDebug:  "[DEBUG ]",
	LevelInfo:   "[INFO  ]",
	LevelNotice: "[NOTICE]",
	LevelWarn:   "[WARN  ]",
	LevelError:  "[ERROR ]",
	LevelFatal:  "[FATAL ]",
}

var levelColors = map[slog.Level]string{
	LevelTrace:  console.CodeBlue,
	LevelDebug:  console.CodeBlue,
	LevelInfo:   console.CodeBlue,
	LevelNotice: console.CodeGreen,
	LevelWarn:   console.CodeYellow,
	LevelError:  console.CodeRed,
	LevelFatal:  console.CodeRedBg + console.CodeWhite,
}

func levelLabel(level slog.Level, color bool) string {
	label, ok := levelLabels[level]
	if !ok {
		return "[" + level.String() + "]"
	}
	if color {
		return levelColors[level] + label + console.CodeReset + "  "
	}
	return label + "  "
}

// NewLogger builds the application logger: a console handler on w, colored when w
// is a terminal, and a plain handler on logFile when it is not nil.
func NewLogger(w io.Writer, logFile io.Writer) *slog.Logger {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	replaceAttrConsole := func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(levelLabel(a.Value.Any().(slog.Level), isTTY))
		}
		return a
	}

	consoleHandler := tint.NewHandler(w, &tint.Options{
		Level:       LevelVar,
		TimeFormat:  "2006-01-02 15:04:05",
		NoColor:     !isTTY,
		ReplaceAttr: replaceAttrConsole,
	})

	handlers := []slog.Handler{consoleHandler}

	if logFile != nil {
		replaceAttrFile := func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				a.Value = slog.StringValue(levelLabel(a.Value.Any().(slog.Level), false))
			case slog.MessageKey:
				a.Value = slog.StringValue(console.StripANSI(a.Value.String()))
			}
			return a
		}

		fileHandler := tint.NewHandler(logFile, &tint.Options{
			Level:       FileLevelVar,
			TimeFormat:  "2006-01-02 15:04:05",
			NoColor:     true,
			ReplaceAttr: replaceAttrFile,
		})
		handlers = append(handlers, fileHandler)
	}

	return slog.New(&FanoutHandler{handlers: handlers})
}

// FanoutHandler broadcasts records to multiple handlers
type FanoutHandler struct {
	handlers []slog.Handler
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: newHandlers}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &FanoutHandler{handlers: newHandlers}
}

// Global helpers for custom levels that don't satisfy standard slog methods
func Trace(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelTrace, msg, args...)
}

func Debug(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelInfo, msg, args...)
}

func Notice(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelNotice, msg, args...)
}

func Warn(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg any, args ...any) {
	log(ctx, LevelError, msg, args...)
}

// FatalError is a special error used to panic from Fatal logger calls
// This allows the main run loop to recover and perform cleanup before exiting
type FatalError struct{}
