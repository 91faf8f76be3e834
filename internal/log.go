package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// NewLogger builds the console logger. Info and above print the message
// and its attributes; below info every line is prefixed with its level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(newConsoleHandler(w, level, isTerminal(w)))
}

// ParseLevel maps a log_level setting to a slog level. Unknown names
// fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type consoleHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	level    slog.Level
	colorize bool
	attrs    []slog.Attr
	group    string
}

func newConsoleHandler(w io.Writer, level slog.Level, colorize bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: level, colorize: colorize}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer

	if h.level < slog.LevelInfo || record.Level >= slog.LevelWarn {
		buf.WriteString(h.levelLabel(record.Level))
		buf.WriteString(": ")
	}
	buf.WriteString(record.Message)

	for _, attr := range h.attrs {
		h.writeAttr(&buf, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(&buf, h.qualify(attr))
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(attr))
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}

func (h *consoleHandler) qualify(attr slog.Attr) slog.Attr {
	if h.group != "" {
		attr.Key = h.group + "." + attr.Key
	}
	return attr
}

func (h *consoleHandler) writeAttr(buf *bytes.Buffer, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, inner := range attr.Value.Group() {
			inner.Key = attr.Key + "." + inner.Key
			h.writeAttr(buf, inner)
		}
		return
	}
	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\"=") {
		value = fmt.Sprintf("%q", value)
	}
	buf.WriteByte(' ')
	buf.WriteString(attr.Key)
	buf.WriteByte('=')
	buf.WriteString(value)
}

func (h *consoleHandler) levelLabel(level slog.Level) string {
	label := level.String()
	if !h.colorize {
		return label
	}
	var c *color.Color
	switch {
	case level >= slog.LevelError:
		c = color.New(color.FgRed, color.Bold)
	case level >= slog.LevelWarn:
		c = color.New(color.FgYellow)
	case level >= slog.LevelInfo:
		c = color.New(color.FgBlue)
	default:
		c = color.New(color.FgHiBlack)
	}
	c.EnableColor()
	return c.Sprint(label)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
