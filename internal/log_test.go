package internal

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q): expected %v, got %v", name, want, got)
		}
	}
}

func TestConsoleHandler(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		log   func(l *slog.Logger)
		want  string
	}{
		{
			name:  "info is plain",
			level: slog.LevelInfo,
			log:   func(l *slog.Logger) { l.Info("[/photos]: a.jpg -> IMG_1.jpg") },
			want:  "[/photos]: a.jpg -> IMG_1.jpg\n",
		},
		{
			name:  "warn carries level and attrs",
			level: slog.LevelInfo,
			log:   func(l *slog.Logger) { l.Warn("skipped", "reason", "no timestamp", "count", 2) },
			want:  "WARN: skipped reason=\"no timestamp\" count=2\n",
		},
		{
			name:  "debug hidden at info",
			level: slog.LevelInfo,
			log:   func(l *slog.Logger) { l.Debug("details") },
			want:  "",
		},
		{
			name:  "verbose prefixes every level",
			level: slog.LevelDebug,
			log:   func(l *slog.Logger) { l.Info("hello") },
			want:  "INFO: hello\n",
		},
		{
			name:  "with attrs and groups",
			level: slog.LevelInfo,
			log: func(l *slog.Logger) {
				l.With("file", "/p/a.jpg").WithGroup("exif").Error("bad", "tag", "DateTime", slog.Group("pos", "ifd", 1))
			},
			want: "ERROR: bad file=/p/a.jpg exif.tag=DateTime exif.pos.ifd=1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLogger(&buf, tt.level))
			if buf.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestConsoleHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newConsoleHandler(&buf, slog.LevelInfo, true)).Warn("careful")
	if !bytes.Contains(buf.Bytes(), []byte("\x1b[")) {
		t.Errorf("Expected an ANSI colored level, got %q", buf.String())
	}
	if isTerminal(&buf) {
		t.Error("Expected a buffer not to be a terminal")
	}
}
