package internal

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// isolate points the user config dir at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ImagePrefix != DefaultImagePrefix || cfg.VideoPrefix != DefaultVideoPrefix {
		t.Errorf("Expected default prefixes, got %q %q", cfg.ImagePrefix, cfg.VideoPrefix)
	}
	if cfg.TimeFormat != DefaultTimeFormat {
		t.Errorf("Expected time format %s, got %s", DefaultTimeFormat, cfg.TimeFormat)
	}
	if cfg.WatchSettle != 2*time.Second {
		t.Errorf("Expected 2s settle delay, got %v", cfg.WatchSettle)
	}
	if cfg.UseExifTool || cfg.JournalDir != "" {
		t.Errorf("Expected exiftool and journal off, got %v %q", cfg.UseExifTool, cfg.JournalDir)
	}
	if kind, ok := cfg.Classifier().Kind("/x/CLIP.MOV"); !ok || kind != MediaVideo {
		t.Error("Expected .MOV to be a video")
	}
	if _, err := NewNamingConfig(cfg.NamingOptions()); err != nil {
		t.Errorf("Expected default naming options to be valid, got %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
image_prefix = "PHOTO_"
time_format = "%Y-%m-%d_%H%M%S"
source_timezone = "Europe/Berlin"
image_extensions = ["JPG", ".Heic", " "]
use_exiftool = true
journal_dir = "/var/log/exifrename"
watch_settle = "500ms"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ImagePrefix != "PHOTO_" || cfg.VideoPrefix != DefaultVideoPrefix {
		t.Errorf("Expected PHOTO_ and the default video prefix, got %q %q", cfg.ImagePrefix, cfg.VideoPrefix)
	}
	if want := []string{".jpg", ".heic"}; !reflect.DeepEqual(cfg.ImageExt, want) {
		t.Errorf("Expected %v, got %v", want, cfg.ImageExt)
	}
	if !cfg.UseExifTool || cfg.WatchSettle != 500*time.Millisecond {
		t.Errorf("Expected exiftool on and 500ms settle, got %v %v", cfg.UseExifTool, cfg.WatchSettle)
	}

	at := time.Date(2023, 6, 1, 14, 30, 5, 0, time.UTC)
	if got := cfg.JournalPath(at); got != "/var/log/exifrename/exifrename-2023-06-01-143005.jsonl" {
		t.Errorf("Unexpected journal path %s", got)
	}
	opts := cfg.NamingOptions()
	if opts.SourceTimezone != "Europe/Berlin" || opts.ImagePrefix != "PHOTO_" {
		t.Errorf("Unexpected naming options %+v", opts)
	}
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, "exifrename")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "exifrename.toml"), []byte(`video_prefix = "MOV_"`), 0644)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.VideoPrefix != "MOV_" {
		t.Errorf("Expected MOV_ from the default config file, got %s", cfg.VideoPrefix)
	}

	path, err := DefaultConfigPath()
	if err != nil || path != filepath.Join(dir, "exifrename.toml") {
		t.Errorf("Unexpected default path %s (%v)", path, err)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	isolate(t)
	t.Setenv("EXIFRENAME_IMAGE_PREFIX", "PXL_")
	t.Setenv("EXIFRENAME_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ImagePrefix != "PXL_" || cfg.LogLevel != "debug" {
		t.Errorf("Expected environment overrides, got %q %q", cfg.ImagePrefix, cfg.LogLevel)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected an error for a missing explicit config file")
	}
}

func TestConfig_MarshalTOML(t *testing.T) {
	isolate(t)
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ImagePrefix = "SNAP_"
	cfg.WatchSettle = 3 * time.Second

	data, err := cfg.MarshalTOML()
	if err != nil {
		t.Fatalf("MarshalTOML failed: %v", err)
	}
	if !strings.Contains(string(data), "watch_settle") || !strings.Contains(string(data), "3s") {
		t.Errorf("Expected the settle delay as a duration string, got:\n%s", data)
	}

	path := filepath.Join(t.TempDir(), "out.toml")
	os.WriteFile(path, data, 0644)
	back, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig of marshalled config failed: %v", err)
	}
	if !reflect.DeepEqual(back, cfg) {
		t.Errorf("Expected %+v, got %+v", cfg, back)
	}
}
