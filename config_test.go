package offcanvas

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want 60", cfg.TargetFPS)
	}
	if cfg.Width != 1000 {
		t.Errorf("Width = %v, want 1000", cfg.Width)
	}
	if cfg.Pool.Grow != 64 || cfg.Queue.Depth != 8 {
		t.Errorf("pool/queue = %d/%d", cfg.Pool.Grow, cfg.Queue.Depth)
	}
	if got := cfg.Interval(); got != time.Second/60 {
		t.Errorf("Interval = %v", got)
	}
	if ParseRendering(cfg.Rendering) != RenderingCrisp {
		t.Errorf("rendering %q is not crisp", cfg.Rendering)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	cfg, err := ParseConfig([]byte("target_fps: 30\nrendering: smooth\ncapture:\n  format: webp\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TargetFPS != 30 {
		t.Errorf("TargetFPS = %d, want 30", cfg.TargetFPS)
	}
	if cfg.Width != 1000 {
		t.Errorf("Width = %v, default lost", cfg.Width)
	}
	if cfg.Capture.Dir != "captures" {
		t.Errorf("Capture.Dir = %q, default lost", cfg.Capture.Dir)
	}
	opts := cfg.WorkerOptions()
	if opts.Rendering != RenderingSmooth || opts.CaptureFormat != "webp" {
		t.Errorf("worker options = %+v", opts)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	if _, err := ParseConfig([]byte("target_fps: 0")); err == nil {
		t.Error("expected error for zero fps")
	}
	if _, err := ParseConfig([]byte("target_fps: [")); err == nil {
		t.Error("expected YAML error")
	}
	_, err := ParseConfig([]byte("capture:\n  format: bmp\n"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestConfigWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.TargetFPS = 24
	cfg.Stats.CSV = "frames.csv"
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
