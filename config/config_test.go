package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"voicebot/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: abc123\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Limits.MaxFileMB != 25 {
		t.Errorf("max_file_mb default: got %g, want 25", cfg.Limits.MaxFileMB)
	}
	if cfg.Whisper.Model != "whisper-1" {
		t.Errorf("whisper model default: got %q", cfg.Whisper.Model)
	}
	if cfg.Language.Fallback != "en" {
		t.Errorf("fallback default: got %q", cfg.Language.Fallback)
	}
	if cfg.Pool.Workers != 4 || cfg.Pool.Queue != 16 {
		t.Errorf("pool defaults: got %d/%d", cfg.Pool.Workers, cfg.Pool.Queue)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults: got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("BOT_TOKEN", "secret-token")
	path := writeConfig(t, "telegram:\n  token: ${BOT_TOKEN}\nlimits:\n  max_file_mb: 10\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Telegram.Token != "secret-token" {
		t.Errorf("token: got %q", cfg.Telegram.Token)
	}
	if cfg.Limits.MaxFileMB != 10 {
		t.Errorf("max_file_mb: got %g, want 10", cfg.Limits.MaxFileMB)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	path := writeConfig(t, "limits:\n  max_file_mb: 10\n")

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for missing telegram token")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
