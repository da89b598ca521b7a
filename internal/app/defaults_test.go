package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("SHELF_HOME", "/custom/shelf")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/shelf" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/shelf")
		}
		if defaults["log_dir"] != "/custom/shelf/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/shelf/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SHELF_CONFIG_PATH", "")
		t.Setenv("SHELF_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "shelf.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "shelf")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}

		wantLog := filepath.Join(wantBase, "log")
		if defaults["log_dir"] != wantLog {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], wantLog)
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("LoadDotEnv() error = %v", err)
		}
	})

	t.Run("sets unset variables only", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "SHELF_TEST_FROM_FILE=file\nSHELF_TEST_ALREADY_SET=file\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		t.Setenv("SHELF_TEST_ALREADY_SET", "env")
		// t.Setenv restores the variable afterwards; unset it so the file value applies.
		t.Setenv("SHELF_TEST_FROM_FILE", "")
		os.Unsetenv("SHELF_TEST_FROM_FILE")

		if err := LoadDotEnv(path); err != nil {
			t.Fatalf("LoadDotEnv() error = %v", err)
		}

		if got := os.Getenv("SHELF_TEST_FROM_FILE"); got != "file" {
			t.Errorf("SHELF_TEST_FROM_FILE = %q, want file", got)
		}
		if got := os.Getenv("SHELF_TEST_ALREADY_SET"); got != "env" {
			t.Errorf("SHELF_TEST_ALREADY_SET = %q, want env", got)
		}
	})
}
