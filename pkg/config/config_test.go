package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CFG_NAME", "from-env")
	path := writeConfig(t, "name: ${TEST_CFG_NAME}\nport: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want %q", cfg.Name, "from-env")
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "name: x\nport: -1\n")

	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadWithDefaults_FallsBackToDefaultFile(t *testing.T) {
	defaultPath := writeConfig(t, "name: fallback\nport: 9090\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	var cfg testConfig
	if err := LoadWithDefaults(missing, defaultPath, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("name = %q, want %q", cfg.Name, "fallback")
	}
}

func TestLoadWithDefaults_PrefersNamedFile(t *testing.T) {
	named := writeConfig(t, "name: named\nport: 8080\n")
	defaultPath := writeConfig(t, "name: fallback\nport: 9090\n")

	var cfg testConfig
	if err := LoadWithDefaults(named, defaultPath, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "named" {
		t.Errorf("name = %q, want %q", cfg.Name, "named")
	}
}

func TestLoadWithDefaults_NoDefault(t *testing.T) {
	var cfg testConfig
	err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"), "", &cfg)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}
