package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotenv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDotenv(t *testing.T) {
	path := writeDotenv(t, `# gateway
GATEWAY_HOST=localhost
GATEWAY_PORT=18350

TODO_ORIGIN="http://localhost:3000"
LOCALE='de'
SPACED_KEY = spaced_value
not-a-pair-line
`)

	keys := map[string]string{
		"GATEWAY_HOST": "localhost",
		"GATEWAY_PORT": "18350",
		"TODO_ORIGIN":  "http://localhost:3000",
		"LOCALE":       "de",
		"SPACED_KEY":   "spaced_value",
	}
	for key := range keys {
		os.Unsetenv(key)
	}

	if err := LoadDotenv(path); err != nil {
		t.Fatal(err)
	}
	for key, want := range keys {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadDotenv_NeverOverrides(t *testing.T) {
	path := writeDotenv(t, "EXISTING_VAR=from-file")
	t.Setenv("EXISTING_VAR", "from-env")

	if err := LoadDotenv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("EXISTING_VAR"); got != "from-env" {
		t.Errorf("EXISTING_VAR = %q, the environment must win", got)
	}
}

func TestLoadDotenv_MissingFile(t *testing.T) {
	if err := LoadDotenv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing file must not error: %v", err)
	}
}
