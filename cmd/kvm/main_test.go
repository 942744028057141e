package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsallnoise/kontakt-version-manager/internal/cli"
	"github.com/itsallnoise/kontakt-version-manager/internal/kvm/paths"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(paths.ConfigDirEnv, filepath.Join(dir, "config"))
	t.Setenv(paths.PlatformEnv, "windows")
	t.Setenv(cli.NonInteractiveEnv, "1")
	return dir
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := run(args, strings.NewReader(""), stdout, stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunInstructions(t *testing.T) {
	dir := setupTestEnv(t)

	code, stdout, _ := runCLI(t)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, filepath.Join(dir, "config", paths.ConfigFileName)) {
		t.Fatalf("expected config path in output: %s", stdout)
	}
}

func TestRunLibraryPersists(t *testing.T) {
	dir := setupTestEnv(t)
	library := filepath.Join(dir, "library")
	if err := os.MkdirAll(library, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if code, _, stderr := runCLI(t, "library", library); code != 0 {
		t.Fatalf("library exit code = %d: %s", code, stderr)
	}

	code, stdout, _ := runCLI(t, "info", "--output", "json")
	if code != 0 {
		t.Fatalf("info exit code = %d", code)
	}
	var info struct {
		Platform    string `json:"platform"`
		LibraryPath string `json:"library_path"`
	}
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Platform != "windows" || info.LibraryPath != library {
		t.Fatalf("unexpected info: %+v", info)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config", paths.ConfigFileName))
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if !strings.Contains(string(data), library) {
		t.Fatalf("settings missing library path: %s", data)
	}
}

func TestRunRejectedRequestExitsNonZero(t *testing.T) {
	setupTestEnv(t)

	code, stdout, stderr := runCLI(t, "load", "--slot", "8", "--label", "7.0.0")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "Kontakt Version mismatch") {
		t.Fatalf("expected mismatch in report: %s", stdout)
	}
	if strings.Contains(stderr, "Error:") {
		t.Fatalf("rejection must not be echoed twice: %s", stderr)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	setupTestEnv(t)

	code, _, stderr := runCLI(t, "bogus")
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Fatalf("expected error output, got %q", stderr)
	}
}

func TestRunReadWithoutInstallReportsButSucceeds(t *testing.T) {
	setupTestEnv(t)

	code, stdout, _ := runCLI(t, "read", "--no-color")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "File not found:") {
		t.Fatalf("expected missing install file in report: %s", stdout)
	}
}
