package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenWritesToFile(t *testing.T) {
	dir := t.TempDir()

	log, flush, err := Open(dir, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	For(log, CategoryBoot).Info("console starting")
	flush()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %v (err %v)", entries, err)
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "console starting") {
		t.Errorf("log file missing message: %q", data)
	}
	if !strings.Contains(string(data), "boot") {
		t.Errorf("log file missing category: %q", data)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()

	log, flush, err := Open(dir, true)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	log.Debug("noisy detail")
	flush()

	entries, _ := os.ReadDir(dir)
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if !strings.Contains(string(data), "noisy detail") {
		t.Errorf("debug entry not written in verbose mode: %q", data)
	}
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	if _, _, err := Open("", false); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestForNilLogger(t *testing.T) {
	l := For(nil, CategoryUI)
	if l == nil {
		t.Fatal("For(nil) should return a usable no-op logger")
	}
	l.Info("must not panic")
}
