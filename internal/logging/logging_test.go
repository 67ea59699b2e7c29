package logging

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestSetup_DisabledByDefault(t *testing.T) {
	defer log.SetOutput(os.Stderr)

	logFile := Setup(t.TempDir(), "snake", false)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}
	if log.Writer() != io.Discard {
		t.Errorf("Expected log output to be io.Discard, got %v", log.Writer())
	}
}

func TestSetup_EnabledWithDebug(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	dir := filepath.Join(t.TempDir(), Dir)

	logFile := Setup(dir, "snake", true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()

	if log.Writer() == os.Stdout || log.Writer() == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}

	log.Println("Test log message")

	info, err := os.Stat(filepath.Join(dir, "snake.log"))
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetup_Rotation(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	dir := t.TempDir()
	logPath := filepath.Join(dir, "snake.log")

	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	logFile := Setup(dir, "snake", true)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != "snake.log" && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetup_RotationFailureIsLogged(t *testing.T) {
	defer log.SetOutput(os.Stderr)
	defer func(orig func(string, string) error) { rename = orig }(rename)
	rename = func(string, string) error { return errors.New("device busy") }

	dir := t.TempDir()
	logPath := filepath.Join(dir, "snake.log")
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Failed to create large log file: %v", err)
	}

	logFile := Setup(dir, "snake", true)
	if logFile == nil {
		t.Fatal("Expected the log to stay open when rotation fails")
	}
	logFile.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) <= maxLogSize {
		t.Errorf("Expected the old log to be kept, got %d bytes", len(data))
	}
	if !bytes.Contains(data[maxLogSize:], []byte("device busy")) {
		t.Error("Expected the rotation error in the log")
	}
}
