package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLoggingDisabled(t *testing.T) {
	if f := setupLogging(false); f != nil {
		f.Close()
		t.Error("Expected nil log file with debug off")
	}
	if log.Writer() != io.Discard {
		t.Errorf("Log output = %v, want io.Discard", log.Writer())
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), logDir)

	f := setupLoggingIn(dir, true)
	if f == nil {
		t.Fatal("Expected log file with debug on")
	}
	defer f.Close()
	defer log.SetOutput(io.Discard)

	out := log.Writer()
	if out == os.Stdout || out == os.Stderr {
		t.Error("Log output must not reach the terminal")
	}

	log.Println("body added")

	info, err := os.Stat(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("Stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestSetupLoggingRotatesLargeFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)

	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644); err != nil {
		t.Fatalf("Seed oversized log: %v", err)
	}

	f := setupLoggingIn(dir, true)
	if f == nil {
		t.Fatal("Expected log file after rotation")
	}
	defer f.Close()
	defer log.SetOutput(io.Discard)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Read log dir: %v", err)
	}
	rotated := false
	for _, e := range entries {
		if e.Name() != logFileName && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	if !rotated {
		t.Error("Expected a timestamped rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Stat new log: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("New log size = %d, want under %d", info.Size(), maxLogSize)
	}
}

func TestSetupLoggingDefaultDir(t *testing.T) {
	defer os.RemoveAll(logDir)

	f := setupLogging(true)
	if f == nil {
		t.Fatal("Expected log file in default directory")
	}
	defer f.Close()
	defer log.SetOutput(io.Discard)

	if _, err := os.Stat(filepath.Join(logDir, logFileName)); err != nil {
		t.Errorf("Expected %s/%s: %v", logDir, logFileName, err)
	}
}
