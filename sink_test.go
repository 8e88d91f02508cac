package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.log")
	if err := os.WriteFile(path, []byte("±Q\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := []LogEntry{
		{Symbol: SymPress, Label: "Enter"},
		{Symbol: SymTap, Label: "A"},
		{Symbol: SymRelease, Label: "LShift"},
		{Symbol: SymOrphan, Label: UnknownKey},
	}
	for _, e := range entries {
		if err := sink.Write(e); err != nil {
			t.Fatal(err)
		}
	}
	sink.Close()

	want := "±Q\n+Enter\n±A\n-LShift\n?" + UnknownKey + "\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSinkWriteAfterClose(t *testing.T) {
	sink, err := OpenSink(filepath.Join(t.TempDir(), "keys.log"))
	if err != nil {
		t.Fatal(err)
	}
	sink.Close()
	if err := sink.Write(LogEntry{Symbol: SymTap, Label: "A"}); err == nil {
		t.Fatalf("expected error writing to closed sink")
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestSinkOpenFails(t *testing.T) {
	if _, err := OpenSink(filepath.Join(t.TempDir(), "missing", "keys.log")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestSinkReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.log")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	sink.Write(LogEntry{Symbol: SymTap, Label: "A"})
	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatal(err)
	}
	if err := sink.Reopen(); err != nil {
		t.Fatal(err)
	}
	sink.Write(LogEntry{Symbol: SymTap, Label: "B"})

	if got := readFile(t, path+".1"); got != "±A\n" {
		t.Fatalf("rotated file: got %q", got)
	}
	if got := readFile(t, path); got != "±B\n" {
		t.Fatalf("new file: got %q", got)
	}
}

func TestSinkWatchReopensAfterRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.log")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sink.Watch(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("watch: %v", err)
		}
	}()

	// Let the watcher register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.Rename(path, path+".1"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("log file was not reopened")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := sink.Write(LogEntry{Symbol: SymRelease, Label: "Tab"}); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); !strings.Contains(got, "-Tab") {
		t.Fatalf("expected entry in reopened file, got %q", got)
	}
}
