package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"syscall"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

type memWriter struct {
	lines []string
	err   error
}

func (m *memWriter) Write(e LogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, e.String())
	return nil
}

// closedSource behaves like a device closed from the signal handler.
type closedSource struct{}

func (closedSource) ReadOne() (*evdev.InputEvent, error) {
	return nil, &os.PathError{Op: "read", Path: "/dev/input/event0", Err: os.ErrClosed}
}

func (closedSource) Close() error { return nil }

func TestPump(t *testing.T) {
	data := encodeEvents(t,
		evdev.InputEvent{Type: evdev.EV_MSC, Code: evdev.MSC_SCAN, Value: 30},
		keyEv(evdev.KEY_LEFTSHIFT, 1), synEv(),
		keyEv(evdev.KEY_LEFTSHIFT, 2), synEv(),
		keyEv(evdev.KEY_H, 1), synEv(),
		keyEv(evdev.KEY_H, 0), synEv(),
		keyEv(evdev.KEY_LEFTSHIFT, 0), synEv(),
		keyEv(evdev.KEY_I, 0), synEv(),
	)

	w := &memWriter{}
	if err := pump(NewStreamSource(bytes.NewReader(data)), NewTracker(), w); err != nil {
		t.Fatalf("pump: %v", err)
	}

	want := []string{"+LShift", "±H", "-LShift", "?I"}
	if !slices.Equal(w.lines, want) {
		t.Fatalf("expected %q, got %q", want, w.lines)
	}
}

func TestPumpShortRecordIsFatal(t *testing.T) {
	data := encodeEvents(t, keyEv(evdev.KEY_A, 1), keyEv(evdev.KEY_A, 0))
	err := pump(NewStreamSource(bytes.NewReader(data[:len(data)-1])), NewTracker(), &memWriter{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestPumpClosedDevice(t *testing.T) {
	if err := pump(closedSource{}, NewTracker(), &memWriter{}); err != nil {
		t.Fatalf("closed device should end cleanly, got %v", err)
	}
}

func TestPumpWriteError(t *testing.T) {
	data := encodeEvents(t, keyEv(evdev.KEY_A, 1), keyEv(evdev.KEY_A, 0))
	boom := fmt.Errorf("disk full")
	err := pump(NewStreamSource(bytes.NewReader(data)), NewTracker(), &memWriter{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestPumpToSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.log")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatal(err)
	}

	data := encodeEvents(t,
		keyEv(evdev.KEY_A, 1), keyEv(evdev.KEY_B, 1),
		keyEv(evdev.KEY_A, 0), keyEv(evdev.KEY_B, 0),
	)
	if err := pump(NewStreamSource(bytes.NewReader(data)), NewTracker(), sink); err != nil {
		t.Fatalf("pump: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "+A\n+B\n-A\n-B\n"; string(got) != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// notifyWriter reports every written line on a channel.
type notifyWriter struct {
	lines chan string
}

func (n *notifyWriter) Write(e LogEntry) error {
	n.lines <- e.String()
	return nil
}

func TestPumpEndsWhenBlockingPipeIsClosed(t *testing.T) {
	// A pipe from syscall.Pipe is a blocking descriptor, like the stdin a
	// shell hands over; closing it does not interrupt a pending read.
	var fds [2]int
	if err := syscall.Pipe(fds[:]); err != nil {
		t.Fatal(err)
	}
	r := os.NewFile(uintptr(fds[0]), "pipe-r")
	w := os.NewFile(uintptr(fds[1]), "pipe-w")
	defer w.Close()

	src := NewStreamSource(r)
	out := &notifyWriter{lines: make(chan string, 4)}
	done := make(chan error, 1)
	go func() { done <- pump(src, NewTracker(), out) }()

	if _, err := w.Write(encodeEvents(t, keyEv(evdev.KEY_A, 1), keyEv(evdev.KEY_A, 0))); err != nil {
		t.Fatal(err)
	}
	select {
	case line := <-out.lines:
		if line != "±A" {
			t.Fatalf("expected ±A, got %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event written to the pipe was never logged")
	}

	// pump is now blocked waiting for the next record.
	src.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("closed source should end pump cleanly, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pump still blocked after the source was closed")
	}
}

func TestStreamSourceReadAfterClose(t *testing.T) {
	src := NewStreamSource(bytes.NewReader(nil))
	src.Close()
	if _, err := src.ReadOne(); !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
		t.Fatalf("expected os.ErrClosed or io.EOF, got %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
