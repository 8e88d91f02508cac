package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// EventSource yields raw input events one at a time. *evdev.InputDevice
// satisfies it.
type EventSource interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// eventSize is the size of one input_event record on this host.
var eventSize = binary.Size(evdev.InputEvent{})

// DecodeEvent decodes one input_event record in native byte order.
func DecodeEvent(b []byte) (*evdev.InputEvent, error) {
	if len(b) != eventSize {
		return nil, fmt.Errorf("decode event: got %d bytes, want %d", len(b), eventSize)
	}
	var ev evdev.InputEvent
	if _, err := binary.Decode(b, binary.NativeEndian, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &ev, nil
}

// streamSource decodes input_event records from a plain byte stream, such
// as a capture file or a pipe.
//
// Reads happen on a separate goroutine. A blocking descriptor like an
// inherited stdin cannot be interrupted by closing it, so Close abandons
// that goroutine instead and any pending ReadOne returns os.ErrClosed.
type streamSource struct {
	r       io.Reader
	start   sync.Once
	results chan streamResult
	done    chan struct{}
	stop    sync.Once
}

type streamResult struct {
	ev  *evdev.InputEvent
	err error
}

// NewStreamSource reads fixed-size input_event records from r. A record
// cut short by the end of the stream is reported as io.ErrUnexpectedEOF.
func NewStreamSource(r io.Reader) EventSource {
	return &streamSource{
		r:       r,
		results: make(chan streamResult),
		done:    make(chan struct{}),
	}
}

func (s *streamSource) readLoop() {
	defer close(s.results)
	for {
		buf := make([]byte, eventSize)
		var res streamResult
		if _, err := io.ReadFull(s.r, buf); err != nil {
			res.err = err
		} else {
			res.ev, res.err = DecodeEvent(buf)
		}

		select {
		case s.results <- res:
		case <-s.done:
			return
		}
		if res.err != nil {
			return
		}
	}
}

func (s *streamSource) ReadOne() (*evdev.InputEvent, error) {
	s.start.Do(func() { go s.readLoop() })

	select {
	case res, ok := <-s.results:
		if !ok {
			return nil, io.EOF
		}
		return res.ev, res.err
	case <-s.done:
		return nil, os.ErrClosed
	}
}

func (s *streamSource) Close() error {
	var err error
	s.stop.Do(func() {
		close(s.done)
		if c, ok := s.r.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}

// OpenSource opens path as an event source. Character devices go through
// evdev; anything else, including "-" for stdin, is read as a raw stream.
func OpenSource(path string) (EventSource, error) {
	if path == "-" {
		return NewStreamSource(os.Stdin), nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat device: %w", err)
	}

	if fi.Mode()&os.ModeCharDevice != 0 {
		dev, err := evdev.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open device %s: %w", path, err)
		}
		return dev, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewStreamSource(f), nil
}
