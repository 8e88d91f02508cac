package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// entryWriter is where coalesced entries end up. *Sink satisfies it.
type entryWriter interface {
	Write(LogEntry) error
}

// pump reads events from src until it ends, feeding key events through tr
// and writing every resulting entry to w.
//
// The end of a raw stream and a device closed during shutdown both return
// nil. A truncated record or any other read failure is returned as is;
// keys still held at that point are dropped.
func pump(src EventSource, tr *Tracker, w entryWriter) error {
	for {
		ev, err := src.ReadOne()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				dbg("event source ended: %v (held keys dropped: %d)", err, len(tr.Held()))
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		kev, ok := Classify(ev)
		if !ok {
			continue
		}

		for _, e := range tr.Feed(kev) {
			if err := w.Write(e); err != nil {
				return err
			}
		}
	}
}
