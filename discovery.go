package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// procDevices lists every input device the kernel knows about.
const procDevices = "/proc/bus/input/devices"

// keyboardEVBits is the EV bitmap of a keyboard: SYN, KEY, MSC, LED, REP.
const keyboardEVBits = "120013"

var (
	ErrNoKeyboard        = errors.New("no keyboard devices found")
	ErrAmbiguousKeyboard = errors.New("more than one keyboard device found")
)

// ParseProcDevices reads the /proc/bus/input/devices format and returns
// the /dev/input paths of devices whose EV bitmap marks them as keyboards.
func ParseProcDevices(r io.Reader) ([]string, error) {
	var (
		paths    []string
		handlers []string
		ev       string
	)

	flushBlock := func() {
		if ev == keyboardEVBits {
			for _, h := range handlers {
				if strings.HasPrefix(h, "event") {
					paths = append(paths, "/dev/input/"+h)
				}
			}
		}
		handlers, ev = nil, ""
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			flushBlock()
		case strings.HasPrefix(line, "H: Handlers="):
			handlers = strings.Fields(strings.TrimPrefix(line, "H: Handlers="))
		case strings.HasPrefix(line, "B: EV="):
			ev = strings.TrimPrefix(line, "B: EV=")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input devices: %w", err)
	}
	flushBlock()

	return paths, nil
}

// DetectKeyboards returns the device paths of all attached keyboards. It
// reads /proc first and falls back to probing device capabilities.
func DetectKeyboards() ([]string, error) {
	f, err := os.Open(procDevices)
	if err == nil {
		defer f.Close()
		paths, err := ParseProcDevices(f)
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			dbg("detected keyboards from %s: %v", procDevices, paths)
			return paths, nil
		}
	} else {
		dbg("cannot read %s: %v", procDevices, err)
	}

	kbds, err := FindKeyboards()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(kbds))
	for _, kb := range kbds {
		paths = append(paths, kb.Path)
	}
	dbg("detected keyboards by capability: %v", paths)
	return paths, nil
}

// ResolveDevice picks the device to read. An explicit path always wins;
// otherwise exactly one keyboard must be detected.
func ResolveDevice(explicit string, detect func() ([]string, error)) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	paths, err := detect()
	if err != nil {
		return "", fmt.Errorf("detect keyboards: %w", err)
	}

	switch len(paths) {
	case 0:
		return "", fmt.Errorf("%w\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in", ErrNoKeyboard)
	case 1:
		return paths[0], nil
	default:
		return "", fmt.Errorf("%w: %s\nPlease select one with -d", ErrAmbiguousKeyboard, strings.Join(paths, ", "))
	}
}
