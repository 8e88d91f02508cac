package main

import (
	"fmt"
	"slices"

	evdev "github.com/holoplot/go-evdev"
)

// KeyKind tells a key press from a key release.
type KeyKind uint8

const (
	Press KeyKind = iota + 1
	Release
)

func (k KeyKind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	}
	return fmt.Sprintf("KeyKind(%d)", uint8(k))
}

// Raw key values reported in InputEvent.Value for EV_KEY events.
const (
	keyValueRelease = 0
	keyValuePress   = 1
)

// KeyEvent is a classified key press or release.
type KeyEvent struct {
	Code evdev.EvCode
	Kind KeyKind
}

// Classify turns a raw input event into a KeyEvent. Non-key events and
// key values other than press and release (autorepeat) report false.
func Classify(ev *evdev.InputEvent) (KeyEvent, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY {
		return KeyEvent{}, false
	}
	switch ev.Value {
	case keyValuePress:
		return KeyEvent{Code: ev.Code, Kind: Press}, true
	case keyValueRelease:
		return KeyEvent{Code: ev.Code, Kind: Release}, true
	}
	return KeyEvent{}, false
}

// Keyboard identifies an input device that looks like a keyboard.
type Keyboard struct {
	Path string
	Name string
}

// isKeyboard reports whether the device can send both KEY_A and KEY_ENTER.
func isKeyboard(dev *evdev.InputDevice) bool {
	codes := dev.CapableEvents(evdev.EV_KEY)
	return slices.Contains(codes, evdev.KEY_A) && slices.Contains(codes, evdev.KEY_ENTER)
}

// FindKeyboards opens every /dev/input event device and keeps the ones
// with keyboard capabilities. Devices that cannot be opened are skipped.
func FindKeyboards() ([]Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var kbds []Keyboard
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			dbg("skip %s: %v", p.Path, err)
			continue
		}
		if isKeyboard(dev) {
			kbds = append(kbds, Keyboard{Path: p.Path, Name: p.Name})
		}
		dev.Close()
	}

	return kbds, nil
}

// DeviceName returns the kernel name of the device at path, or "" if it
// cannot be opened.
func DeviceName(path string) string {
	dev, err := evdev.Open(path)
	if err != nil {
		return ""
	}
	defer dev.Close()
	name, _ := dev.Name()
	return name
}
