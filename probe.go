package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/bendahl/uinput"
	evdev "github.com/holoplot/go-evdev"
)

// keyTyper is the part of uinput.Keyboard the probe needs.
type keyTyper interface {
	KeyPress(key int) error
	KeyDown(key int) error
	KeyUp(key int) error
}

// probeStep is a single action on the virtual keyboard.
type probeStep struct {
	Code evdev.EvCode
	Kind KeyKind // zero means a full tap
}

// parseProbeSteps turns probe arguments into steps. A bare label taps the
// key, "+label" holds it down and "-label" lets it go.
func parseProbeSteps(args []string) ([]probeStep, error) {
	steps := make([]probeStep, 0, len(args))
	for _, arg := range args {
		var kind KeyKind
		label := arg
		if len(arg) > 1 {
			switch arg[0] {
			case '+':
				kind, label = Press, arg[1:]
			case '-':
				kind, label = Release, arg[1:]
			}
		}

		code, ok := KeyCode(label)
		if !ok {
			return nil, fmt.Errorf("unknown key %q", arg)
		}
		steps = append(steps, probeStep{Code: code, Kind: kind})
	}
	return steps, nil
}

// playProbe sends steps to kbd, pausing between each one.
func playProbe(kbd keyTyper, steps []probeStep, pause time.Duration) error {
	for _, st := range steps {
		key := int(st.Code)
		var err error
		switch st.Kind {
		case Press:
			err = kbd.KeyDown(key)
		case Release:
			err = kbd.KeyUp(key)
		default:
			err = kbd.KeyPress(key)
		}
		if err != nil {
			return fmt.Errorf("send %s: %w", KeyName(st.Code), err)
		}
		time.Sleep(pause)
	}
	return nil
}

// runProbe creates a virtual keyboard and types the given keys on it so a
// running logger can be checked end to end.
func runProbe(args []string, settle, pause time.Duration) error {
	if len(args) == 0 {
		return fmt.Errorf("probe: no keys given")
	}
	steps, err := parseProbeSteps(args)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}

	vkbd, err := uinput.CreateKeyboard("/dev/uinput", []byte("keylog-probe"))
	if err != nil {
		return fmt.Errorf("create virtual keyboard: %w", err)
	}
	defer vkbd.Close()

	// Give udev time to announce the new device before typing on it.
	time.Sleep(settle)

	fmt.Printf("keylog: probing with %s\n", strings.Join(args, " "))
	return playProbe(vkbd, steps, pause)
}
