package main

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var ErrNotRoot = errors.New("must run as root")

// checkPrivileges fails unless the process may read device. With
// requireRoot the effective uid must be 0; otherwise read access is
// enough. Reading stdin ("-") opens no device and needs neither.
func checkPrivileges(device string, requireRoot bool) error {
	if device == "-" {
		return nil
	}

	if requireRoot {
		if unix.Geteuid() != 0 {
			return fmt.Errorf("%w (set require_root: false to run from the 'input' group)", ErrNotRoot)
		}
		return nil
	}

	if err := unix.Access(device, unix.R_OK); err != nil {
		return fmt.Errorf("cannot read %s: %w\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in", device, err)
	}
	return nil
}
