package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/config.yml
var defaultConfig []byte

// initConfig writes the embedded default config to path, creating its
// directory. An existing file is left untouched.
func initConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	name := filepath.Base(path)
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  skip %s (already exists)\n", name)
		return nil
	}

	if err := os.WriteFile(path, defaultConfig, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("  created %s\n", name)

	return nil
}
