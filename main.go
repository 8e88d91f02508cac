package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

var version = "0.3.0"

// options is everything parsed from the command line.
type options struct {
	configPath string
	overrides  Overrides
	showHelp   bool
	showVer    bool
	args       []string
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("keylog", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.overrides.Device, "d", "", "device file to read (shorthand)")
	fs.StringVar(&opts.overrides.Device, "device", "", "device file to read, \"-\" for stdin")
	fs.StringVar(&opts.overrides.LogFile, "f", "", "file to log to (shorthand)")
	fs.StringVar(&opts.overrides.LogFile, "file", "", "file to log to (default keys.log)")
	fs.StringVar(&opts.configPath, "c", "", "config file (shorthand)")
	fs.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/keylog/config.yml)")
	fs.StringVar(&opts.overrides.LogLevel, "log-level", "", "diagnostics level: debug, info, warn, error")
	fs.StringVar(&opts.overrides.LogFormat, "log-format", "", "diagnostics format: text, json")
	fs.BoolVar(&opts.showHelp, "h", false, "print this help message")
	fs.BoolVar(&opts.showHelp, "help", false, "print this help message")
	fs.BoolVar(&opts.showVer, "v", false, "print the version")
	fs.BoolVar(&opts.showVer, "version", false, "print the version")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: keylog [options] [init|version|devices|probe KEY...]\n\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses the command line. flag.ErrHelp is returned for -h.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.showHelp {
		fs.Usage()
		return opts, flag.ErrHelp
	}
	opts.args = fs.Args()
	return opts, nil
}

// configFile returns the config file to use and whether it was named
// explicitly with -c.
func (o options) configFile() (string, bool) {
	if o.configPath != "" {
		return o.configPath, true
	}
	return filepath.Join(configDir(), configFileName), false
}

// loadSettings merges the config file and the command-line overrides.
func loadSettings(opts options) (Config, error) {
	path, required := opts.configFile()
	cfg, err := LoadConfig(path, required)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return opts.overrides.Apply(cfg), nil
}

func setupLogging(cfg Config) error {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func run(cfg Config) error {
	device, err := ResolveDevice(cfg.Device, DetectKeyboards)
	if err != nil {
		return err
	}

	if err := checkPrivileges(device, cfg.RequireRoot); err != nil {
		return err
	}

	logPath := expandLogPath(cfg.LogFile, time.Now())
	sink, err := OpenSink(logPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	src, err := OpenSource(device)
	if err != nil {
		return err
	}
	defer src.Close()

	slog.Debug("session config", "device", device, "log_file", logPath, "require_root", cfg.RequireRoot)
	fmt.Printf("keylog: logging %s to %s\n", device, logPath)

	// Clean shutdown on SIGINT/SIGTERM: closing the source ends the read
	// loop. The handler is released first so a second signal kills the
	// process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		stop()
		src.Close()
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		if err := sink.Watch(watchCtx); err != nil {
			slog.Warn("log rotation watcher stopped", "error", err)
		}
	}()

	err = pump(src, NewTracker(), sink)
	stopWatch()
	<-watchDone
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Println("\nkeylog: shutting down")
	}
	return nil
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	handled, err := runStandalone(opts, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keylog: %v\n", err)
		os.Exit(1)
	}
	if handled {
		return
	}

	cfg, err := loadSettings(opts)
	if err == nil {
		err = setupLogging(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "keylog: %v\n", err)
		os.Exit(1)
	}

	if len(opts.args) > 0 {
		switch opts.args[0] {
		case "devices":
			err = listDevices(os.Stdout)
		case "probe":
			err = runProbe(opts.args[1:], time.Second, 50*time.Millisecond)
		default:
			fmt.Fprintf(os.Stderr, "usage: keylog [options] [init|version|devices|probe KEY...]\n")
			os.Exit(1)
		}
	} else {
		err = run(cfg)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "keylog: %v\n", err)
		os.Exit(1)
	}
}

// runStandalone handles the commands that must work without a readable
// config file: -v, version and init. It reports whether it handled one.
func runStandalone(opts options, stdout io.Writer) (bool, error) {
	if opts.showVer {
		fmt.Fprintf(stdout, "keylog %s\n", version)
		return true, nil
	}
	if len(opts.args) == 0 {
		return false, nil
	}

	switch opts.args[0] {
	case "version":
		fmt.Fprintf(stdout, "keylog %s\n", version)
		return true, nil
	case "init":
		path, _ := opts.configFile()
		fmt.Fprintf(stdout, "keylog: initializing config at %s\n", path)
		if err := initConfig(path); err != nil {
			return true, err
		}
		fmt.Fprintln(stdout, "keylog: config initialized")
		return true, nil
	}
	return false, nil
}

// listDevices prints every detected keyboard with its kernel name.
func listDevices(w io.Writer) error {
	paths, err := DetectKeyboards()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return ErrNoKeyboard
	}
	for _, p := range paths {
		name := DeviceName(p)
		if name == "" {
			name = "?"
		}
		fmt.Fprintf(w, "%s\t%s\n", p, name)
	}
	return nil
}
