package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"oplhost/app"
	"oplhost/hal"
	"oplhost/internal/buildinfo"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file.")
		showVer    = flag.Bool("version", false, "Print the build version and exit.")
	)
	cfg := app.DefaultConfig()
	fs := flag.CommandLine
	fs.BoolVar(&cfg.Headless.Enabled, "headless", false, "Run without a window.")
	fs.IntVar(&cfg.Headless.Hz, "hz", cfg.Headless.Hz, "Tick rate in headless mode.")
	fs.Uint64Var(&cfg.Headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run until the program ends).")
	fs.StringVar(&cfg.Program.Name, "program", cfg.Program.Name, "Built-in program to run.")
	fs.StringVar(&cfg.Journal.Record, "record", "", "Record host events to this journal file.")
	fs.StringVar(&cfg.Journal.Replay, "replay", "", "Replay host events from this journal file.")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error, off).")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Write logs to this file instead of stderr.")
	fs.BoolVar(&cfg.Audio.Mute, "mute", false, "Disable sound output.")
	flag.Parse()

	if *showVer {
		fmt.Println(buildinfo.String())
		return
	}

	if *configPath != "" {
		fileCfg, err := app.LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
		// Flags given on the command line win over the file.
		cfg = overlayFlags(fileCfg)
	}

	level, err := hal.ParseLevel(cfg.Log.Level)
	if err != nil {
		fatal(err)
	}
	var logw io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		logw = f
	}
	cfg.Logger = hal.NewLogger(logw, level)

	newApp := func(h hal.HAL) func() error { return app.NewWithConfig(h, cfg) }

	if cfg.Headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, cfg.HAL(), newApp, cfg.HeadlessHAL()); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fatal(err)
		}
		return
	}

	if err := hal.RunWindow(cfg.HAL(), newApp); err != nil {
		fatal(err)
	}
}

// overlayFlags copies every explicitly set flag over base.
func overlayFlags(base app.Config) app.Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "headless":
			base.Headless.Enabled = f.Value.String() == "true"
		case "hz":
			_, _ = fmt.Sscan(f.Value.String(), &base.Headless.Hz)
		case "ticks":
			_, _ = fmt.Sscan(f.Value.String(), &base.Headless.Ticks)
		case "program":
			base.Program.Name = f.Value.String()
		case "record":
			base.Journal.Record = f.Value.String()
		case "replay":
			base.Journal.Replay = f.Value.String()
		case "log-level":
			base.Log.Level = f.Value.String()
		case "log-file":
			base.Log.File = f.Value.String()
		case "mute":
			base.Audio.Mute = f.Value.String() == "true"
		}
	})
	return base
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
