package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kapitanov/chip8emu/internal/chip8"
	"github.com/kapitanov/chip8emu/internal/vm"
	"github.com/spf13/cobra"
)

type options struct {
	verbose    bool
	backend    string
	cycleRate  float64
	tickRate   float64
	frames     int
	snapshot   string
	recordTone string
	mute       bool
	seed       uint64
	logFile    string
}

func main() {
	cmd := newRootCommand()

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run emulator",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&opts.backend, "backend", backendSDL, "presentation backend: sdl, terminal or headless")
	flags.Float64Var(&opts.cycleRate, "cycle-rate", chip8.DefaultCycleRate, "instructions executed per second")
	flags.Float64Var(&opts.tickRate, "tick-rate", chip8.DefaultTickRate, "timer decrements per second")
	flags.IntVar(&opts.frames, "frames", 600, "frames to run with the headless backend")
	flags.StringVar(&opts.snapshot, "snapshot", "", "write the last headless frame to this file")
	flags.StringVar(&opts.recordTone, "record-tone", "", "record the tone to this WAV file instead of playing it")
	flags.BoolVar(&opts.mute, "mute", false, "disable the tone")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for the random instruction")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		closeLog, err := setupLogger(opts)
		if err != nil {
			return err
		}
		defer closeLog()

		var vmOpts []vm.Option
		if cmd.Flags().Changed("seed") {
			vmOpts = append(vmOpts, vm.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
		}

		err = run(cmd.Context(), args[0], opts, vmOpts...)
		if err != nil && opts.logFile != "" {
			slog.Error("fatal error", "err", err)
		}
		return err
	}

	cmd.AddCommand(newDisasmCommand())
	return cmd
}

func newDisasmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm PATH_TO_ROM_FILE",
		Short: "Print the instructions of a ROM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bs, err := loadROM(args[0])
			if err != nil {
				return err
			}
			return vm.Disassemble(cmd.OutOrStdout(), bs)
		},
	}
}

func setupLogger(opts *options) (func(), error) {
	loggerOpts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if opts.verbose {
		loggerOpts.Level = slog.LevelDebug
	}

	// The returned func puts logging back on stderr, so errors reported
	// after the run are visible whatever the backend was.
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
		}
	)
	switch {
	case opts.logFile != "":
		f, err := os.Create(opts.logFile)
		if err != nil {
			return nil, fmt.Errorf("unable to create log file %q: %w", opts.logFile, err)
		}
		w = f
		restore := closeFn
		closeFn = func() {
			restore()
			_ = f.Close()
		}

	case opts.backend == backendTerminal:
		// The terminal backend owns the screen.
		w = io.Discard
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, loggerOpts)))
	return closeFn, nil
}

func loadROM(path string) ([]byte, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load file %q: %w", path, err)
	}
	return bs, nil
}

func run(ctx context.Context, path string, opts *options, vmOpts ...vm.Option) error {
	bs, err := loadROM(path)
	if err != nil {
		return err
	}

	cfg := chip8.Config{
		CycleRate: opts.cycleRate,
		TickRate:  opts.tickRate,
	}

	t, err := newTone(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := t.Close(); err != nil {
			slog.Error("failed to close tone", "err", err)
		}
	}()

	machine, err := chip8.New(bs, cfg, t, vmOpts...)
	if err != nil {
		return fmt.Errorf("unable to create machine: %w", err)
	}

	h, shutdown, err := newHost(opts, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("unable to initialize %s backend: %w", opts.backend, err)
	}
	defer shutdown()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		err = machine.Run(ctx, h)

		if errors.Is(err, chip8.ErrQuit) || errors.Is(err, context.Canceled) {
			return nil
		}

		if errors.Is(err, chip8.ErrReboot) {
			slog.Info("reboot")
			machine.Reset()
			continue
		}

		return err
	}
}
