package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kapitanov/schip8/internal/hal"
	"github.com/kapitanov/schip8/internal/tone"
	"github.com/kapitanov/schip8/internal/vm"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run emulator",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	verbose := cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		loggerOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if *verbose {
			loggerOpts.Level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))
	}

	flags := cmd.Flags()
	mode := flags.StringP("mode", "m", vm.ModeChip8.String(), "interpreter quirks: chip8, chip48 or schip")
	quirkShift := flags.Bool("quirk-shift", false, "8XY6/8XYE shift VY into VX")
	quirkLoadStore := flags.Bool("quirk-load-store", false, "FX55/FX65 increment I")
	quirkJump := flags.Bool("quirk-jump", false, "BXNN jumps to XNN+VX")
	quirkVFReset := flags.Bool("quirk-vf-reset", false, "8XY1/8XY2/8XY3 clear VF")
	cpuHz := flags.Int("cpu-hz", vm.CPUHz, "instructions per second")
	timerHz := flags.Int("timer-hz", vm.TimerHz, "timer and display refresh rate")
	memorySize := flags.Int("memory", vm.MemorySize, "memory size in bytes")
	stackSize := flags.Int("stack", vm.StackSize, "call stack depth")
	seed := flags.Uint64("seed", 0, "random seed (0 picks one)")
	mute := flags.Bool("mute", false, "disable sound")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		m, err := vm.ParseMode(*mode)
		if err != nil {
			return err
		}

		cfg := vm.DefaultConfig()
		cfg.Quirks = vm.QuirksFor(m)
		if c.Flags().Changed("quirk-shift") {
			cfg.Quirks.ShiftUsesVY = *quirkShift
		}
		if c.Flags().Changed("quirk-load-store") {
			cfg.Quirks.LoadStoreIncrementsI = *quirkLoadStore
		}
		if c.Flags().Changed("quirk-jump") {
			cfg.Quirks.JumpUsesVX = *quirkJump
		}
		if c.Flags().Changed("quirk-vf-reset") {
			cfg.Quirks.LogicResetsVF = *quirkVFReset
		}
		cfg.CPUHz = *cpuHz
		cfg.TimerHz = *timerHz
		cfg.MemorySize = *memorySize
		cfg.StackSize = *stackSize
		cfg.Seed = *seed
		if err := cfg.Validate(); err != nil {
			return err
		}

		return run(args[0], cfg, *mute)
	}

	cmd.AddCommand(newDisasmCommand())

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func run(path string, cfg vm.Config, mute bool) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to load file %q: %w", path, err)
	}

	var buzzer vm.ToneGenerator
	if !mute {
		g, err := tone.New(tone.SampleRate, tone.Frequency)
		if err != nil {
			slog.Error("sound disabled", "err", err)
		} else {
			defer func() {
				if err := g.Close(); err != nil {
					slog.Error("failed to close audio player", "err", err)
				}
			}()
			buzzer = g
		}
	}

	frameDelay := time.Second / time.Duration(max(cfg.TimerHz, 1))
	h, err := hal.New(frameDelay)
	if err != nil {
		return fmt.Errorf("unable to initialize hal: %w", err)
	}
	defer h.Shutdown()

	machine := vm.New(cfg, buzzer)
	if err := machine.Load(bs); err != nil {
		return fmt.Errorf("unable to load program %q: %w", path, err)
	}
	slog.Info("start", "mode", cfg.Quirks.Mode, "cpu_hz", cfg.CPUHz, "timer_hz", cfg.TimerHz)

	for {
		err = machine.Run(h)

		if errors.Is(err, hal.ErrQuit) {
			return nil
		}

		if errors.Is(err, hal.ErrReboot) {
			slog.Info("reboot")
			continue
		}

		return err
	}
}

func newDisasmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disasm PATH_TO_ROM_FILE",
		Short: "Print the instructions of a ROM",
		Args:  cobra.ExactArgs(1),
	}

	origin := cmd.Flags().Uint16("origin", vm.ProgramStart, "load address of the first byte")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		bs, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", args[0], err)
		}
		return vm.WriteDisassembly(c.OutOrStdout(), bs, *origin)
	}

	return cmd
}
