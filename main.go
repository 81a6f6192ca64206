package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Miuzarte/FpsOverlay/capture"
	"github.com/Miuzarte/FpsOverlay/config"
	"github.com/Miuzarte/FpsOverlay/contextWaitGroup"
	"github.com/Miuzarte/FpsOverlay/fps"
	"github.com/Miuzarte/FpsOverlay/refresh"
	"github.com/Miuzarte/FpsOverlay/sysinfo"
	"github.com/Miuzarte/FpsOverlay/term"
)

const appName = "FpsOverlay"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	rootShort = "Always-on-top frame rate and 1% low overlay."
	rootLong  = `
		Show the current frame rate, the 1% low frame rate over the last 300 frames,
		and the processor and graphics adapter of this machine in a small overlay window.

		Frames are paced by one of three drivers:
		  display  the overlay's own vsync-paced redraws (default)
		  fixed    a timer at the nominal rate, for when no refresh signal is available
		  desktop  every frame composed by the desktop (windows only)

		Monitoring starts on a click in the overlay, on Space, or immediately with --autostart.
		Settings are read from a YAML file and reloaded when it changes.`
	rootExample = `
		# Start the overlay and begin measuring right away
		fpsoverlay --autostart

		# Measure what the desktop compositor presents on the second display
		fpsoverlay --driver desktop --display 1

		# Chart the readings in the terminal instead of a window
		fpsoverlay term --driver fixed --rate 144`
)

// OverlayFlags are shared by every command and override the config file.
type OverlayFlags struct {
	ConfigPath string
	Driver     string
	Rate       int
	Display    int
	AutoStart  bool
	LogLevel   string
}

func NewOverlayFlags() *OverlayFlags {
	return &OverlayFlags{Display: config.PrimaryDisplay}
}

func (flags *OverlayFlags) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", flags.ConfigPath,
		"Path to the YAML config file (default <user config dir>/FpsOverlay/config.yaml).")
	cmd.PersistentFlags().StringVar(&flags.Driver, "driver", flags.Driver,
		"Refresh driver: display, fixed or desktop.")
	cmd.PersistentFlags().IntVar(&flags.Rate, "rate", flags.Rate,
		"Nominal rate in Hz used by the fixed driver.")
	cmd.PersistentFlags().IntVar(&flags.Display, "display", flags.Display,
		"Display index used by the desktop driver, -1 for the largest one.")
	cmd.PersistentFlags().BoolVar(&flags.AutoStart, "autostart", flags.AutoStart,
		"Start monitoring without waiting for a click.")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel,
		"Log level: trace, debug, info, warn or error.")
}

// ToOptions loads the config file and applies the flags the user set.
func (flags *OverlayFlags) ToOptions(cmd *cobra.Command) (*OverlayOptions, error) {
	path := flags.ConfigPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	pin := flags.overrides(cmd.Flags().Changed)
	cfg = pin(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setLogLevel(cfg.Level())
	return &OverlayOptions{ConfigPath: path, Config: cfg, Pin: pin}, nil
}

// overrides returns a function applying the flags the user set on top of a
// config, so reloaded files do not undo the command line.
func (flags *OverlayFlags) overrides(changed func(name string) bool) func(config.Config) config.Config {
	f := *flags
	return func(cfg config.Config) config.Config {
		if changed("driver") {
			cfg.Driver = f.Driver
		}
		if changed("rate") {
			cfg.NominalRate = f.Rate
		}
		if changed("display") {
			cfg.Display = f.Display
		}
		if changed("autostart") {
			cfg.AutoStart = f.AutoStart
		}
		if changed("log-level") {
			cfg.LogLevel = f.LogLevel
		}
		return cfg
	}
}

type OverlayOptions struct {
	ConfigPath string
	Config     config.Config
	// Pin reapplies the command line to a reloaded config.
	Pin func(config.Config) config.Config
}

func newRootCmd() *cobra.Command {
	flags := NewOverlayFlags()
	cmd := &cobra.Command{
		Use:           "fpsoverlay",
		Short:         rootShort,
		Long:          rootLong,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd)
			if err != nil {
				log.Error().Err(err).Send()
				return err
			}
			err = o.RunOverlay()
			if err != nil {
				log.Error().Err(err).Send()
			}
			return err
		},
	}
	flags.AddFlags(cmd)

	cmd.AddCommand(
		newTermCmd(flags),
		newInfoCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

func newTermCmd(flags *OverlayFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "term",
		Short: "Chart the frame rate and 1% low in the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd)
			if err != nil {
				return err
			}
			return o.RunTerm()
		},
	}
}

func newInfoCmd(flags *OverlayFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the system identity shown by the overlay.",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := flags.ToOptions(cmd)
			if err != nil {
				return err
			}
			id := sysinfo.Collect(cmd.Context())
			for _, line := range id.Details() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config: "+o.ConfigPath)
			return nil
		},
	}
}

func newConfigCmd(flags *OverlayFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file.",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.ConfigPath
			if path == "" {
				var err error
				if path, err = config.Path(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", force, "Overwrite an existing file.")
	cmd.AddCommand(initCmd)
	return cmd
}

// newDriver returns the driver selected by cfg. The Manual driver is also
// returned when the overlay's frames must fire it.
func newDriver(cfg config.Config, id sysinfo.Identity) (refresh.Driver, *refresh.Manual) {
	switch cfg.Driver {
	case config.DriverDisplay:
		m := &refresh.Manual{}
		return m, m
	case config.DriverDesktop:
		display := cfg.Display
		if display == config.PrimaryDisplay {
			display = id.PrimaryDisplay()
		}
		return capture.Desktop{Display: display}, nil
	default:
		return refresh.Fixed{Rate: cfg.NominalRate}, nil
	}
}

func (o *OverlayOptions) RunTerm() error {
	cwg := contextWaitGroup.New(context.Background())
	defer cwg.Cancel()
	stop := cwg.WithSignal(syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	id := sysinfo.Collect(cwg.Ctx)

	cfg := o.Config
	if cfg.Driver == config.DriverDisplay {
		log.Warn().Msg("the terminal has no refresh signal, using the fixed driver")
		cfg.Driver = config.DriverFixed
	}
	driver, _ := newDriver(cfg, id)

	sink := term.NewSink()
	monitor := refresh.NewMonitor(fps.NewSampler(sink), driver)

	// termbox owns the terminal, keep stderr quiet
	setLogLevel(max(cfg.Level(), zerolog.ErrorLevel))

	title := fmt.Sprintf("%s | %s | %s", appName, id.CPU, id.GPU)
	monitor.Start(cwg.Ctx)
	cwg.GoCritical("term", func(ctx context.Context) error {
		return term.Run(ctx, sink, title)
	})
	cwg.Wait()
	monitor.Stop()

	return monitor.Err()
}
