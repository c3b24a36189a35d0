package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/flags"
	"github.com/zjrosen/homestead/internal/log"
	"github.com/zjrosen/homestead/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check the manifest whenever it changes",
	Long: `Watch monitors the manifest file and re-runs the compatibility check
every time it changes. Handy while working through a migration notice: edit
the manifest, save, and see whether the gate clears.

Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := manifestPath()
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("manifest %s: %w", path, err)
	}

	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	changed, err := w.Start()
	if err != nil {
		return err
	}

	fmt.Printf("watching %s\n", path)
	if _, err := runGate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nstopping")
			return nil

		case <-changed:
			fmt.Printf("\nmanifest changed, re-checking\n")
			if err := reloadConfig(); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			if _, err := runGate(); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
		}
	}
}

// reloadConfig re-reads the manifest into the package-level config state.
func reloadConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("re-reading manifest: %w", err)
	}
	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	flagRegistry = flags.New(cfg.Flags)
	log.Debug(log.CatWatcher, "manifest reloaded", "compat_version", cfg.CompatVersion)
	return nil
}
