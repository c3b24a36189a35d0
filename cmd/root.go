package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/homestead/internal/config"
	"github.com/zjrosen/homestead/internal/eval"
	"github.com/zjrosen/homestead/internal/flags"
	"github.com/zjrosen/homestead/internal/log"
	"github.com/zjrosen/homestead/internal/paths"
	"github.com/zjrosen/homestead/internal/tracing"
)

var (
	buildVersion = "dev"
	cfgFile      string
	debug        bool
	cfg          config.Config
	flagRegistry *flags.Registry
)

var rootCmd = &cobra.Command{
	Use:   "homestead",
	Short: "A declarative manager for user services",
	Long: `Homestead evaluates a declarative manifest of user services into an
execution plan. Manifests pin a compat_version; evaluation refuses to proceed
while breaking changes newer than the pin apply to the deployment, and lists
the manual migration steps instead.`,
	Version:      buildVersion,
	RunE:         runEvaluate,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"manifest file (default: .homestead/config.yaml, then ~/.config/homestead/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to the state directory")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		// Accepts a manifest file or a project directory, and follows
		// redirect files so checkouts can share one manifest.
		viper.SetConfigFile(paths.ResolveManifestPath(cfgFile))
	} else {
		// Manifest lookup order:
		// 1. .homestead/config.yaml (current directory)
		// 2. ~/.config/homestead/config.yaml (user config)
		if _, err := os.Stat(".homestead/config.yaml"); err == nil {
			viper.SetConfigFile(".homestead/config.yaml")
		} else {
			viper.AddConfigPath(paths.ConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No manifest found anywhere - create default at .homestead/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(".homestead", "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no manifest)
		}
	}

	_ = viper.Unmarshal(&cfg)
	flagRegistry = flags.New(cfg.Flags)

	if debug || os.Getenv("HOMESTEAD_DEBUG") != "" {
		initDebugLog()
	}
}

func initDebugLog() {
	dir := paths.StateDir()
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return
	}
	if _, err := log.Init(filepath.Join(dir, "homestead.log")); err != nil {
		return
	}
	if flagRegistry.Enabled(flags.FlagTraceConditions) {
		log.SetMinLevel(log.LevelDebug)
	} else {
		log.SetMinLevel(log.LevelInfo)
	}
}

// manifestPath returns the manifest file in use for this invocation.
func manifestPath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return filepath.Join(".homestead", "config.yaml")
}

func newTraceProvider(tc config.TracingConfig) (*tracing.Provider, error) {
	filePath := tc.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	return tracing.NewProvider(tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
		ServiceName:  "homestead",
	})
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	provider, err := newTraceProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(cmd.Context()) }()

	snap := config.CurrentSnapshot(cfg)
	evaluator := eval.New(flagRegistry, provider.Tracer())

	plan, err := evaluator.Evaluate(cmd.Context(), cfg, snap)
	var incompatible *eval.IncompatibleError
	if errors.As(err, &incompatible) {
		fmt.Fprintln(os.Stderr, renderNotice(incompatible.Result))
		return errors.New("evaluation halted; see migration notes above")
	}
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d service(s) planned\n", plan.RunID, len(plan.Actions))
	for _, a := range plan.Actions {
		fmt.Printf("  %-12s %s\n", a.Service, a.DataDir)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	buildVersion = v
	rootCmd.Version = v
}
