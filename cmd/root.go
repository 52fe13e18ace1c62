package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpebble/rustui/internal/app"
	"github.com/cpebble/rustui/internal/bus"
	"github.com/cpebble/rustui/internal/config"
	"github.com/cpebble/rustui/internal/log"
	"github.com/cpebble/rustui/internal/relay"
	"github.com/cpebble/rustui/internal/sim"
	"github.com/cpebble/rustui/internal/tracing"
	"github.com/cpebble/rustui/internal/tui"
	"github.com/cpebble/rustui/internal/worker"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rustui",
	Short: "A terminal dashboard for audio routing endpoints",
	Long: `A terminal dashboard over the system audio daemon. It watches routing
endpoints come and go, keeps a scrolling message pane, and tracks a
source counter driven from the keyboard.

All state flows through a single command bus: worker lifecycle events,
key presses, endpoint notices and warning-level diagnostics merge into
one stream consumed by the dashboard loop. A simulated daemon churns
endpoints so the pipeline runs without real audio hardware.`,
	Version: version,
	RunE:    runDashboard,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().Duration("tick", 100*time.Millisecond, "render tick interval")
	rootCmd.Flags().Int("messages", 8, "message lines shown in the dashboard pane")
	rootCmd.Flags().Int("sources", 1, "initial source counter value")
	rootCmd.Flags().Int("endpoints", 3, "endpoints the simulated daemon starts with")
	rootCmd.Flags().Duration("churn", 5*time.Second, "interval between simulated endpoint changes")
	rootCmd.Flags().Bool("debug", false, "enable debug logging to file")
	rootCmd.Flags().String("log-file", "rustui.log", "debug log destination")
	rootCmd.Flags().Bool("trace", false, "enable OpenTelemetry tracing")
	rootCmd.Flags().String("trace-exporter", "file", "trace exporter: file, stdout, otlp or none")
	rootCmd.Flags().String("trace-file", "traces.jsonl", "trace output path for the file exporter")
	rootCmd.Flags().String("otlp-endpoint", "localhost:4317", "OTLP gRPC collector endpoint")

	// Bind flags to viper
	_ = viper.BindPFlag("tick", rootCmd.Flags().Lookup("tick"))
	_ = viper.BindPFlag("message_window", rootCmd.Flags().Lookup("messages"))
	_ = viper.BindPFlag("initial_sources", rootCmd.Flags().Lookup("sources"))
	_ = viper.BindPFlag("daemon.endpoints", rootCmd.Flags().Lookup("endpoints"))
	_ = viper.BindPFlag("daemon.churn", rootCmd.Flags().Lookup("churn"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
	_ = viper.BindPFlag("tracing.enabled", rootCmd.Flags().Lookup("trace"))
	_ = viper.BindPFlag("tracing.exporter", rootCmd.Flags().Lookup("trace-exporter"))
	_ = viper.BindPFlag("tracing.file_path", rootCmd.Flags().Lookup("trace-file"))
	_ = viper.BindPFlag("tracing.otlp_endpoint", rootCmd.Flags().Lookup("otlp-endpoint"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("tick", defaults.Tick)
	viper.SetDefault("message_window", defaults.MessageWindow)
	viper.SetDefault("initial_sources", defaults.InitialSources)
	viper.SetDefault("daemon.endpoints", defaults.Daemon.Endpoints)
	viper.SetDefault("daemon.churn", defaults.Daemon.Churn)
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("RUSTUI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.Unmarshal(&cfg)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		cleanup, err := log.Init(cfg.LogFile, "rustui")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "dashboard starting", "debug", true, "logFile", cfg.LogFile)
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.ErrorErr(log.CatTrace, "flushing traces", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tracer := tp.Tracer()

	// The worker must be up before the terminal flips to the alternate
	// screen, so startup failures print as plain errors.
	_, spawnSpan := tracer.Start(ctx, "daemon.spawn")
	daemon := sim.New(sim.Config{
		Endpoints: cfg.Daemon.Endpoints,
		Churn:     cfg.Daemon.Churn,
	})
	w, err := worker.Spawn(daemon.Dial)
	if err != nil {
		spawnSpan.RecordError(err)
		spawnSpan.End()
		return fmt.Errorf("starting audio worker: %w", err)
	}
	spawnSpan.End()

	driver := tui.New()
	driver.Start()

	merged := bus.MergeAll(
		w.Mailbox(),
		relay.Keys(driver),
		daemon.Events(),
		relay.Logs(ctx, log.Subscribe(ctx)),
	)

	dashboard := app.New(app.Config{
		Tick:           cfg.Tick,
		MessageWindow:  cfg.MessageWindow,
		InitialSources: cfg.InitialSources,
	}, merged, w, driver)

	_, runSpan := tracer.Start(ctx, "app.run")
	runErr := dashboard.Run()
	if runErr != nil {
		runSpan.RecordError(runErr)
	}
	runSpan.End()

	// Restore the terminal before touching stdout, on every exit path.
	driver.Stop()

	for _, line := range dashboard.Messages() {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	if runErr != nil {
		return fmt.Errorf("dashboard terminated: %w", runErr)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
