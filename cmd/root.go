// Package cmd holds the oxy-starfield command line: the starfield scene, the
// demo login and the version report.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Carmen-Shannon/oxy-starfield/config"
	"github.com/Carmen-Shannon/oxy-starfield/observability"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	// logWriter receives the console log core; stderr when nil.
	logWriter zapcore.WriteSyncer
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oxy-starfield",
		Short:         "A rotating starfield with a demo login.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			observability.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(a.runCmd(), a.loginCmd(), newVersionCmd())
	return root
}

// initialize loads the configuration and starts the global logger.
func (a *app) initialize() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		a.initLogger(config.NewDefaultConfig().Logger)
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.initLogger(cfg.Logger)

	a.cfg = cfg
	a.logger = observability.GetLogger()
	a.logger.Debug("oxy-starfield starting", zap.String("version", Version))
	return nil
}

func (a *app) initLogger(cfg config.LoggerConfig) {
	if a.logWriter == nil {
		observability.InitializeLogger(cfg)
		return
	}
	observability.Initialize(cfg, a.logWriter)
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newApp().rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
