package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ecordell/optgen/helpers"
	"github.com/fatih/color"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kubev2v/vm-power-agent/internal/config"
	"github.com/kubev2v/vm-power-agent/internal/declaration"
	"github.com/kubev2v/vm-power-agent/internal/models"
	"github.com/kubev2v/vm-power-agent/internal/services"
	"github.com/kubev2v/vm-power-agent/internal/store"
	"github.com/kubev2v/vm-power-agent/internal/store/migrations"
	"github.com/kubev2v/vm-power-agent/internal/vsphere"
	"github.com/kubev2v/vm-power-agent/pkg/logger"
	"github.com/kubev2v/vm-power-agent/pkg/scheduler"
)

// DefaultDeclarationPath is the declaration file next to the executable.
func DefaultDeclarationPath() string {
	exe, err := os.Executable()
	if err != nil {
		return config.DefaultDeclarationFile
	}
	return filepath.Join(filepath.Dir(exe), config.DefaultDeclarationFile)
}

func NewReconcileCommand(cfg *config.Configuration) *cobra.Command {
	var log *zap.Logger

	reconcileCmd := &cobra.Command{
		Use:   "vm-power-agent",
		Short: "Reconcile the power state of vCenter virtual machines",
		Example: `  # Reconcile using vmManagerConfig.json next to the binary
  vm-power-agent

  # Reconcile a yaml declaration and keep a log file
  vm-power-agent --config /etc/vm-power-agent/vms.yaml --log-file /var/log/vm-power-agent.log

  # Hard power off instead of guest shutdown, give up on a task after 10 minutes
  vm-power-agent --shutdown-policy forced --task-timeout 10m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			var outputs []string
			if cfg.LogFile != "" {
				outputs = append(outputs, cfg.LogFile)
			}
			l, err := logger.Init(cfg.LogFormat, cfg.LogLevel, outputs...)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			log = l
			zap.ReplaceGlobals(log)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = log.Sync() }()

			err := reconcile(cfg, log.Sugar())
			if err != nil {
				log.Sugar().Errorw("reconciliation aborted", "error", err)
			}
			return err
		},
	}

	registerFlags(reconcileCmd, cfg)

	return reconcileCmd
}

func reconcile(cfg *config.Configuration, log *zap.SugaredLogger) error {
	log.Infow("using configuration",
		"config", helpers.Flatten(cfg.DebugMap()),
		"reconcile", helpers.Flatten(cfg.Reconcile.DebugMap()),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	decl, err := declaration.Load(cfg.DeclarationPath)
	if err != nil {
		return err
	}

	// validated by validateConfiguration
	policy, _ := models.ParseShutdownPolicy(cfg.Reconcile.ShutdownPolicy)

	poller := services.NewPoller(cfg.Reconcile.PollInterval, cfg.Reconcile.TaskTimeout, log)
	reconciler := services.NewReconciler(poller, policy, log)
	if cfg.Reconcile.Workers > 1 {
		sched := scheduler.NewScheduler(cfg.Reconcile.Workers)
		defer sched.Close()
		reconciler.WithScheduler(sched)
	}

	connect := func(ctx context.Context, creds models.Credentials) (services.Endpoint, error) {
		c, err := vsphere.Connect(ctx, creds, cfg.Reconcile.Insecure, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	runner := services.NewRunner(connect, reconciler, log)

	if cfg.DataFolder != "" {
		s, err := openStore(ctx, cfg.DataFolder)
		if err != nil {
			return err
		}
		defer s.Close()
		runner.WithJournal(store.NewJournal(s))
	}

	report, err := runner.Run(ctx, decl)
	if err != nil {
		return err
	}

	if failed := report.Failed(); failed > 0 {
		log.Warnw("some machines did not reach their desired state", "count", failed)
	}
	return nil
}

func openStore(ctx context.Context, dataFolder string) (*store.Store, error) {
	if err := os.MkdirAll(dataFolder, 0o750); err != nil {
		return nil, fmt.Errorf("creating data folder: %w", err)
	}
	db, err := store.NewDB(filepath.Join(dataFolder, "vm-power-agent.duckdb"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	zap.S().Debug("database initialized successfully")
	return store.NewStore(db), nil
}

func registerFlags(cmd *cobra.Command, config *config.Configuration) {
	nfs := cobrautil.NewNamedFlagSets(cmd)

	inputFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Inputs"))
	registerInputFlags(inputFlagSet, config)

	reconcileFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Reconcile"))
	registerReconcileFlags(reconcileFlagSet, config)

	loggingFlagSet := nfs.FlagSet(color.New(color.FgBlue, color.Bold).Sprint("Logging"))
	registerLoggingFlags(loggingFlagSet, config)

	nfs.AddFlagSets(cmd)
}

func validateConfiguration(cfg *config.Configuration) error {
	switch cfg.LogFormat {
	case "console":
	case "json":
	default:
		return fmt.Errorf("invalid log-format: %s", cfg.LogFormat)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %s", cfg.LogLevel)
	}

	if cfg.DeclarationPath == "" {
		return errors.New("config cannot be empty")
	}

	if _, err := models.ParseShutdownPolicy(cfg.Reconcile.ShutdownPolicy); err != nil {
		return err
	}

	if cfg.Reconcile.PollInterval <= 0 {
		return fmt.Errorf("invalid poll-interval %s: must be positive", cfg.Reconcile.PollInterval)
	}

	if cfg.Reconcile.TaskTimeout < 0 {
		return fmt.Errorf("invalid task-timeout %s: must be 0 or positive", cfg.Reconcile.TaskTimeout)
	}

	if cfg.Reconcile.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", cfg.Reconcile.Workers)
	}

	return nil
}

func registerInputFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.DeclarationPath, "config", config.DeclarationPath, "Path to the desired state declaration (json, yaml or toml)")
	flagSet.StringVar(&config.LogFile, "log-file", config.LogFile, "Path of a file the log is appended to, in addition to stdout")
	flagSet.StringVar(&config.DataFolder, "data-folder", config.DataFolder, "Path to the folder of the run journal database. Runs are not recorded if empty")
}

func registerReconcileFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.DurationVar(&config.Reconcile.PollInterval, "poll-interval", config.Reconcile.PollInterval, "Interval between two task status polls")
	flagSet.DurationVar(&config.Reconcile.TaskTimeout, "task-timeout", config.Reconcile.TaskTimeout, "Maximum time to wait for a power transition. 0 waits forever")
	flagSet.StringVar(&config.Reconcile.ShutdownPolicy, "shutdown-policy", config.Reconcile.ShutdownPolicy, "How to turn machines off: graceful (guest shutdown) or forced (power off)")
	flagSet.IntVar(&config.Reconcile.Workers, "workers", config.Reconcile.Workers, "Number of machines reconciled in parallel")
	flagSet.BoolVar(&config.Reconcile.Insecure, "vcenter-insecure", config.Reconcile.Insecure, "Skip verification of the vCenter certificate")
}

func registerLoggingFlags(flagSet *pflag.FlagSet, config *config.Configuration) {
	flagSet.StringVar(&config.LogFormat, "log-format", config.LogFormat, "format of the logs: console or json")
	flagSet.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
}
