package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"choreflow/internal/config"
	"choreflow/internal/logging"
	"choreflow/internal/oracle"
	"choreflow/internal/store"
)

var (
	// Global flags
	verbose   bool
	configDir string
	dbPath    string
	modelID   string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "choreflow",
	Short: "choreflow - AI-assisted household chore distribution",
	Long: `choreflow keeps a household task catalog and asks an LLM backend to
spread the chores fairly across the members' calendars.

The period is split into chunks sized by catalog volume; each chunk is
generated, repaired, and persisted before the next one starts, so a
failure late in a long run never loses the earlier chunks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configDir == "" {
			configDir = config.DefaultConfigDir()
		}
		if err := logging.Initialize(configDir); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig reads the user config and applies command-line overrides.
func loadConfig() (*config.UserConfig, error) {
	cfg, err := config.LoadUserConfig(filepath.Join(configDir, "config.json"))
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if modelID != "" {
		cfg.Model = modelID
	}
	return cfg, nil
}

// openStore opens the SQLite store at the configured path.
func openStore(cfg *config.UserConfig) (*store.Store, error) {
	return store.New(cfg.ResolveDatabasePath(configDir))
}

// newGenerator builds the retrying oracle generator for the configured
// provider and model.
func newGenerator(cfg *config.UserConfig) (*oracle.Generator, oracle.ModelInfo, error) {
	client, info, err := oracle.NewClientFromConfig(cfg)
	if err != nil {
		return nil, oracle.ModelInfo{}, err
	}
	return oracle.NewGenerator(client), info, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM so a long
// redistribute can be interrupted between attempts.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.choreflow)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path override")
	rootCmd.PersistentFlags().StringVarP(&modelID, "model", "m", "", "model ID override (see 'choreflow models')")

	rootCmd.AddCommand(distributeCmd)
	rootCmd.AddCommand(redistributeCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(personsCmd)
	rootCmd.AddCommand(tasksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
