// Command calc is the command-line front end for the sample calculator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"calcforge/internal/calculator"
	"calcforge/internal/config"
	"calcforge/internal/logging"
	"calcforge/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	calcName   string
	noPersist  bool

	cfg    *config.Config
	logger *zap.Logger

	// sessionID groups the calculations of one invocation in the history DB.
	sessionID = store.NewSessionID()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calc",
		Short: "Sample calculator for the CI/CD demo",
		Long: `calc performs basic and advanced arithmetic.

Results are printed to stdout; every calculation is appended to a local
history database unless --no-persist is given or calculator.persist is
false in the config file.

Negative operands must follow "--" so they are not read as flags:

  calc sub -- -3 4`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", configPath, err)
			}
			logger, err = logging.New(cfg.Logging, verbose)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync(logger)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&calcName, "name", "", "Calculator name (overrides config)")
	root.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "Do not record calculations in the history database")

	root.AddCommand(opCommands()...)
	root.AddCommand(newEvalCmd(), newDemoCmd(), newHistoryCmd(), newReplCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newCalculator() *calculator.Advanced {
	name := calcName
	if name == "" && cfg != nil {
		name = cfg.Calculator.Name
	}
	return calculator.NewAdvanced(name, calculator.WithLogger(logger))
}

func persistEnabled() bool {
	return !noPersist && cfg != nil && cfg.Calculator.Persist
}

// persist appends calc's history to the history database. Failures are
// logged; the calculation itself already succeeded.
func persist(ctx context.Context, calc *calculator.Advanced) {
	if !persistEnabled() {
		return
	}
	entries := calc.History()
	if len(entries) == 0 {
		return
	}

	hs, err := store.Open(ctx, cfg.Calculator.HistoryDB, logger)
	if err != nil {
		logger.Warn("history not saved", zap.Error(err))
		return
	}
	defer hs.Close()

	if err := hs.Append(ctx, sessionID, calc.Name(), entries...); err != nil {
		logger.Warn("history not saved", zap.Error(err))
	}
}
