package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nlc/compile"
	"github.com/gnoswap-labs/nlc/internal"
	"github.com/gnoswap-labs/nlc/internal/config"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

// errFailed makes the process exit with status 1 after the command has
// already reported why.
var errFailed = errors.New("one or more instructions failed")

var rootCmd = &cobra.Command{
	Use:              "nlc [instruction words...]",
	Short:            "nlc - compile plain English instructions into Python",
	TraverseChildren: true, // Prioritize subcommands
	Args:             cobra.ArbitraryArgs,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: nlc [words...] => behaves like the compile subcommand
		return compileCmd.RunE(compileCmd, args)
	},
}

// Execute runs the command line and reports whether it failed.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "error:", err)
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (default: "+config.FileName+" in the working or home directory)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Give up after this long")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every pipeline stage")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(idiomsCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(checkCmd)
}

func newEngine() (*internal.Engine, *config.Config, error) {
	engine, cfg, err := compile.New(cfgFile, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize compiler: %w", err)
	}
	return engine, cfg, nil
}
