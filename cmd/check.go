package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nlc/internal/syntax"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check that Python files parse",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		v := syntax.New()
		failed := false
		for _, path := range args {
			src, err := os.ReadFile(path)
			if err != nil {
				logger.Error("Error reading file", zap.String("file", path), zap.Error(err))
				failed = true
				continue
			}
			problems, err := v.Check(ctx, src)
			if err != nil {
				return fmt.Errorf("check %s: %w", path, err)
			}
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", path, p)
			}
			if len(problems) > 0 {
				failed = true
			}
		}
		if failed {
			return errFailed
		}
		return nil
	},
}
