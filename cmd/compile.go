package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nlc/compile"
	"github.com/gnoswap-labs/nlc/formatter"
)

var (
	inputFile  string
	inputDir   string
	outPath    string
	jsonOutput bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [instruction words...]",
	Short: "Compile instructions into Python",
	Long: `Compiles one instruction given as arguments, every line of a file (-f)
or every instruction file under a directory (-d).
Example) nlc compile Write a function to check if a number is prime`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && inputFile == "" && inputDir == "" {
			return fmt.Errorf("provide an instruction, a file (-f) or a directory (-d)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, cfg, err := newEngine()
		if err != nil {
			return err
		}

		var outcomes []compile.Outcome
		switch {
		case inputDir != "":
			var progress io.Writer
			if !jsonOutput {
				progress = cmd.ErrOrStderr()
			}
			outcomes, err = compile.ProcessPath(ctx, logger, engine, inputDir, compile.PathOptions{
				Workers:    cfg.Workers,
				Extensions: cfg.Extensions,
				Progress:   progress,
			})
		case inputFile != "":
			outcomes, err = compile.ProcessFile(ctx, logger, engine, inputFile, cfg.Workers)
		default:
			instructions := compile.FromArgs(strings.Join(args, " "))
			outcomes, err = compile.ProcessInstructions(ctx, logger, engine, instructions, 1)
		}
		if err != nil {
			logger.Error("Error compiling instructions", zap.Error(err))
			return err
		}

		if err := writeOutcomes(cmd, outcomes); err != nil {
			return err
		}
		if compile.Failed(outcomes) > 0 {
			return errFailed
		}
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&inputFile, "file", "f", "", "File with one instruction per line")
	compileCmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory of instruction files")
	compileCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write generated code to this file")
	compileCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
}

type jsonOutcome struct {
	compile.Instruction
	Result *jsonResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type jsonResult struct {
	Code     string   `json:"code"`
	Intent   string   `json:"intent"`
	Rule     string   `json:"rule"`
	Idiom    string   `json:"idiom,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// writeOutcomes prints diagnostics to stderr and code (or JSON) to the
// output file or stdout.
func writeOutcomes(cmd *cobra.Command, outcomes []compile.Outcome) error {
	var out strings.Builder
	if jsonOutput {
		d, err := json.MarshalIndent(toJSON(outcomes), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		out.Write(d)
		out.WriteByte('\n')
	} else {
		stderr := cmd.ErrOrStderr()
		written := 0
		for _, o := range outcomes {
			in := formatter.Instruction{Source: o.Source, Line: o.Line, Text: o.Text}
			if o.Err != nil {
				fmt.Fprint(stderr, formatter.GenerateFormattedError(in, o.Err))
				continue
			}
			fmt.Fprint(stderr, formatter.GenerateFormattedWarnings(in, o.Result.Warnings))

			if len(outcomes) > 1 {
				if written > 0 {
					out.WriteString("\n\n")
				}
				fmt.Fprintf(&out, "# %s:%d: %s\n", o.Source, o.Line, o.Text)
			}
			out.WriteString(o.Result.Code)
			written++
		}
	}

	if outPath == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), out.String())
		return err
	}
	if err := os.WriteFile(outPath, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func toJSON(outcomes []compile.Outcome) []jsonOutcome {
	out := make([]jsonOutcome, len(outcomes))
	for i, o := range outcomes {
		out[i] = jsonOutcome{Instruction: o.Instruction}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
			continue
		}
		res := &jsonResult{
			Code:   o.Result.Code,
			Intent: o.Result.Intent.String(),
			Rule:   o.Result.RuleID,
			Idiom:  o.Result.Idiom,
		}
		for _, w := range o.Result.Warnings {
			res.Warnings = append(res.Warnings, w.String())
		}
		out[i].Result = res
	}
	return out
}
