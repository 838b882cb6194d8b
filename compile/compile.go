package compile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoswap-labs/nlc/internal"
	"github.com/gnoswap-labs/nlc/internal/config"
	"github.com/gnoswap-labs/nlc/scanner"
)

// ArgsSource is the source name of instructions given on the command line.
const ArgsSource = "<args>"

// CompileEngine compiles one instruction. *internal.Engine implements it;
// tests substitute a mock.
type CompileEngine interface {
	CompileContext(ctx context.Context, text string) (internal.Result, error)
}

// Instruction is one line of natural language input.
type Instruction struct {
	Source string `json:"source"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
}

// Outcome pairs an instruction with its compiled result or failure.
type Outcome struct {
	Instruction
	Result internal.Result `json:"result"`
	Err    error           `json:"-"`
}

// New loads the configuration at configurationPath (or the default search
// path when empty) and builds an engine from it.
func New(configurationPath string, logger *zap.Logger) (*internal.Engine, *config.Config, error) {
	cfg, err := config.Load(configurationPath)
	if err != nil {
		return nil, nil, err
	}

	engine, err := internal.NewEngineFromConfig(cfg, internal.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

// FromArgs turns command line texts into instructions.
func FromArgs(texts ...string) []Instruction {
	out := make([]Instruction, 0, len(texts))
	for i, text := range texts {
		out = append(out, Instruction{Source: ArgsSource, Line: i + 1, Text: text})
	}
	return out
}

// Parse reads one instruction per line. Blank lines and lines starting
// with '#' are skipped.
func Parse(source string, r io.Reader) ([]Instruction, error) {
	var out []Instruction
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		out = append(out, Instruction{Source: source, Line: line, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return out, nil
}

// ProcessInstructions compiles instructions with at most workers running
// at once. Outcomes keep the input order. A failed compile is kept in its
// Outcome; only cancellation stops the batch.
func ProcessInstructions(
	ctx context.Context,
	logger *zap.Logger,
	engine CompileEngine,
	instructions []Instruction,
	workers int,
) ([]Outcome, error) {
	if workers < 1 {
		workers = 1
	}
	outcomes := make([]Outcome, len(instructions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range instructions {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := engine.CompileContext(gctx, in.Text)
			if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return err
			}
			if err != nil && logger != nil {
				logger.Error("Error compiling instruction",
					zap.String("source", in.Source),
					zap.Int("line", in.Line),
					zap.Error(err),
				)
			}
			outcomes[i] = Outcome{Instruction: in, Result: res, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// ProcessFile compiles every instruction in the file at path.
func ProcessFile(
	ctx context.Context,
	logger *zap.Logger,
	engine CompileEngine,
	path string,
	workers int,
) ([]Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	instructions, err := Parse(path, f)
	if err != nil {
		return nil, err
	}
	return ProcessInstructions(ctx, logger, engine, instructions, workers)
}

// PathOptions control ProcessPath.
type PathOptions struct {
	Workers    int
	Extensions []string
	// Progress receives the directory progress bar. Nil hides it.
	Progress io.Writer
}

// ProcessPath compiles a single instruction file, or every instruction
// file under a directory in path order.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine CompileEngine,
	path string,
	opts PathOptions,
) ([]Outcome, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return ProcessFile(ctx, logger, engine, path, opts.Workers)
	}

	files, err := scanner.New(path, opts.Extensions...).Scan()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	var outcomes []Outcome
	for _, file := range files {
		fileOutcomes, err := ProcessFile(ctx, logger, engine, file.Path, opts.Workers)
		outcomes = append(outcomes, fileOutcomes...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing file", zap.String("file", file.Path), zap.Error(err))
			}
			return outcomes, err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return outcomes, nil
}

// Failed counts the outcomes that did not compile.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
