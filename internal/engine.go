package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nlc/internal/config"
	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/lexicon"
	"github.com/gnoswap-labs/nlc/internal/matcher"
	"github.com/gnoswap-labs/nlc/internal/metrics"
	"github.com/gnoswap-labs/nlc/internal/render"
	"github.com/gnoswap-labs/nlc/internal/semantic"
	"github.com/gnoswap-labs/nlc/internal/syntax"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// Validator checks generated source before it is returned.
type Validator interface {
	Validate(ctx context.Context, src string) error
}

// Result is a successful compilation. Warnings are non-fatal and the code
// carries a placeholder comment for each of them.
type Result struct {
	Code     string                 `json:"code"`
	Intent   types.Intent           `json:"intent"`
	RuleID   string                 `json:"rule"`
	Idiom    string                 `json:"idiom,omitempty"`
	Warnings []types.CodeGenWarning `json:"warnings,omitempty"`
}

// Engine runs the compile pipeline. Every table it holds is built in
// NewEngine and only read afterwards, so one Engine serves any number of
// goroutines.
type Engine struct {
	lexicon   *lexicon.Lexicon
	tokenizer lexicon.Tokenizer
	rules     *matcher.Table
	extractor *extract.Extractor
	mapper    *semantic.Mapper
	renderer  *render.Renderer
	validator Validator
	logger    *zap.Logger
	metrics   *metrics.Compile
}

type settings struct {
	logger     *zap.Logger
	meter      metric.Meter
	lexicon    *lexicon.Lexicon
	tokenizer  lexicon.Tokenizer
	rules      []matcher.Rule
	idioms     *semantic.IdiomTable
	renderOpts render.Options
	validator  Validator
}

// Option customizes an Engine.
type Option func(*settings)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMeter records compile metrics on mt.
func WithMeter(mt metric.Meter) Option {
	return func(s *settings) { s.meter = mt }
}

// WithLexicon replaces the embedded lexicon.
func WithLexicon(lex *lexicon.Lexicon) Option {
	return func(s *settings) { s.lexicon = lex }
}

// WithTokenizer replaces the built-in tokenizer. Synonym classes still
// come from the lexicon.
func WithTokenizer(t lexicon.Tokenizer) Option {
	return func(s *settings) { s.tokenizer = t }
}

// WithRules replaces the embedded rule table.
func WithRules(rules []matcher.Rule) Option {
	return func(s *settings) { s.rules = rules }
}

// WithIdioms replaces the embedded idiom table.
func WithIdioms(idioms *semantic.IdiomTable) Option {
	return func(s *settings) { s.idioms = idioms }
}

// WithRenderOptions sets indentation, type hints and docstrings.
func WithRenderOptions(opts render.Options) Option {
	return func(s *settings) { s.renderOpts = opts }
}

// WithValidator checks every generated source with v. Failures are
// reported at the syntax stage.
func WithValidator(v Validator) Option {
	return func(s *settings) { s.validator = v }
}

// NewEngine builds the rule, synonym, idiom and template tables.
func NewEngine(opts ...Option) (*Engine, error) {
	s := settings{
		logger:     zap.NewNop(),
		renderOpts: render.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	var err error
	if s.lexicon == nil {
		if s.lexicon, err = lexicon.Default(); err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	}
	if s.tokenizer == nil {
		s.tokenizer = lexicon.NewTokenizer(s.lexicon)
	}
	if s.rules == nil {
		if s.rules, err = matcher.DefaultRules(); err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
	}
	if s.idioms == nil {
		if s.idioms, err = semantic.DefaultIdioms(); err != nil {
			return nil, fmt.Errorf("load idioms: %w", err)
		}
	}

	syn := s.lexicon.Synonyms()
	table, err := matcher.New(s.rules, syn)
	if err != nil {
		return nil, fmt.Errorf("build rule table: %w", err)
	}
	renderer, err := render.New(s.idioms.Templates(), s.renderOpts)
	if err != nil {
		return nil, fmt.Errorf("build templates: %w", err)
	}

	m := metrics.Noop()
	if s.meter != nil {
		if m, err = metrics.New(s.meter); err != nil {
			return nil, fmt.Errorf("create metrics: %w", err)
		}
	}

	return &Engine{
		lexicon:   s.lexicon,
		tokenizer: s.tokenizer,
		rules:     table,
		extractor: extract.New(table.Intents(), syn),
		mapper:    semantic.New(s.idioms, syn),
		renderer:  renderer,
		validator: s.validator,
		logger:    s.logger,
		metrics:   m,
	}, nil
}

// NewEngineFromConfig builds an engine from cfg. Table files named in cfg
// replace the embedded ones; opts are applied after cfg.
func NewEngineFromConfig(cfg *config.Config, opts ...Option) (*Engine, error) {
	var base []Option
	if cfg.LexiconFile != "" {
		lex, err := lexicon.Load(cfg.LexiconFile)
		if err != nil {
			return nil, fmt.Errorf("load lexicon %s: %w", cfg.LexiconFile, err)
		}
		base = append(base, WithLexicon(lex))
	}
	if cfg.RulesFile != "" {
		rules, err := matcher.Load(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules %s: %w", cfg.RulesFile, err)
		}
		base = append(base, WithRules(rules))
	}
	if cfg.IdiomsFile != "" {
		idioms, err := semantic.LoadIdioms(cfg.IdiomsFile)
		if err != nil {
			return nil, fmt.Errorf("load idioms %s: %w", cfg.IdiomsFile, err)
		}
		base = append(base, WithIdioms(idioms))
	}
	base = append(base, WithRenderOptions(render.Options{
		Indent:     cfg.Render.Indent,
		TypeHints:  cfg.Render.TypeHints,
		Docstrings: cfg.Render.Docstrings,
	}))
	if cfg.ValidateSyntax {
		base = append(base, WithValidator(syntax.New()))
	}
	return NewEngine(append(base, opts...)...)
}

// Rules returns the rule definitions in evaluation order.
func (e *Engine) Rules() []matcher.Rule {
	return e.rules.Rules()
}

// Idioms returns the idiom table.
func (e *Engine) Idioms() *semantic.IdiomTable {
	return e.mapper.Idioms()
}

// Tokenize runs only the tokenizer.
func (e *Engine) Tokenize(text string) ([]types.Token, error) {
	tokens, err := e.tokenizer.Tokenize(text)
	if err != nil {
		return nil, &types.CompilationError{Stage: types.StageTokenize, Detail: err.Error(), Err: err}
	}
	return tokens, nil
}

// CompileText tokenizes and compiles one instruction.
func (e *Engine) CompileText(text string) (Result, error) {
	return e.CompileContext(context.Background(), text)
}

// CompileContext is CompileText with a context for the syntax check, the
// only step that can take a noticeable time.
func (e *Engine) CompileContext(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tokens, err := e.Tokenize(text)
	if err != nil {
		e.record(ctx, start, Result{Intent: types.Unknown}, err)
		return Result{}, err
	}
	res, err := e.compile(tokens)
	if err == nil {
		err = e.validate(ctx, res.Code)
	}
	e.record(ctx, start, res, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Compile runs the pipeline over tokens from any tokenizer. Every failure
// is a *types.CompilationError naming its stage.
func (e *Engine) Compile(tokens []types.Token) (Result, error) {
	return e.CompileTokens(context.Background(), tokens)
}

// CompileTokens is Compile with a context for the syntax check.
func (e *Engine) CompileTokens(ctx context.Context, tokens []types.Token) (Result, error) {
	start := time.Now()
	res, err := e.compile(tokens)
	if err == nil {
		err = e.validate(ctx, res.Code)
	}
	e.record(ctx, start, res, err)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (e *Engine) compile(tokens []types.Token) (Result, error) {
	match, ok := e.rules.Match(tokens)
	if !ok {
		e.logger.Debug("no rule matched", zap.Int("tokens", len(tokens)))
		return Result{Intent: types.Unknown}, &types.CompilationError{
			Stage:  types.StageMatch,
			Detail: fmt.Sprintf("no grammar rule matches %q", joinText(tokens)),
			Err:    types.ErrNoMatch,
		}
	}
	e.logger.Debug("rule matched",
		zap.String("rule", match.RuleID),
		zap.Int("priority", match.Priority),
	)

	intent, slots := e.extractor.Extract(match, tokens)
	e.logger.Debug("slots extracted",
		zap.Stringer("intent", intent),
		zap.Stringer("slots", slots),
	)
	res := Result{Intent: intent, RuleID: match.RuleID}

	mapped, err := e.mapper.Map(intent, slots)
	if err != nil {
		cerr := &types.CompilationError{Stage: types.StageSemantic, Detail: err.Error(), Err: err}
		var se *types.SemanticError
		if errors.As(err, &se) {
			cerr.MissingSlot = se.MissingSlot
		}
		return res, cerr
	}
	res.Idiom = mapped.Idiom
	res.Warnings = mapped.Warnings
	if mapped.Idiom != "" {
		e.logger.Debug("idiom resolved", zap.String("idiom", mapped.Idiom))
	}
	for _, w := range mapped.Warnings {
		e.logger.Warn("placeholder body generated",
			zap.String("target", w.Target),
			zap.String("reason", w.Reason),
		)
	}

	code, err := e.renderer.Source(mapped.Node)
	if err != nil {
		return res, &types.CompilationError{Stage: types.StageRender, Detail: err.Error(), Err: err}
	}
	res.Code = code
	return res, nil
}

func (e *Engine) validate(ctx context.Context, code string) error {
	if e.validator == nil {
		return nil
	}
	if err := e.validator.Validate(ctx, code); err != nil {
		return &types.CompilationError{Stage: types.StageSyntax, Detail: err.Error(), Err: err}
	}
	return nil
}

func (e *Engine) record(ctx context.Context, start time.Time, res Result, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = "error"
		var cerr *types.CompilationError
		if errors.As(err, &cerr) {
			outcome = string(cerr.Stage)
		}
	}
	e.metrics.Record(ctx, metrics.Outcome{
		Intent:   res.Intent.String(),
		Outcome:  outcome,
		Idiom:    res.Idiom,
		Warnings: len(res.Warnings),
		Duration: time.Since(start),
	})
}

func joinText(tokens []types.Token) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Text
	}
	return strings.Join(words, " ")
}
