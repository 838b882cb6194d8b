package matcher

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/nlc/internal/types"
	"github.com/gnoswap-labs/nlc/pattern"
)

//go:embed rules.yaml
var defaultRules []byte

var (
	ErrDuplicatePriority = errors.New("rules share a priority")
	ErrDuplicateRule     = errors.New("duplicate rule id")
	ErrNoRules           = errors.New("rule table is empty")
)

// Rule is one entry of the rule table as written in YAML.
type Rule struct {
	ID          string       `yaml:"id"`
	Intent      types.Intent `yaml:"intent"`
	Priority    int          `yaml:"priority"`
	Pattern     string       `yaml:"pattern"`
	Description string       `yaml:"description,omitempty"`
}

// RulesConfig is the top level of a rules file.
type RulesConfig struct {
	Rules []Rule `yaml:"rules"`
}

// Result is the outcome of a successful match.
type Result struct {
	RuleID   string
	Priority int
	Intent   types.Intent
	Start    int
	End      int
	Captures map[string]types.Span
}

type compiledRule struct {
	Rule
	pattern *pattern.Pattern
}

// Table is an immutable, priority ordered rule table.
type Table struct {
	rules []compiledRule
}

// Load reads rules from a YAML file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseRules(data)
}

// DefaultRules returns the built-in rule definitions.
func DefaultRules() ([]Rule, error) {
	return parseRules(defaultRules)
}

func parseRules(data []byte) ([]Rule, error) {
	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	return cfg.Rules, nil
}

// New compiles rules into a table. Rule ids and priorities must be unique;
// `$class` references are resolved through sets.
func New(rules []Rule, sets pattern.SetResolver) (*Table, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	ids := make(map[string]bool, len(rules))
	priorities := make(map[int]string, len(rules))
	compiled := make([]compiledRule, 0, len(rules))

	for _, r := range rules {
		if ids[r.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}
		ids[r.ID] = true

		if other, ok := priorities[r.Priority]; ok {
			return nil, fmt.Errorf("%w: %s and %s have priority %d", ErrDuplicatePriority, other, r.ID, r.Priority)
		}
		priorities[r.Priority] = r.ID

		p, err := pattern.Compile(r.Pattern, sets)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, pattern: p})
	}

	sort.Slice(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &Table{rules: compiled}, nil
}

// Match tries every rule from the highest priority down and returns the
// first that matches. The second result is false when nothing matches.
func (t *Table) Match(tokens []types.Token) (Result, bool) {
	for _, r := range t.rules {
		m, ok := r.pattern.Match(tokens)
		if !ok {
			continue
		}
		return Result{
			RuleID:   r.ID,
			Priority: r.Priority,
			Intent:   r.Intent,
			Start:    m.Start,
			End:      m.End,
			Captures: m.Captures,
		}, true
	}
	return Result{}, false
}

// Rules returns the rule definitions in evaluation order.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Rule
	}
	return out
}

// Intents returns the rule id to intent lookup.
func (t *Table) Intents() map[string]types.Intent {
	out := make(map[string]types.Intent, len(t.rules))
	for _, r := range t.rules {
		out[r.ID] = r.Intent
	}
	return out
}
