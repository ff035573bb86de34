package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/rules"
)

// Config holds all speclint configuration.
type Config struct {
	WarningThreshold int          `yaml:"warning_threshold"`
	IncludeStructure bool         `yaml:"include_structure"`
	DisabledRules    []string     `yaml:"disabled_rules"`
	CustomRules      []CustomRule `yaml:"custom_rules"`
	Server           Server       `yaml:"server"`
	LogFile          string       `yaml:"log_file"`
	Claude           Claude       `yaml:"claude"`
}

// CustomRule is a user-defined rule expressed as substring lists. It
// compiles into a phrase-match table rule appended after the built-ins.
type CustomRule struct {
	Code       string   `yaml:"code"`
	Category   string   `yaml:"category"`
	Severity   string   `yaml:"severity"`
	Any        []string `yaml:"any"`    // match when any substring is present
	Unless     []string `yaml:"unless"` // suppress when any substring is present
	Message    string   `yaml:"message"`
	Suggestion string   `yaml:"suggestion"`
}

// Server holds the analysis server settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Claude holds model settings for the handoff and review paths.
type Claude struct {
	Model     string `yaml:"model"`     // agent model alias for handoff
	APIModel  string `yaml:"api_model"` // API model id for analyze-with-claude
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		WarningThreshold: risk.DefaultWarningThreshold,
		Server: Server{
			Addr: ":8000",
		},
		Claude: Claude{
			Model:     "sonnet",
			APIModel:  "claude-3-5-haiku-latest",
			MaxTokens: 2000,
		},
	}
}

// Load reads configuration from path, falling back to speclint.yaml in the
// working directory when path is empty. A missing implicit file yields
// DefaultConfig; a missing explicit path is an error. File values merge over
// the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = "speclint.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := cfg.Table(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Table compiles the effective rule table: the built-ins minus
// disabled_rules, then the custom rules appended in file order. Unknown
// disabled codes and code collisions in the result are errors.
func (c *Config) Table() (rules.Table, error) {
	builtin := rules.DefaultTable()

	known := make(map[string]bool, len(builtin))
	for _, code := range builtin.Codes() {
		known[code] = true
	}
	for _, code := range c.DisabledRules {
		if !known[code] {
			return nil, fmt.Errorf("disabled_rules: unknown rule code %s", code)
		}
	}

	table := builtin.Without(c.DisabledRules...)
	for i, cr := range c.CustomRules {
		rule, err := cr.compile()
		if err != nil {
			return nil, fmt.Errorf("custom_rules[%d]: %w", i, err)
		}
		table = append(table, rule)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// compile turns the YAML shape into a table rule. Phrases are lowercased so
// they match the normalized document regardless of how they were written.
func (r CustomRule) compile() (rules.Rule, error) {
	code := strings.TrimSpace(r.Code)
	if code == "" {
		return rules.Rule{}, fmt.Errorf("custom rule has no code")
	}
	cat, err := rules.ParseCategory(r.Category)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("rule %s: %w", code, err)
	}
	sev, err := rules.ParseSeverity(r.Severity)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("rule %s: %w", code, err)
	}
	if len(r.Any) == 0 {
		return rules.Rule{}, fmt.Errorf("rule %s: needs at least one phrase under any", code)
	}
	if strings.TrimSpace(r.Message) == "" {
		return rules.Rule{}, fmt.Errorf("rule %s: needs a message", code)
	}

	rule := rules.Rule{
		Code:       code,
		Category:   cat,
		Severity:   sev,
		Message:    r.Message,
		Suggestion: r.Suggestion,
		Match:      rules.PhraseAny(normalizePhrases(r.Any)...),
	}
	if len(r.Unless) > 0 {
		rule.Unless = rules.PhraseAny(normalizePhrases(r.Unless)...)
	}
	return rule, nil
}

func normalizePhrases(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return out
}
