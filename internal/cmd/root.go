package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/config"
	"github.com/pthm/speclint/internal/logging"
	"github.com/pthm/speclint/internal/reporter"
	"github.com/pthm/speclint/internal/ui"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	format  string
	noColor bool

	cfg config.Config
	u   *ui.UI

	exitCode int
)

var RootCmd = &cobra.Command{
	Use:   "speclint",
	Short: "A linter for AI coding prompts",
	Long: `speclint analyzes developer prompts before they are handed to an AI
coding assistant.

It flags security problems like credential logging, weak password hashing,
and missing authentication, calls out vague or contradictory requirements,
classifies the overall risk, and can build a curated prompt with explicit
security constraints appended.`,
	PersistentPreRunE: setup,
}

func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to a speclint.yaml config file")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func setup(cmd *cobra.Command, args []string) error {
	logging.Init(verbose, nil)

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}

	u = ui.New(os.Stdout, os.Stderr, format, noColor)
	return nil
}

// GetUI returns the UI for the current invocation. Commands invoked outside
// Execute (tests calling run functions directly) get a lazily built one.
func GetUI() *ui.UI {
	if u == nil {
		u = ui.New(os.Stdout, os.Stderr, format, noColor)
	}
	return u
}

// ExitCode returns the risk-derived exit code recorded by the last command.
// main applies it after Execute returns so a Medium or High verdict exits
// 1 or 2 without printing a redundant error after the report.
func ExitCode() int {
	return exitCode
}

func setExitCode(code int) {
	exitCode = code
}

// readPrompt loads the prompt from the file argument, or stdin when the
// argument is missing or "-".
func readPrompt(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return string(data), nil
}

// newAnalyzer builds an analyzer from the loaded config. A positive
// threshold overrides the configured one.
func newAnalyzer(threshold int) (*analysis.Analyzer, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = cfg.WarningThreshold
	}
	return analysis.New(
		analysis.WithTable(table),
		analysis.WithWarningThreshold(threshold),
	), nil
}

// newReporter picks the reporter for the active output format.
func newReporter(u *ui.UI) reporter.Reporter {
	if u.IsJSON() {
		return reporter.NewJSONReporter(os.Stdout)
	}
	return reporter.NewTerminalReporter(os.Stdout, u)
}
