package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/watch"
)

var (
	analyzeStructure bool
	analyzeThreshold int
	analyzeWatch     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a prompt for risky or under-specified instructions",
	Long: `Analyze a prompt against the rule table and report findings, the
risk verdict, and optionally the extracted spec structure.

Reads from stdin when no file is given or when the file is "-".

Examples:
  speclint analyze prompt.md
  speclint analyze --structure prompt.md
  speclint analyze --format json prompt.md > result.json
  speclint analyze --watch prompt.md
  echo "add a login form" | speclint analyze`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runAnalyze,
	SilenceUsage: true,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeStructure, "structure", false, "Extract spec structure and quality score")
	analyzeCmd.Flags().IntVar(&analyzeThreshold, "threshold", 0, "Warning count that escalates risk to Medium (0 uses config)")
	analyzeCmd.Flags().BoolVar(&analyzeWatch, "watch", false, "Re-run analysis whenever the file changes")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	analyzer, err := newAnalyzer(analyzeThreshold)
	if err != nil {
		return err
	}

	includeStructure := cfg.IncludeStructure
	if cmd.Flags().Changed("structure") {
		includeStructure = analyzeStructure
	}
	opts := analysis.Options{IncludeStructure: includeStructure}

	if analyzeWatch {
		return watchAnalyze(cmd.Context(), args, analyzer, opts)
	}

	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(prompt, opts)
	if err != nil {
		return err
	}

	if err := newReporter(GetUI()).Report(res); err != nil {
		return err
	}
	setExitCode(res.RiskLevel.ExitCode())
	return nil
}

// watchAnalyze re-runs the analysis on every change to the prompt file
// until interrupted. The recorded exit code tracks the most recent run.
func watchAnalyze(ctx context.Context, args []string, analyzer *analysis.Analyzer, opts analysis.Options) error {
	if len(args) == 0 || args[0] == "-" {
		return errors.New("--watch needs a file to watch")
	}

	u := GetUI()
	rep := newReporter(u)

	runOnce := func(path string) {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(u.ErrWriter, u.Styles.Warning.Render(
				fmt.Sprintf("%s %v", u.Styles.IconWarning, err),
			))
			return
		}
		res, err := analyzer.Analyze(string(data), opts)
		if err != nil {
			fmt.Fprintln(u.ErrWriter, u.Styles.Warning.Render(
				fmt.Sprintf("%s %v", u.Styles.IconWarning, err),
			))
			return
		}
		if err := rep.Report(res); err != nil {
			fmt.Fprintln(u.ErrWriter, err)
			return
		}
		setExitCode(res.RiskLevel.ExitCode())
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	runOnce(path)

	w, err := watch.New(path, 0, func() {
		fmt.Fprintf(u.ErrWriter, "\n%s\n\n", u.Styles.Dim.Render(
			fmt.Sprintf("%s changed, re-analyzing", filepath.Base(path)),
		))
		runOnce(path)
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(u.ErrWriter, "\n%s\n", u.Styles.Dim.Render(
		fmt.Sprintf("watching %s, ctrl-c to stop", filepath.Base(path)),
	))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
