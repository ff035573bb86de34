package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/handoff"
	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/ui"
)

var (
	handoffModel     string
	handoffForce     bool
	handoffStructure bool
)

var handoffCmd = &cobra.Command{
	Use:   "handoff [file]",
	Short: "Analyze a prompt and hand the curated version to Claude Code",
	Long: `Analyze a prompt, build the curated version with security constraints
appended, and stream it through the local Claude Code CLI.

High risk prompts are refused unless --force is given.

Examples:
  speclint handoff prompt.md
  speclint handoff --model opus prompt.md
  speclint handoff --force risky-prompt.md`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runHandoff,
	SilenceUsage: true,
}

func init() {
	handoffCmd.Flags().StringVarP(&handoffModel, "model", "m", "", "Claude Code model (default from config)")
	handoffCmd.Flags().BoolVar(&handoffForce, "force", false, "Hand off even when the prompt is High risk")
	handoffCmd.Flags().BoolVar(&handoffStructure, "structure", false, "Include spec structure in the refusal report")
	RootCmd.AddCommand(handoffCmd)
}

func runHandoff(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(0)
	if err != nil {
		return err
	}

	u := GetUI()
	progress := u.StartProgress()
	defer func() { progress.Done(nil) }()

	progress.SetStage(ui.StageAnalyze)
	res, err := analyzer.Analyze(prompt, analysis.Options{IncludeStructure: handoffStructure})
	if err != nil {
		progress.Done(err)
		progress = nil
		return err
	}

	if res.RiskLevel == risk.High && !handoffForce {
		progress.Done(nil)
		progress = nil

		if err := newReporter(u).Report(res); err != nil {
			return err
		}
		fmt.Fprintln(u.ErrWriter, u.Styles.Error.Render(
			"High risk prompt, handoff refused. Fix the blockers or re-run with --force.",
		))
		setExitCode(risk.High.ExitCode())
		return nil
	}

	progress.SetStage(ui.StageCurate)
	model := handoffModel
	if model == "" {
		model = cfg.Claude.Model
	}
	runner := handoff.NewRunner(model)

	progress.SetStage(ui.StageHandoff)

	var onText func(string)
	if u.IsInteractive() {
		onText = func(chunk string) {
			if line := preview(chunk); line != "" {
				progress.SetOperation(line)
			}
		}
	} else {
		onText = func(chunk string) {
			fmt.Fprint(os.Stdout, chunk)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := runner.Send(ctx, res.CuratedPrompt, onText)
	progress.Done(err)
	progress = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	if u.IsInteractive() {
		if out != "" {
			fmt.Fprintln(os.Stdout, strings.TrimRight(out, "\n"))
		}
	} else if out != "" && !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(os.Stdout)
	}

	setExitCode(res.RiskLevel.ExitCode())
	return nil
}

// preview compresses a streamed chunk to one short status line.
func preview(chunk string) string {
	line := strings.TrimSpace(chunk)
	if i := strings.LastIndexByte(line, '\n'); i >= 0 {
		line = line[i+1:]
	}
	line = strings.Join(strings.Fields(line), " ")

	const max = 60
	if r := []rune(line); len(r) > max {
		line = string(r[:max-3]) + "..."
	}
	return line
}
