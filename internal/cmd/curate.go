package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/speclint/internal/analysis"
)

var curateOutput string

var curateCmd = &cobra.Command{
	Use:   "curate [file]",
	Short: "Build a curated prompt with security constraints appended",
	Long: `Analyze a prompt and print it back with the derived security
constraints and quality concerns appended, ready to hand to an assistant.

Examples:
  speclint curate prompt.md
  speclint curate prompt.md --output curated.md
  echo "add a login form" | speclint curate`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runCurate,
	SilenceUsage: true,
}

func init() {
	curateCmd.Flags().StringVarP(&curateOutput, "output", "o", "", "Write the curated prompt to a file instead of stdout")
	RootCmd.AddCommand(curateCmd)
}

func runCurate(cmd *cobra.Command, args []string) error {
	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(0)
	if err != nil {
		return err
	}

	res, err := analyzer.Analyze(prompt, analysis.Options{})
	if err != nil {
		return err
	}

	if curateOutput != "" {
		if err := os.WriteFile(curateOutput, []byte(res.CuratedPrompt+"\n"), 0o644); err != nil {
			return fmt.Errorf("write curated prompt: %w", err)
		}
		return nil
	}

	fmt.Println(res.CuratedPrompt)
	return nil
}
