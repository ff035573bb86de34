package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/pthm/speclint/internal/cmd"
)

func main() {
	if err := fang.Execute(context.Background(), cmd.RootCmd); err != nil {
		os.Exit(1)
	}

	// Risk verdicts exit 1 (Medium) or 2 (High) per the historical contract.
	os.Exit(cmd.ExitCode())
}
