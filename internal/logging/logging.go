package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init configures the default slog logger.
// verbose=true sets LevelDebug, otherwise LevelWarn (silent unless problems).
// output defaults to os.Stderr if nil.
func Init(verbose bool, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// FileWriter returns a size-rotated log sink for long-running serve mode.
// The caller owns closing it.
func FileWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}
