package main

import (
	"io"
	"log/slog"
	"os"

	"lrucache/internal/config"
	"lrucache/internal/logging"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stderr))
}

// execute runs the root command and returns the process exit code. Command
// errors are logged to stderr.
func execute(args []string, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		logger := logging.NewWithWriter(stderr, config.DefaultLogLevel, config.DefaultLogFormat)
		logger.Error("command failed", slog.String("error", err.Error()))
		return 1
	}
	return 0
}
