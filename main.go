package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"envm/cmd"
	"envm/internal/console"
	"envm/internal/constants"
	"envm/internal/logger"
	"envm/internal/version"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	var logFile io.Writer
	if path := os.Getenv(constants.LogFileEnvVar); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			defer f.Close()
			logFile = f
		}
	}
	slog.SetDefault(logger.NewLogger(os.Stderr, logFile))
	ctx := context.Background()

	// Recover from logger.FatalError so deferred cleanup runs
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(logger.FatalError); ok {
				// This panic was intentional from logger.Fatal/FatalNoTrace
				exitCode = 1
			} else {
				panic(r)
			}
		}
		if exitCode != 0 {
			fmt.Fprintln(os.Stderr, console.Parse(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} did not finish running successfully.", version.ApplicationName)))
		}
	}()
	defer logger.Recover(ctx)

	group, err := cmd.Parse(os.Args[1:])
	if err != nil {
		logger.Error(ctx, err.Error())
		return 1
	}

	return cmd.Execute(ctx, group)
}
