package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

const programName = "defscript"
const version = "latest"

// Written by the `Before` hook of the app, read by the commands.
type appState struct {
	logger  *slog.Logger
	color   bool
	cleanup []func()
}

func fileValidator(ctx *cli.Context) error {
	if ctx.Args().Len() != 1 {
		return fmt.Errorf("Expected exactly one argument <file>")
	}
	return nil
}

func newApp(state *appState) *cli.App {
	// nolint:exhaustruct
	return &cli.App{
		Name:     programName,
		Version:  version,
		Usage:    "Evaluate definition scripts",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "The Smarthome Authors",
				Email: "",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "color",
				Usage:   "Colorize diagnostics: `auto`, always or never",
				Value:   "auto",
				EnvVars: []string{"DEFSCRIPT_COLOR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Minimum level of log messages: debug, info, warn or error",
				Value:   "warn",
				EnvVars: []string{"DEFSCRIPT_LOG_LEVEL"},
			},
			&cli.PathFlag{
				Name:  "log-file",
				Usage: "Additionally write JSON logs to this file",
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "Profile the execution: cpu or mem",
			},
			&cli.PathFlag{
				Name:  "profile-dir",
				Usage: "Directory in which profiles are written",
				Value: ".",
			},
		},
		Before: func(ctx *cli.Context) error {
			color, err := colorEnabled(ctx.String("color"), os.Stderr)
			if err != nil {
				return err
			}
			state.color = color

			logger, closeLog, err := newLogger(ctx.String("log-level"), ctx.Path("log-file"), os.Stderr)
			if err != nil {
				return err
			}
			state.logger = logger
			state.cleanup = append(state.cleanup, closeLog)

			stopProfile, err := startProfile(ctx.String("profile"), ctx.Path("profile-dir"))
			if err != nil {
				return err
			}
			state.cleanup = append(state.cleanup, stopProfile)

			return nil
		},
		After: func(ctx *cli.Context) error {
			// profiles have to be stopped before the log file is closed
			for idx := len(state.cleanup) - 1; idx >= 0; idx-- {
				state.cleanup[idx]()
			}
			state.cleanup = nil
			return nil
		},
		// Exit codes are handled in `main` so that `After` always runs.
		ExitErrHandler: func(ctx *cli.Context, err error) {},
		Commands: []*cli.Command{
			{
				Name:      "eval",
				Usage:     "Evaluate a file and print the value of every name",
				ArgsUsage: "[file]",
				Args:      true,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Usage:   "Output format: text, json or yaml",
						Value:   "text",
						Aliases: []string{"f"},
					},
					&cli.StringFlag{
						Name:    "select",
						Usage:   "Only print names which fuzzy-match this pattern",
						Aliases: []string{"s"},
					},
				},
				Before: fileValidator,
				Action: func(ctx *cli.Context) error {
					return evalCommand(ctx, state)
				},
			},
			{
				Name:      "check",
				Usage:     "Check a file and print its evaluation order",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action: func(ctx *cli.Context) error {
					return checkCommand(ctx, state)
				},
			},
			{
				Name:      "ast",
				Usage:     "Print the syntax tree of a file",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action: func(ctx *cli.Context) error {
					return astCommand(ctx, state)
				},
			},
			{
				Name:      "tokens",
				Usage:     "Print the tokens of a file",
				ArgsUsage: "[file]",
				Args:      true,
				Before:    fileValidator,
				Action: func(ctx *cli.Context) error {
					return tokensCommand(ctx, state)
				},
			},
		},
	}
}

func main() {
	state := &appState{
		logger:  slog.New(slog.DiscardHandler),
		color:   false,
		cleanup: make([]func(), 0),
	}

	if err := newApp(state).Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if exitErr.Error() != "" {
				fmt.Fprintln(os.Stderr, exitErr.Error())
			}
			os.Exit(exitErr.ExitCode())
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
