package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rickgao/shoehive-client/internal/version"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "shoehive",
		Usage:   "connect to a shoehive game server",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file",
				Sources: cli.EnvVars("SHOEHIVE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before the config is expanded",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "url",
				Usage:   "server URL (overrides server.url)",
				Sources: cli.EnvVars("SHOEHIVE_URL"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides log.level)",
			},
		},
		Commands: []*cli.Command{
			streamCommand(),
			sendCommand(),
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintln(cmd.Root().Writer, version.String())
					return err
				},
			},
		},
	}
}

func streamCommand() *cli.Command {
	return &cli.Command{
		Name:  "stream",
		Usage: "connect and print every message until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print full message JSON",
			},
			&cli.DurationFlag{
				Name:  "stats-interval",
				Usage: "how often to log the session summary (0 disables)",
				Value: 10 * time.Second,
			},
		},
		Action: runStream,
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "connect, send one command and print replies",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "action",
				Usage:    "command action, e.g. table:join",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "JSON object merged into the command",
				Value: "{}",
			},
			&cli.BoolFlag{
				Name:  "game",
				Usage: "send as a game command (action is prefixed with game:)",
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "how long to print replies after sending",
				Value: 2 * time.Second,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "give up if not connected within this time",
				Value: 30 * time.Second,
			},
		},
		Action: runSend,
	}
}
