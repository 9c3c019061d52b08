// Command ludo plays four-player Ludo.
//
// Subcommands:
//  1. "play" runs a game in the terminal against AI opponents
//  2. "simulate" plays many AI-only games concurrently and reports win rates
//  3. "mcp" serves the game over MCP stdio for tool-calling agents
//  4. "validate" and "configs" inspect the configuration directory
//
// Global flags and their environment variables control the config
// directory and logging. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/ludo/game/config"
	"github.com/wricardo/mcp-training/ludo/game/engine"
	"github.com/wricardo/mcp-training/ludo/game/service"
	"github.com/wricardo/mcp-training/ludo/game/session"
	"github.com/wricardo/mcp-training/ludo/game/sim"
	"github.com/wricardo/mcp-training/ludo/logging"
	"github.com/wricardo/mcp-training/ludo/transport/mcp"
	"github.com/wricardo/mcp-training/ludo/transport/terminal"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ludo"
)

const (
	sessionCleanupInterval = time.Hour
	sessionMaxAge          = 24 * time.Hour
)

// app carries what the Before hook sets up for the subcommands.
type app struct {
	logger  *zap.Logger
	cleanup func() error
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	a := &app{logger: zap.NewNop(), cleanup: func() error { return nil }}

	return &cli.Command{
		Name:    "ludo",
		Usage:   "Four-player Ludo with heuristic AI opponents",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "also write logs to this rotated file",
				Sources: cli.EnvVars("LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "game-log-dir",
				Usage:   "write one history file per game session into this directory",
				Sources: cli.EnvVars("GAME_LOG_DIR"),
			},
		},
		Before:   a.before,
		After:    a.after,
		Commands: []*cli.Command{a.playCommand(), a.simulateCommand(), a.mcpCommand(), a.validateCommand(), a.configsCommand()},
	}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger, cleanup, err := logging.New(logging.Config{
		Level: cmd.String("log-level"),
		File:  cmd.String("log-file"),
		// The terminal game owns stderr; keep logs in the file when there is one.
		Quiet: cmd.String("log-file") != "" && cmd.Args().First() == "play",
	})
	if err != nil {
		return ctx, err
	}
	a.logger, a.cleanup = logger, cleanup
	return ctx, nil
}

func (a *app) after(ctx context.Context, cmd *cli.Command) error {
	return a.cleanup()
}

// initializeServices wires the config manager, session manager and game
// service, and keeps expired sessions pruned until ctx is done.
func initializeServices(ctx context.Context, configDir string, logger *zap.Logger, opts ...service.Option) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(session.WithLogger(logger))
	opts = append([]service.Option{service.WithLogger(logger)}, opts...)
	gameService := service.NewGameService(sessionManager, configManager, opts...)

	go sessionCleanupRoutine(ctx, sessionManager, logger)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions idle for longer than sessionMaxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

func (a *app) services(ctx context.Context, cmd *cli.Command, opts ...service.Option) (service.GameService, error) {
	if dir := cmd.String("game-log-dir"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create game log dir: %w", err)
		}
		opts = append(opts, service.WithGameLogDir(dir))
	}
	svc, _, err := initializeServices(ctx, cmd.String("config-dir"), a.logger, opts...)
	return svc, err
}

func (a *app) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a game in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "configuration to play (default seating when empty)"},
			&cli.Uint64Flag{Name: "seed", Usage: "dice seed for a reproducible game (0 is random)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := cmd.Uint64("seed")
			svc, err := a.services(ctx, cmd, service.WithDiceFactory(func() engine.Dice {
				return engine.NewRandomDice(seed)
			}))
			if err != nil {
				return err
			}
			return terminal.New(svc, os.Stdin, os.Stdout).Run(ctx, cmd.String("config"))
		},
	}
}

func (a *app) simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play AI-only games and report the results",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultConfigName, Usage: "configuration to simulate"},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 100, Usage: "number of games"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Value: 4, Usage: "games played concurrently"},
			&cli.Uint64Flag{Name: "seed", Usage: "base seed (0 is random)"},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := a.services(ctx, cmd)
			if err != nil {
				return err
			}
			cfg, err := svc.LoadConfig(ctx, cmd.String("config"))
			if err != nil {
				return err
			}
			report, err := sim.Run(ctx, cfg, sim.Options{
				Games:   cmd.Int("games"),
				Workers: cmd.Int("workers"),
				Seed:    cmd.Uint64("seed"),
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(os.Stdout, report)
			return nil
		},
	}
}

func (a *app) mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the game over MCP stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := a.services(ctx, cmd)
			if err != nil {
				return err
			}
			a.logger.Info("starting", zap.String("app", AppName), zap.String("version", Version))
			return mcp.NewServer(svc, a.logger).ServeStdio()
		},
	}
}

func (a *app) validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check every configuration file in a directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = cmd.String("config-dir")
			}
			results, err := config.ValidateDir(dir)
			if err != nil {
				return err
			}
			if invalid := printValidation(os.Stdout, results); invalid > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d configurations are invalid", invalid, len(results)), 1)
			}
			return nil
		},
	}
}

func (a *app) configsCommand() *cli.Command {
	return &cli.Command{
		Name:  "configs",
		Usage: "list available configurations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configManager, err := config.NewManager(cmd.String("config-dir"))
			if err != nil {
				return err
			}
			infos, err := configManager.ListConfigs()
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(os.Stdout, "%-16s %-24s players=%d ai=%d  %s\n",
					info.ConfigID, info.Name, info.Players, info.AIPlayers, info.Description)
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r *sim.Report) {
	fmt.Fprintf(w, "Games: %d in %s\n", r.Games, r.Elapsed.Round(time.Millisecond))
	for _, c := range engine.AllColors {
		if wins, ok := r.Wins[c]; ok {
			fmt.Fprintf(w, "  %-7s %5d wins (%.1f%%)\n", c, wins, 100*float64(wins)/float64(r.Games))
		}
	}
	fmt.Fprintf(w, "Average turns: %.1f\n", r.AverageTurns)
	fmt.Fprintf(w, "Longest game: #%d, %d turns (seed %d)\n", r.LongestGame.Game, r.LongestGame.Turns, r.LongestGame.Seed)
	fmt.Fprintf(w, "Captures: %d\n", r.TotalCaptures)
}

// printValidation writes one block per file and returns the number of invalid files.
func printValidation(w io.Writer, results []config.ValidationResult) int {
	invalid := 0
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(w, "✅ %s\n", result.File)
		} else {
			invalid++
			fmt.Fprintf(w, "❌ %s\n", result.File)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "   error: %s\n", e)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "   warning: %s\n", warning)
		}
		for _, info := range result.Info {
			fmt.Fprintf(w, "   %s\n", info)
		}
	}
	fmt.Fprintf(w, "\n%d files checked, %d invalid\n", len(results), invalid)
	return invalid
}
