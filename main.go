// dashrunner is a one-button auto-runner: hold a steady pace, jump the
// obstacles and reach the goal.
//
// Usage:
//
//	dashrunner               - Play the configured level
//	dashrunner levels        - List levels with their best times
//	dashrunner runs          - Show recent runs
//	dashrunner prefabs       - List entity prefabs
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/milk9111/dashrunner/config"
	"github.com/milk9111/dashrunner/prefabs"
	"github.com/milk9111/dashrunner/storage"
)

var (
	flagConfig   string
	flagLevel    string
	flagDebug    bool
	flagWatch    bool
	flagSeed     uint64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashrunner",
	Short: "A one-button 2D runner",
	Long: `dashrunner runs the player to the right automatically. Press Space,
W or Up to jump. Hitting an obstacle restarts the level after a short
delay; reaching the goal completes it. Escape pauses.

Examples:
  dashrunner
  dashrunner --level runner_01 --debug
  dashrunner --watch
  dashrunner runs --limit 5`,
	SilenceUsage: true,
	RunE:         runGame,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default: ~/.dashrunner/config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "Level name in levels/ (.json optional)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Draw physics shapes and ground probes")
	rootCmd.PersistentFlags().BoolVar(&flagWatch, "watch", false, "Reload prefabs, scripts and levels when they change on disk")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed for sound pitch (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(prefabsCmd)
}

// loadConfig reads the config file and applies any flags set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = flagLevel
	}
	if flags.Changed("debug") {
		cfg.Debug = flagDebug
	}
	if flags.Changed("watch") {
		cfg.Watch = flagWatch
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dashrunner",
		Level:           cfg.LoggerLevel(),
	})
}

func runGame(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	log.SetDefault(logger)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("run history disabled", "db", cfg.DBPath, "err", err)
		store = nil
	}
	defer store.Close()

	var watcher *prefabs.Watcher
	if cfg.Watch {
		watcher, err = prefabs.NewWatcher("prefabs", "prefabs/scripts", "levels")
		if err != nil {
			logger.Warn("hot reload disabled", "err", err)
			watcher = nil
		} else {
			logger.Info("watching for changes")
		}
	}
	defer watcher.Close()

	game, err := NewGame(GameOptions{Config: cfg, Logger: logger, Store: store, Watcher: watcher})
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(ebiten.DefaultTPS)

	logger.Info("starting", "level", cfg.Level, "seed", cfg.Seed)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
