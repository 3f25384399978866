package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/celeste2d/celeste"
	"github.com/celeste2d/celeste/app"
	"github.com/celeste2d/celeste/ecs"
	"github.com/celeste2d/celeste/scripting"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config/celeste.toml", "path to the TOML config")
	scene := flag.String("scene", "", "scene prefab to load at startup (relative to resources_dir)")
	flag.Parse()
	if p := os.Getenv("CELESTE_CONFIG"); p != "" {
		*cfgPath = p
	}

	// 1. Load config
	cfg, err := celeste.LoadConfig(*cfgPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = celeste.DefaultConfig()
	}

	// 2. Init logger
	log, err := celeste.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Build the game and its ECS bridge
	game := celeste.NewGame(cfg, log)
	defer game.Close()

	world := donburi.NewWorld()
	game.SetEntityStore(ecs.NewDonburiStore(world))
	ecs.TrackDeaths(world)
	game.Timers().Subscribe(func(float64) { ecs.SceneEventType.ProcessEvents(world) })

	// 4. Settings
	runner := app.New(game)
	loadSettings(game, runner, log)

	// 5. Scene and game script
	if *scene != "" {
		if _, err := game.Scenes().Load(filepath.Join(cfg.Game.ResourcesDir, *scene)); err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
	}

	lua := scripting.NewEngine(game)
	defer lua.Close()
	if err := lua.RunGameScript(); err != nil {
		return fmt.Errorf("game script: %w", err)
	}

	// 6. Run
	return runner.Run()
}

// loadSettings applies the settings assets found under resources_dir.
// Missing files keep the configured defaults.
func loadSettings(game *celeste.Game, runner *app.Runner, log *zap.Logger) {
	dir := game.Config().Game.ResourcesDir
	paths := []string{
		filepath.Join(dir, game.Config().Game.SettingsFile),
		filepath.Join(dir, "Data", "Settings", "WindowSettings.yaml"),
	}
	for _, path := range paths {
		obj, err := game.ScriptableObjects().Load(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("settings not loaded", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		switch s := obj.(type) {
		case *celeste.GameSettings:
			s.Apply(game)
		case *celeste.WindowSettings:
			runner.ApplyWindowSettings(s)
		}
		log.Info("settings loaded", zap.String("path", path), zap.String("name", obj.Name()))
	}
}
