package celeste

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Game    GameConfig    `toml:"game"`
	Pools   PoolConfig    `toml:"pools"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Fullscreen bool   `toml:"fullscreen"`
	TPS        int    `toml:"tps"`
	ShowFPS    bool   `toml:"show_fps"`
}

type GameConfig struct {
	ResourcesDir string  `toml:"resources_dir"`
	GameScript   string  `toml:"game_script"` // relative to resources_dir
	SettingsFile string  `toml:"settings_file"`
	MasterVolume float64 `toml:"master_volume"` // 0.0-1.0
	MusicVolume  float64 `toml:"music_volume"`
	SFXVolume    float64 `toml:"sfx_volume"`
	TimeScale    float64 `toml:"time_scale"`
	VideoPlayer  string  `toml:"video_player"`
}

// PoolConfig sets the fixed capacities of every pool.
type PoolConfig struct {
	Transforms         int `toml:"transforms"`
	ScreenObjects      int `toml:"screen_objects"`
	RigidBodies        int `toml:"rigid_bodies"`
	Colliders          int `toml:"colliders"`
	Sprites            int `toml:"sprites"`
	Texts              int `toml:"texts"`
	AudioSources       int `toml:"audio_sources"`
	KeyboardActivators int `toml:"keyboard_activators"`
	MouseHandlers      int `toml:"mouse_handlers"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Enabled bool `toml:"enabled"`
}

// LoadConfig reads the TOML file at path over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Celeste",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		Game: GameConfig{
			ResourcesDir: "Resources",
			GameScript:   "Scripts/Game.lua",
			SettingsFile: "Data/Settings/GameSettings.yaml",
			MasterVolume: 1.0,
			MusicVolume:  1.0,
			SFXVolume:    1.0,
			TimeScale:    1.0,
			VideoPlayer:  "ffplay",
		},
		Pools: PoolConfig{
			Transforms:         500,
			ScreenObjects:      256,
			RigidBodies:        128,
			Colliders:          256,
			Sprites:            512,
			Texts:              128,
			AudioSources:       64,
			KeyboardActivators: 64,
			MouseHandlers:      128,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
