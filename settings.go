package celeste

// GameSettings holds the player's audio preferences.
type GameSettings struct {
	ScriptableObjectBase `yaml:"-"`

	MasterVolume float64 `yaml:"master_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
}

// Apply pushes the settings to g's audio manager.
func (s *GameSettings) Apply(g *Game) { g.ApplySettings(s) }

// WindowSettings holds the window title and size. The app layer applies
// them when the window opens.
type WindowSettings struct {
	ScriptableObjectBase `yaml:"-"`

	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// Apply copies the settings into cfg, keeping cfg's values for unset fields.
func (s *WindowSettings) Apply(cfg *WindowConfig) {
	if s.Title != "" {
		cfg.Title = s.Title
	}
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	cfg.Fullscreen = s.Fullscreen
}
