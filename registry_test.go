package celeste

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComponentRegistry_RegisterAndCreate(t *testing.T) {
	game := newTestGame(t)
	r := NewComponentRegistry()
	if !RegisterComponent[hookRecorder](r, "Recorder") {
		t.Fatal("Register failed")
	}
	if RegisterComponent[hookRecorder](r, "Recorder") {
		t.Error("duplicate Register should fail")
	}
	if r.Register("Nil", nil) {
		t.Error("nil factory should be rejected")
	}

	g := NewGameObject(game)
	c := r.Create("Recorder", g)
	if _, ok := c.(*hookRecorder); !ok {
		t.Fatalf("Create returned %T", c)
	}
	if c.GameObject() != g {
		t.Error("created component should be attached")
	}
	if r.Create("Missing", g) != nil {
		t.Error("unknown name should yield nil")
	}
}

func TestComponentRegistry_NamesAndRemove(t *testing.T) {
	r := NewComponentRegistry()
	RegisterComponent[hookRecorder](r, "B")
	RegisterComponent[hookRecorder](r, "A")
	names := r.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Errorf("Names = %v", names)
	}
	if !r.Remove("A") || r.Remove("A") || r.Has("A") {
		t.Error("Remove mismatch")
	}
}

func TestAddComponentByName(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	c := g.AddComponentByName("SpriteRenderer")
	if _, ok := c.(*SpriteRenderer); !ok {
		t.Fatalf("got %T", c)
	}
	if g.AddComponentByName("Nope") != nil {
		t.Error("unknown name should yield nil")
	}
}

type levelData struct {
	ScriptableObjectBase `yaml:"-"`

	Enemies int      `yaml:"enemies"`
	Music   string   `yaml:"music"`
	Spawns  []string `yaml:"spawns"`
}

func TestScriptableObjectRegistry_Decode(t *testing.T) {
	r := NewScriptableObjectRegistry()
	if !RegisterScriptableObject[levelData](r, "LevelData") {
		t.Fatal("register failed")
	}
	if RegisterScriptableObject[levelData](r, "LevelData") {
		t.Error("duplicate register should fail")
	}

	obj, err := r.Decode([]byte(`
type: LevelData
name: forest
enemies: 12
music: forest.ogg
spawns: [north, south]
`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	level, ok := obj.(*levelData)
	if !ok {
		t.Fatalf("got %T", obj)
	}
	if level.Name() != "forest" || level.Enemies != 12 || level.Music != "forest.ogg" || len(level.Spawns) != 2 {
		t.Errorf("decoded %+v", level)
	}
}

func TestScriptableObjectRegistry_DecodeErrors(t *testing.T) {
	r := NewScriptableObjectRegistry()
	RegisterScriptableObject[levelData](r, "LevelData")

	cases := map[string]string{
		"unknown type": "type: Nope\nname: x\n",
		"bad yaml":     "type: [unterminated\n",
		"bad field":    "type: LevelData\nenemies: many\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := r.Decode([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptableObjectRegistry_Load(t *testing.T) {
	game := newTestGame(t)
	path := filepath.Join(t.TempDir(), "GameSettings.yaml")
	data := "type: GameSettings\nname: defaults\nmaster_volume: 0.8\nmusic_volume: 0.5\nsfx_volume: 0.25\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	obj, err := game.ScriptableObjects().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	settings, ok := obj.(*GameSettings)
	if !ok {
		t.Fatalf("got %T", obj)
	}
	assertNear(t, "master", settings.MasterVolume, 0.8)
	assertNear(t, "music", settings.MusicVolume, 0.5)
	assertNear(t, "sfx", settings.SFXVolume, 0.25)

	if _, err := game.ScriptableObjects().Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
