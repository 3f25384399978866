package celeste

import "testing"

func TestParseScenePrefab_Errors(t *testing.T) {
	if _, err := ParseScenePrefab([]byte("objects: []\n")); err == nil {
		t.Error("missing name should fail")
	}
	if _, err := ParseScenePrefab([]byte("name: [\n")); err == nil {
		t.Error("bad yaml should fail")
	}
}

func TestScreenInstantiate_UnderParent(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("main", 8)
	parent := s.AllocateGameObject()

	g, err := s.Instantiate(&PrefabObject{
		Name:      "Coin",
		Transform: PrefabTransform{Translation: []float64{1, 2}},
		Children:  []PrefabObject{{Name: "Glow"}},
	}, parent)
	if err != nil {
		t.Fatal(err)
	}
	if g.Parent() != parent || g.FindChildNamed("Glow") == nil {
		t.Error("hierarchy not built")
	}
}

func TestScreenInstantiate_BadTransformKillsSubtree(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("main", 8)
	_, err := s.Instantiate(&PrefabObject{
		Name:      "Broken",
		Transform: PrefabTransform{Scale: []float64{1, 2, 3, 4}},
	}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	s.Update(0)
	if s.ObjectCount() != 0 {
		t.Errorf("ObjectCount = %d, want 0", s.ObjectCount())
	}
}

func TestScreenInstantiate_FullScreen(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("tiny", 1)
	_, err := s.Instantiate(&PrefabObject{
		Name:     "Parent",
		Children: []PrefabObject{{Name: "Child"}},
	}, nil)
	if err == nil {
		t.Error("expected error when the screen runs out of objects")
	}
}

func TestScreenInstantiate_BadPropertyFails(t *testing.T) {
	game := newTestGame(t)
	s := game.Scenes().NewScreen("main", 4)
	_, err := s.Instantiate(&PrefabObject{
		Name: "Bad",
		Components: []PrefabComponent{{
			Type:       "SpriteRenderer",
			Properties: map[string]any{"size": "big"},
		}},
	}, nil)
	if err == nil {
		t.Error("expected property error")
	}
}

func TestPropHelpers(t *testing.T) {
	props := map[string]any{
		"f":     1.5,
		"i":     3,
		"frac":  2.5,
		"v2":    []any{1, 2.5},
		"v3":    []any{1, 2, 3},
		"short": []any{1},
		"str":   "x",
		"mixed": []any{1, "a"},
	}

	var f float64
	if err := propFloat(props, "f", &f); err != nil || f != 1.5 {
		t.Errorf("propFloat = %v, %v", f, err)
	}
	if err := propFloat(props, "missing", &f); err != nil || f != 1.5 {
		t.Error("missing key should leave dst unchanged")
	}
	if err := propFloat(props, "str", &f); err == nil {
		t.Error("string should not parse as float")
	}

	var i int
	if err := propInt(props, "i", &i); err != nil || i != 3 {
		t.Errorf("propInt = %v, %v", i, err)
	}
	if err := propInt(props, "frac", &i); err == nil {
		t.Error("fractional value should not parse as int")
	}

	var v2 Vec2
	if err := propVec2(props, "v2", &v2); err != nil || v2 != (Vec2{1, 2.5}) {
		t.Errorf("propVec2 = %v, %v", v2, err)
	}
	if err := propVec2(props, "short", &v2); err == nil {
		t.Error("short list should fail")
	}
	if err := propVec2(props, "mixed", &v2); err == nil {
		t.Error("non-numeric element should fail")
	}

	v3 := Vec3{0, 0, 9}
	if err := propVec3(props, "v2", &v3); err != nil || v3 != (Vec3{1, 2.5, 9}) {
		t.Errorf("propVec3 with two numbers = %v, %v", v3, err)
	}
	if err := propVec3(props, "v3", &v3); err != nil || v3 != (Vec3{1, 2, 3}) {
		t.Errorf("propVec3 = %v, %v", v3, err)
	}
}

func TestPropColor(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Color
		err  bool
	}{
		{"hex6", "#ff0000", Color{1, 0, 0, 1}, false},
		{"hex8", "#00ff0080", Color{0, 1, 0, 128.0 / 255}, false},
		{"no hash", "0000ff", Color{0, 0, 1, 1}, false},
		{"list3", []any{0.5, 0.5, 0.5}, Color{0.5, 0.5, 0.5, 1}, false},
		{"list4", []any{1, 1, 1, 0.25}, Color{1, 1, 1, 0.25}, false},
		{"bad hex", "#zzzzzz", Color{}, true},
		{"bad length", "#fff", Color{}, true},
		{"bad list", []any{1}, Color{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Color
			err := propColor(map[string]any{"c": tc.in}, "c", &c)
			if tc.err {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			assertNear(t, "r", c.R, tc.want.R)
			assertNear(t, "g", c.G, tc.want.G)
			assertNear(t, "b", c.B, tc.want.B)
			assertNear(t, "a", c.A, tc.want.A)
		})
	}
}
