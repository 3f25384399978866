package celeste

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenePrefab describes a screen and the object trees it starts with.
//
//	name: Main
//	capacity: 128
//	objects:
//	  - name: Player
//	    transform: {translation: [100, 80], scale: [2, 2]}
//	    components:
//	      - type: SpriteRenderer
//	        properties: {size: [16, 16], color: "#ff8800"}
//	    children: [...]
type ScenePrefab struct {
	Name     string         `yaml:"name"`
	Capacity int            `yaml:"capacity"`
	Objects  []PrefabObject `yaml:"objects"`
}

// PrefabObject describes one GameObject and its subtree.
type PrefabObject struct {
	Name       string            `yaml:"name"`
	Tag        string            `yaml:"tag"`
	Active     *bool             `yaml:"active"`
	Render     *bool             `yaml:"render"`
	Transform  PrefabTransform   `yaml:"transform"`
	Components []PrefabComponent `yaml:"components"`
	Children   []PrefabObject    `yaml:"children"`
}

// PrefabTransform holds local transform values. Vectors take two or three
// numbers; missing fields keep the identity value.
type PrefabTransform struct {
	Translation []float64 `yaml:"translation"`
	Rotation    float64   `yaml:"rotation"`
	Scale       []float64 `yaml:"scale"`
}

// PrefabComponent names a registered component type and the properties
// passed to its ApplyProperties.
type PrefabComponent struct {
	Type       string         `yaml:"type"`
	Active     *bool          `yaml:"active"`
	Properties map[string]any `yaml:"properties"`
}

// ParseScenePrefab decodes a YAML scene.
func ParseScenePrefab(data []byte) (*ScenePrefab, error) {
	var p ScenePrefab
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse scene prefab: %w", err)
	}
	if p.Name == "" {
		return nil, errors.New("parse scene prefab: missing name")
	}
	return &p, nil
}

// Instantiate allocates the object described by p (and its subtree) from the
// screen's pool and parents it under parent, which may be nil. On failure the
// partially built subtree is killed.
func (s *Screen) Instantiate(p *PrefabObject, parent *GameObject) (*GameObject, error) {
	g := s.AllocateGameObject()
	if g == nil {
		return nil, fmt.Errorf("object %q: screen %q is full", p.Name, s.Name())
	}
	if err := s.build(g, p, parent); err != nil {
		g.Die()
		return nil, err
	}
	return g, nil
}

func (s *Screen) build(g *GameObject, p *PrefabObject, parent *GameObject) error {
	if p.Name != "" {
		g.SetName(p.Name)
	}
	if p.Tag != "" {
		g.SetTag(p.Tag)
	}
	if p.Render != nil {
		g.SetShouldRender(*p.Render)
	}
	if parent != nil {
		g.SetParent(parent)
	}
	if t := g.Transform(); t != nil {
		tr, err := vec3From(p.Transform.Translation, Vec3{})
		if err != nil {
			return fmt.Errorf("object %q translation: %w", p.Name, err)
		}
		sc, err := vec3From(p.Transform.Scale, Vec3One)
		if err != nil {
			return fmt.Errorf("object %q scale: %w", p.Name, err)
		}
		t.SetTranslation(tr)
		t.SetRotation(p.Transform.Rotation)
		t.SetScale(sc)
	}
	if p.Active != nil {
		g.SetActive(*p.Active)
	}

	for i := range p.Components {
		pc := &p.Components[i]
		c := g.AddComponentByName(pc.Type)
		if c == nil {
			return fmt.Errorf("object %q: cannot create component %q", p.Name, pc.Type)
		}
		if applier, ok := c.(PropertyApplier); ok && len(pc.Properties) > 0 {
			if err := applier.ApplyProperties(pc.Properties); err != nil {
				return fmt.Errorf("object %q component %s: %w", p.Name, pc.Type, err)
			}
		}
		if pc.Active != nil {
			c.SetActive(*pc.Active)
		} else if p.Active != nil {
			c.SetActive(*p.Active)
		}
	}

	for i := range p.Children {
		if _, err := s.Instantiate(&p.Children[i], g); err != nil {
			return err
		}
	}
	return nil
}

func vec3From(v []float64, def Vec3) (Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return Vec3{v[0], v[1], def.Z}, nil
	case 3:
		return Vec3{v[0], v[1], v[2]}, nil
	}
	return def, fmt.Errorf("want 2 or 3 numbers, got %d", len(v))
}

// --- Property helpers ---

// Properties come from YAML decoded into map[string]any, so numbers arrive
// as int or float64 and vectors as []any. Absent keys leave dst unchanged.

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	}
	return 0, false
}

func propFloat(props map[string]any, key string, dst *float64) error {
	v, ok := props[key]
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return fmt.Errorf("%s: want a number, got %T", key, v)
	}
	*dst = f
	return nil
}

func propInt(props map[string]any, key string, dst *int) error {
	v, ok := props[key]
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f != float64(int(f)) {
		return fmt.Errorf("%s: want an integer, got %v", key, v)
	}
	*dst = int(f)
	return nil
}

func propFloats(props map[string]any, key string, lo, hi int) ([]float64, bool, error) {
	v, ok := props[key]
	if !ok {
		return nil, false, nil
	}
	list, ok := v.([]any)
	if !ok || len(list) < lo || len(list) > hi {
		return nil, true, fmt.Errorf("%s: want %d to %d numbers, got %v", key, lo, hi, v)
	}
	out := make([]float64, len(list))
	for i, e := range list {
		f, ok := toFloat(e)
		if !ok {
			return nil, true, fmt.Errorf("%s[%d]: want a number, got %T", key, i, e)
		}
		out[i] = f
	}
	return out, true, nil
}

func propVec2(props map[string]any, key string, dst *Vec2) error {
	f, ok, err := propFloats(props, key, 2, 2)
	if err != nil || !ok {
		return err
	}
	*dst = Vec2{f[0], f[1]}
	return nil
}

func propVec3(props map[string]any, key string, dst *Vec3) error {
	f, ok, err := propFloats(props, key, 2, 3)
	if err != nil || !ok {
		return err
	}
	v, err := vec3From(f, *dst)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

// propColor accepts "#rrggbb", "#rrggbbaa" or a list of three or four
// numbers in [0, 1].
func propColor(props map[string]any, key string, dst *Color) error {
	v, ok := props[key]
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		c, err := parseHexColor(s)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = c
		return nil
	}
	f, _, err := propFloats(props, key, 3, 4)
	if err != nil {
		return err
	}
	c := Color{f[0], f[1], f[2], 1}
	if len(f) == 4 {
		c.A = f[3]
	}
	*dst = c
	return nil
}

func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("bad color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	if len(hex) == 6 {
		n = n<<8 | 0xff
	}
	return Color{
		R: float64(n>>24&0xff) / 255,
		G: float64(n>>16&0xff) / 255,
		B: float64(n>>8&0xff) / 255,
		A: float64(n&0xff) / 255,
	}, nil
}
