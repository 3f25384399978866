package celeste

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Game, scene events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// SceneEvent carries lifecycle and interaction data for the ECS bridge.
type SceneEvent struct {
	Type     SceneEventType
	ObjectID uint32
	Name     string
	X, Y     float64
	Button   MouseButton
}

// Screen is a group of GameObjects allocated from a fixed pool. Objects
// without a parent GameObject are roots; the Screen drives them each frame
// and deallocates the ones that died.
type Screen struct {
	game    *Game
	name    StringID
	objects *Pool[GameObject]
	active  bool

	rootBuf []*GameObject
}

func newScreen(game *Game, name string, capacity int) *Screen {
	return &Screen{
		game:    game,
		name:    InternString(name),
		objects: NewPool[GameObject](capacity),
		active:  true,
	}
}

// Name returns the screen name.
func (s *Screen) Name() string { return s.name.String() }

func (s *Screen) IsActive() bool         { return s.active }
func (s *Screen) SetActive(active bool)  { s.active = active }
func (s *Screen) ObjectCount() int       { return s.objects.Len() }
func (s *Screen) CanAllocate(n int) bool { return s.objects.CanAllocate(n) }

// AllocateGameObject claims a pooled GameObject. Returns nil when the pool is
// exhausted.
func (s *Screen) AllocateGameObject() *GameObject {
	h, ok := s.objects.Allocate()
	if !ok {
		s.game.log.Warn("screen object pool exhausted", zap.String("screen", s.Name()))
		return nil
	}
	g := s.objects.Get(h)
	g.init(s.game)
	g.screen = s
	g.handle = h
	return g
}

func (s *Screen) deallocate(g *GameObject) bool {
	if g.screen != s || !s.objects.IsAllocated(g.handle) {
		return false
	}
	return s.objects.Deallocate(g.handle)
}

// roots snapshots the alive objects whose transform has no parent GameObject.
func (s *Screen) roots() []*GameObject {
	buf := s.rootBuf[:0]
	s.objects.Each(func(_ Handle, g *GameObject) {
		if g.alive && g.Parent() == nil {
			buf = append(buf, g)
		}
	})
	s.rootBuf = buf
	return buf
}

// Find returns the first alive object named name, searching every object of
// the screen in slot order.
func (s *Screen) Find(name StringID) *GameObject {
	if name.IsNull() {
		return nil
	}
	var found *GameObject
	s.objects.Each(func(_ Handle, g *GameObject) {
		if found == nil && g.alive && g.name == name {
			found = g
		}
	})
	return found
}

// HandleInput forwards input to every root object.
func (s *Screen) HandleInput() {
	for _, g := range s.roots() {
		g.HandleInput()
	}
}

// Update updates every root object and then deallocates the dead ones.
func (s *Screen) Update(dt float64) {
	for _, g := range s.roots() {
		g.Update(dt)
	}
	s.sweep()
}

// Render emits every root object's render commands.
func (s *Screen) Render(batch *RenderBatch, lag float64) {
	for _, g := range s.roots() {
		g.Render(batch, lag)
	}
}

func (s *Screen) sweep() {
	s.objects.Each(func(h Handle, g *GameObject) {
		if !g.alive && !g.dying {
			s.objects.Deallocate(h)
		}
	})
}

// killAll kills every object of the screen.
func (s *Screen) killAll() {
	for _, g := range s.roots() {
		g.Die()
	}
	s.sweep()
}

// --- Scene manager ---

// SceneManager owns the screens of a Game and drives the active ones in
// creation order.
type SceneManager struct {
	game    *Game
	screens []*Screen
}

func newSceneManager(game *Game) *SceneManager {
	return &SceneManager{game: game}
}

// Phase reports PhaseScene.
func (m *SceneManager) Phase() Phase { return PhaseScene }

// NewScreen creates and registers a screen whose pool holds capacity objects.
// A capacity of zero uses the configured default.
func (m *SceneManager) NewScreen(name string, capacity int) *Screen {
	if capacity <= 0 {
		capacity = m.game.cfg.Pools.ScreenObjects
	}
	s := newScreen(m.game, name, capacity)
	m.screens = append(m.screens, s)
	return s
}

// Screen returns the screen named name, or nil.
func (m *SceneManager) Screen(name string) *Screen {
	id, ok := LookupStringID(name)
	if !ok {
		return nil
	}
	for _, s := range m.screens {
		if s.name == id {
			return s
		}
	}
	return nil
}

// Screens returns the screens in creation order. The slice MUST NOT be mutated.
func (m *SceneManager) Screens() []*Screen { return m.screens }

// Find returns the first alive object named name across all screens.
func (m *SceneManager) Find(name string) *GameObject {
	id, ok := LookupStringID(name)
	if !ok || id.IsNull() {
		return nil
	}
	for _, s := range m.screens {
		if g := s.Find(id); g != nil {
			return g
		}
	}
	return nil
}

// Load reads a prefab file and instantiates it into a new screen.
func (m *SceneManager) Load(path string) (*Screen, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	prefab, err := ParseScenePrefab(data)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return m.Instantiate(prefab)
}

// Instantiate creates a screen from a parsed prefab.
func (m *SceneManager) Instantiate(prefab *ScenePrefab) (*Screen, error) {
	s := m.NewScreen(prefab.Name, prefab.Capacity)
	for i := range prefab.Objects {
		if _, err := s.Instantiate(&prefab.Objects[i], nil); err != nil {
			m.remove(s)
			return nil, fmt.Errorf("instantiate scene %q: %w", prefab.Name, err)
		}
	}
	m.game.log.Info("scene loaded",
		zap.String("scene", prefab.Name), zap.Int("objects", s.ObjectCount()))
	return s, nil
}

// Unload kills every object of the named screen and removes it.
func (m *SceneManager) Unload(name string) bool {
	s := m.Screen(name)
	if s == nil {
		return false
	}
	m.remove(s)
	return true
}

// remove kills every object of s and drops s from the screen list.
func (m *SceneManager) remove(s *Screen) {
	s.killAll()
	for i, other := range m.screens {
		if other == s {
			copy(m.screens[i:], m.screens[i+1:])
			m.screens[len(m.screens)-1] = nil
			m.screens = m.screens[:len(m.screens)-1]
			return
		}
	}
}

// HandleInput forwards input to the active screens.
func (m *SceneManager) HandleInput() {
	for _, s := range m.screens {
		if s.active {
			s.HandleInput()
		}
	}
}

// Update updates the active screens.
func (m *SceneManager) Update(dt float64) {
	for _, s := range m.screens {
		if s.active {
			s.Update(dt)
		}
	}
}

// Render renders the active screens into batch.
func (m *SceneManager) Render(batch *RenderBatch, lag float64) {
	for _, s := range m.screens {
		if s.active {
			s.Render(batch, lag)
		}
	}
}

// objectCount returns the number of pooled objects across all screens.
func (m *SceneManager) objectCount() int {
	n := 0
	for _, s := range m.screens {
		n += s.objects.Len()
	}
	return n
}
