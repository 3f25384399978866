package celeste

import (
	"reflect"
	"sort"
)

// componentAllocator hands out pool-backed components for AddComponent.
type componentAllocator interface {
	allocate() Component
}

// ComponentManager owns the storage for one managed component type. Components
// are allocated from a fixed pool; dead ones are swept back into the pool by
// Sweep, which the owning manager calls once per frame.
type ComponentManager[T any, PT interface {
	*T
	Component
}] struct {
	pool    *Pool[T]
	handles []Handle
}

// NewComponentManager creates a manager with room for capacity components.
func NewComponentManager[T any, PT interface {
	*T
	Component
}](capacity int) *ComponentManager[T, PT] {
	return &ComponentManager[T, PT]{
		pool:    NewPool[T](capacity),
		handles: make([]Handle, 0, capacity),
	}
}

func (m *ComponentManager[T, PT]) allocate() Component {
	h, ok := m.pool.Allocate()
	if !ok {
		return nil
	}
	m.handles = append(m.handles, h)
	return PT(m.pool.Get(h))
}

// Each calls fn for every alive and active component in allocation order.
func (m *ComponentManager[T, PT]) Each(fn func(c PT)) {
	for i := 0; i < len(m.handles); i++ {
		c := PT(m.pool.Get(m.handles[i]))
		if c == nil || !c.IsAlive() || !c.IsActive() {
			continue
		}
		fn(c)
	}
}

// EachAlive is Each without the active filter.
func (m *ComponentManager[T, PT]) EachAlive(fn func(c PT)) {
	for i := 0; i < len(m.handles); i++ {
		c := PT(m.pool.Get(m.handles[i]))
		if c == nil || !c.IsAlive() {
			continue
		}
		fn(c)
	}
}

// Sweep returns the slots of dead components to the pool.
func (m *ComponentManager[T, PT]) Sweep() {
	kept := m.handles[:0]
	for _, h := range m.handles {
		c := PT(m.pool.Get(h))
		if c == nil {
			continue
		}
		if !c.IsAlive() {
			m.pool.Deallocate(h)
			continue
		}
		kept = append(kept, h)
	}
	clear(m.handles[len(kept):])
	m.handles = kept
}

// Len returns the number of allocated components, dead-but-unswept included.
func (m *ComponentManager[T, PT]) Len() int { return m.pool.Len() }

// Cap returns the pool capacity.
func (m *ComponentManager[T, PT]) Cap() int { return m.pool.Cap() }

// registerManaged routes AddComponent[T] allocations to m.
func registerManaged[T any, PT interface {
	*T
	Component
}](g *Game, m *ComponentManager[T, PT]) {
	g.allocators[reflect.TypeFor[T]()] = m
}

func (g *Game) allocatorFor(t reflect.Type) componentAllocator {
	if g == nil {
		return nil
	}
	return g.allocators[t]
}

// --- Systems ---

// Phase defines execution ordering within a single Update.
type Phase int

const (
	PhaseTime    Phase = iota // 0: clock listeners
	PhaseScene                // 1: screens and unmanaged components
	PhasePhysics              // 2: rigid bodies
	PhaseAudio                // 3: audio sources and volumes
	PhaseRender               // 4: render component storage
)

// System is a per-frame step driven by the Runner.
type System interface {
	Phase() Phase
	Update(dt float64)
}

// Runner executes systems in phase order each frame. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase runs only the systems of the given phase.
func (r *Runner) TickPhase(phase Phase, dt float64) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
