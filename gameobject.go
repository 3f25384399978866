package celeste

import "reflect"

// objectIDCounter is a plain counter (no atomic, the engine is single-threaded).
var objectIDCounter uint32

func nextObjectID() uint32 {
	objectIDCounter++
	return objectIDCounter
}

// GameObject owns a Transform and an ordered set of components. It forwards
// input, update and render calls to its components and then to its children,
// and tears its subtree down on death.
//
// Unmanaged components added with AddComponent are held in a pending queue and
// only join the update set at the start of the next Update call.
type GameObject struct {
	id     uint32
	game   *Game
	screen *Screen
	handle Handle

	name StringID
	tag  StringID

	alive        bool
	active       bool
	dying        bool
	shouldRender bool

	transform *Transform

	managed   []Component
	unmanaged []Component
	pending   []Component

	// iterBuf is reused to snapshot component lists during iteration.
	iterBuf []Component
}

// NewGameObject creates a freestanding GameObject that is not owned by any
// Screen. Freestanding objects cannot be deallocated; their memory is released
// by the garbage collector once unreferenced.
func NewGameObject(game *Game) *GameObject {
	g := &GameObject{}
	g.init(game)
	return g
}

func (g *GameObject) init(game *Game) {
	g.id = nextObjectID()
	g.game = game
	g.alive = true
	g.active = true
	g.shouldRender = true
	g.transform = game.transforms.Acquire(g)
	if g.transform == nil {
		game.log.Warn("transform pool exhausted; game object has no transform")
	}
}

// ID returns the process-unique object id.
func (g *GameObject) ID() uint32 { return g.id }

// Game returns the owning game context.
func (g *GameObject) Game() *Game { return g.game }

// Screen returns the Screen whose pool holds g, or nil for freestanding objects.
func (g *GameObject) Screen() *Screen { return g.screen }

// Transform returns g's transform, or nil once g has died.
func (g *GameObject) Transform() *Transform { return g.transform }

func (g *GameObject) IsAlive() bool  { return g.alive }
func (g *GameObject) IsActive() bool { return g.active }

// Name returns the interned name as a string.
func (g *GameObject) Name() string     { return g.name.String() }
func (g *GameObject) NameID() StringID { return g.name }
func (g *GameObject) SetName(name string) {
	g.name = InternString(name)
}
func (g *GameObject) SetNameID(id StringID) { g.name = id }

// Tag returns the interned tag as a string.
func (g *GameObject) Tag() string     { return g.tag.String() }
func (g *GameObject) TagID() StringID { return g.tag }
func (g *GameObject) SetTag(tag string) {
	g.tag = InternString(tag)
}

// ShouldRender reports whether Render emits this object's own components.
// Children are still visited.
func (g *GameObject) ShouldRender() bool          { return g.shouldRender }
func (g *GameObject) SetShouldRender(render bool) { g.shouldRender = render }

// SetActive sets g's active flag and the active flag of every attached
// component, pending ones included. Child GameObjects are not affected.
func (g *GameObject) SetActive(active bool) {
	g.active = active
	for _, list := range [...][]Component{g.managed, g.unmanaged, g.pending} {
		for _, c := range list {
			c.SetActive(active)
		}
	}
}

// --- Components ---

// AddComponent creates a T, attaches it to g and returns it. Types with a
// registered manager are allocated from the manager's pool; others are
// heap-allocated. Unmanaged components join the pending queue. Returns nil if
// g is dead or the manager's pool is exhausted.
func AddComponent[T any, PT interface {
	*T
	Component
}](g *GameObject) PT {
	if g == nil || !g.alive || g.dying {
		debugFail("AddComponent on a dead game object")
		return nil
	}
	var c PT
	if alloc := g.game.allocatorFor(reflect.TypeFor[T]()); alloc != nil {
		ac := alloc.allocate()
		if ac == nil {
			return nil
		}
		c = ac.(PT)
	} else {
		c = PT(new(T))
	}
	g.attach(c)
	return c
}

// AddComponentByName creates a component through the game's component
// registry. Returns nil for an unknown name or on allocation failure.
func (g *GameObject) AddComponentByName(name string) Component {
	if g == nil || !g.alive {
		return nil
	}
	return g.game.components.Create(name, g)
}

func (g *GameObject) attach(c Component) {
	b := c.base()
	b.self = c
	b.gameObject = g
	b.alive = true
	b.active = true
	if c.Lifecycle() == LifecycleManaged {
		g.managed = append(g.managed, c)
	} else {
		g.pending = append(g.pending, c)
	}
	if r, ok := c.(Resetter); ok {
		r.Reset()
	}
}

// detachComponent removes c from whichever list holds it.
func (g *GameObject) detachComponent(c Component) {
	g.managed = removeComponent(g.managed, c)
	g.unmanaged = removeComponent(g.unmanaged, c)
	g.pending = removeComponent(g.pending, c)
}

func removeComponent(s []Component, c Component) []Component {
	for i := range s {
		if s[i] == c {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}

// eachComponent calls fn for every alive component in lookup order: managed,
// then live unmanaged, then pending. Returning false stops the walk.
func (g *GameObject) eachComponent(fn func(Component) bool) {
	for _, list := range [...][]Component{g.managed, g.unmanaged, g.pending} {
		for _, c := range list {
			if c == nil || !c.IsAlive() {
				continue
			}
			if !fn(c) {
				return
			}
		}
	}
}

// ComponentCount returns the number of alive components, pending ones included.
func (g *GameObject) ComponentCount() int {
	n := 0
	g.eachComponent(func(Component) bool { n++; return true })
	return n
}

// Component returns the alive component at index i in lookup order, or nil
// when i is out of range.
func (g *GameObject) Component(i int) Component {
	if i < 0 {
		return nil
	}
	var found Component
	g.eachComponent(func(c Component) bool {
		if i == 0 {
			found = c
			return false
		}
		i--
		return true
	})
	return found
}

// FindComponent returns the first alive component of type T that satisfies
// every predicate, or the zero T. T may be a concrete pointer type or an
// interface.
func FindComponent[T any](g *GameObject, preds ...func(T) bool) T {
	var zero T
	if g == nil {
		return zero
	}
	result := zero
	g.eachComponent(func(c Component) bool {
		typed, ok := c.(T)
		if !ok {
			return true
		}
		for _, pred := range preds {
			if !pred(typed) {
				return true
			}
		}
		result = typed
		return false
	})
	return result
}

// HasComponent reports whether g has an alive component of type T.
func HasComponent[T any](g *GameObject) bool {
	if g == nil {
		return false
	}
	found := false
	g.eachComponent(func(c Component) bool {
		_, found = c.(T)
		return !found
	})
	return found
}

// --- Hierarchy ---

// Parent returns the GameObject owning the parent transform, or nil.
func (g *GameObject) Parent() *GameObject {
	if g.transform == nil || g.transform.parent == nil {
		return nil
	}
	return g.transform.parent.gameObject
}

// ParentTransform returns the parent transform, or nil.
func (g *GameObject) ParentTransform() *Transform {
	if g.transform == nil {
		return nil
	}
	return g.transform.parent
}

// SetParent re-parents g under p. A nil p does nothing; use
// SetParentTransform(nil) to detach.
func (g *GameObject) SetParent(p *GameObject) {
	if p == nil || p.transform == nil {
		return
	}
	g.SetParentTransform(p.transform)
}

// SetParentTransform re-parents g's transform under t. A nil t detaches g.
func (g *GameObject) SetParentTransform(t *Transform) {
	if g.transform == nil {
		return
	}
	g.transform.SetParent(t)
}

// ChildCount returns the number of child transforms.
func (g *GameObject) ChildCount() int {
	if g.transform == nil {
		return 0
	}
	return len(g.transform.children)
}

// ChildTransform returns the child transform at index i, or nil.
func (g *GameObject) ChildTransform(i int) *Transform {
	if g.transform == nil {
		return nil
	}
	return g.transform.Child(i)
}

// ChildGameObject returns the GameObject of the child at index i, or nil.
func (g *GameObject) ChildGameObject(i int) *GameObject {
	if g.transform == nil {
		return nil
	}
	return g.transform.ChildGameObject(i)
}

// ForEachChild calls fn for every alive child GameObject in child order.
// The child list is snapshotted first, so fn may kill or re-parent children.
func (g *GameObject) ForEachChild(fn func(child *GameObject)) {
	if g.transform == nil || len(g.transform.children) == 0 {
		return
	}
	kids := make([]*GameObject, 0, len(g.transform.children))
	for _, t := range g.transform.children {
		if t.gameObject != nil {
			kids = append(kids, t.gameObject)
		}
	}
	for _, child := range kids {
		if child.alive {
			fn(child)
		}
	}
}

// FindChild returns the first alive direct child named name, or nil.
func (g *GameObject) FindChild(name StringID) *GameObject {
	if name.IsNull() || g.transform == nil {
		return nil
	}
	for _, t := range g.transform.children {
		if c := t.gameObject; c != nil && c.alive && c.name == name {
			return c
		}
	}
	return nil
}

// FindChildNamed is FindChild for a plain string.
func (g *GameObject) FindChildNamed(name string) *GameObject {
	id, ok := LookupStringID(name)
	if !ok {
		return nil
	}
	return g.FindChild(id)
}

// --- Per-frame dispatch ---

// snapshot copies list into the reusable iteration buffer.
func (g *GameObject) snapshot(list []Component) []Component {
	g.iterBuf = append(g.iterBuf[:0], list...)
	return g.iterBuf
}

func (g *GameObject) releaseSnapshot(buf []Component) {
	clear(buf)
	g.iterBuf = buf[:0]
}

// HandleInput calls HandleInput on every live unmanaged component that is
// alive and active, then on every alive child.
func (g *GameObject) HandleInput() {
	if !g.alive {
		return
	}
	buf := g.snapshot(g.unmanaged)
	for _, c := range buf {
		if c.IsAlive() && c.IsActive() {
			c.HandleInput()
		}
	}
	g.releaseSnapshot(buf)
	g.ForEachChild(func(child *GameObject) { child.HandleInput() })
}

// Update moves pending components into the live set, calls Update on every
// live unmanaged component that is alive and active, then updates every alive
// child.
func (g *GameObject) Update(dt float64) {
	if !g.alive {
		return
	}
	if len(g.pending) > 0 {
		g.unmanaged = append(g.unmanaged, g.pending...)
		clear(g.pending)
		g.pending = g.pending[:0]
	}
	buf := g.snapshot(g.unmanaged)
	for _, c := range buf {
		if c.IsAlive() && c.IsActive() {
			c.Update(dt)
		}
	}
	g.releaseSnapshot(buf)
	g.ForEachChild(func(child *GameObject) { child.Update(dt) })
}

// Render lets every alive, active RenderContributor emit commands, then
// renders every alive child. Objects without renderers contribute nothing.
func (g *GameObject) Render(batch *RenderBatch, lag float64) {
	if !g.alive {
		return
	}
	if g.shouldRender {
		g.eachComponent(func(c Component) bool {
			if rc, ok := c.(RenderContributor); ok && c.IsActive() {
				rc.Render(batch, lag)
			}
			return true
		})
	}
	g.ForEachChild(func(child *GameObject) { child.Render(batch, lag) })
}

// --- Death ---

// Die tears g down: child GameObjects die first (last child first), then
// every component, then the name and tag are cleared and the transform is
// released. Calling Die again does nothing.
func (g *GameObject) Die() {
	if !g.alive || g.dying {
		return
	}
	g.dying = true
	name := g.name

	if t := g.transform; t != nil && len(t.children) > 0 {
		kids := make([]*Transform, len(t.children))
		copy(kids, t.children)
		for i := len(kids) - 1; i >= 0; i-- {
			if child := kids[i].gameObject; child != nil {
				child.Die()
			}
		}
	}

	dead := make([]Component, 0, len(g.managed)+len(g.unmanaged)+len(g.pending))
	dead = append(dead, g.managed...)
	dead = append(dead, g.unmanaged...)
	dead = append(dead, g.pending...)
	for _, c := range dead {
		c.Die()
	}
	g.managed = nil
	g.unmanaged = nil
	g.pending = nil

	g.name = NullStringID
	g.tag = NullStringID

	if t := g.transform; t != nil {
		g.transform = nil
		g.game.transforms.Release(t)
	}

	g.alive = false
	g.dying = false

	g.game.emit(SceneEvent{Type: EventObjectDied, ObjectID: g.id, Name: name.String()})
}

// Deallocate returns a dead, Screen-owned object to its pool. It returns false
// for alive or freestanding objects and on repeated calls.
func (g *GameObject) Deallocate() bool {
	if g.alive || g.screen == nil {
		return false
	}
	return g.screen.deallocate(g)
}
