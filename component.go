package celeste

// Component is a unit of behavior attached to exactly one GameObject.
// Concrete components embed ComponentBase (driven by the owning GameObject)
// or ManagedComponent (driven by a manager) and override the hooks they need.
type Component interface {
	HandleInput()
	Update(dt float64)
	Lifecycle() Lifecycle

	IsAlive() bool
	IsActive() bool
	SetActive(active bool)
	GameObject() *GameObject
	Die()

	base() *ComponentBase
}

// Resetter is implemented by components that set their defaults when created.
// Reset runs after the component is attached to its GameObject.
type Resetter interface {
	Reset()
}

// DeathObserver is implemented by components that need a callback when they
// die. OnDeath runs once, before the component leaves its GameObject.
type DeathObserver interface {
	OnDeath()
}

// RenderContributor is implemented by components that emit render commands.
type RenderContributor interface {
	Render(batch *RenderBatch, lag float64)
}

// PropertyApplier is implemented by components that can be configured from
// prefab properties.
type PropertyApplier interface {
	ApplyProperties(props map[string]any) error
}

// ComponentBase carries the bookkeeping shared by every component: the owner
// back-reference and the alive and active flags. Its HandleInput and Update
// do nothing; overriding types call them first by convention.
type ComponentBase struct {
	gameObject *GameObject
	self       Component
	alive      bool
	active     bool
}

func (c *ComponentBase) base() *ComponentBase { return c }

// HandleInput is the default no-op input hook.
func (c *ComponentBase) HandleInput() {}

// Update is the default no-op update hook.
func (c *ComponentBase) Update(dt float64) {}

// Lifecycle reports LifecycleUnmanaged.
func (c *ComponentBase) Lifecycle() Lifecycle { return LifecycleUnmanaged }

// IsAlive reports whether the component has not died yet.
func (c *ComponentBase) IsAlive() bool { return c.alive }

// IsActive reports the component's own active flag.
func (c *ComponentBase) IsActive() bool { return c.active }

// SetActive sets the active flag. Inactive components are skipped by their
// driver but stay attached.
func (c *ComponentBase) SetActive(active bool) { c.active = active }

// GameObject returns the owner, or nil once the component has died.
func (c *ComponentBase) GameObject() *GameObject { return c.gameObject }

// Transform returns the owner's transform, or nil.
func (c *ComponentBase) Transform() *Transform {
	if c.gameObject == nil {
		return nil
	}
	return c.gameObject.transform
}

// Game returns the owner's game context, or nil.
func (c *ComponentBase) Game() *Game {
	if c.gameObject == nil {
		return nil
	}
	return c.gameObject.game
}

// Die kills the component. It is removed from its GameObject immediately and
// its owner reference is cleared. Calling Die again does nothing.
func (c *ComponentBase) Die() {
	if !c.alive {
		return
	}
	c.alive = false
	if obs, ok := c.self.(DeathObserver); ok {
		obs.OnDeath()
	}
	if g := c.gameObject; g != nil {
		g.detachComponent(c.self)
	}
	c.gameObject = nil
}

// ManagedComponent is embedded by components whose per-frame work is driven
// by a manager instead of the owning GameObject.
type ManagedComponent struct {
	ComponentBase
}

// Lifecycle reports LifecycleManaged.
func (c *ManagedComponent) Lifecycle() Lifecycle { return LifecycleManaged }
