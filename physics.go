package celeste

import "math"

// PhysicsManager owns rigid bodies and colliders. Each Update integrates the
// bodies' velocities into their transforms.
type PhysicsManager struct {
	game      *Game
	bodies    *ComponentManager[RigidBody2D, *RigidBody2D]
	colliders *ComponentManager[RectangleCollider, *RectangleCollider]
}

func newPhysicsManager(g *Game) *PhysicsManager {
	m := &PhysicsManager{
		game:      g,
		bodies:    NewComponentManager[RigidBody2D](g.cfg.Pools.RigidBodies),
		colliders: NewComponentManager[RectangleCollider](g.cfg.Pools.Colliders),
	}
	registerManaged(g, m.bodies)
	registerManaged(g, m.colliders)
	return m
}

// Phase reports PhasePhysics.
func (m *PhysicsManager) Phase() Phase { return PhasePhysics }

// Update integrates every alive, active body and reclaims dead components.
func (m *PhysicsManager) Update(dt float64) {
	m.bodies.Each(func(b *RigidBody2D) { b.integrate(dt) })
	m.bodies.Sweep()
	m.colliders.Sweep()
}

// Overlapping returns the alive, active colliders whose world bounds intersect
// c's, excluding c itself.
func (m *PhysicsManager) Overlapping(c *RectangleCollider) []*RectangleCollider {
	if c == nil || !c.IsAlive() {
		return nil
	}
	bounds := c.WorldBounds()
	var out []*RectangleCollider
	m.colliders.Each(func(other *RectangleCollider) {
		if other != c && bounds.Intersects(other.WorldBounds()) {
			out = append(out, other)
		}
	})
	return out
}

// HitTest returns the first alive, active collider containing the world point.
func (m *PhysicsManager) HitTest(p Vec2) *RectangleCollider {
	var hit *RectangleCollider
	m.colliders.Each(func(c *RectangleCollider) {
		if hit == nil && c.Contains(p) {
			hit = c
		}
	})
	return hit
}

// --- RigidBody2D ---

// RigidBody2D moves its owner's transform by a linear and angular velocity.
// Velocities are clamped per axis to [Min, Max] when set and when integrated.
type RigidBody2D struct {
	ManagedComponent

	linearVelocity     Vec2
	angularVelocity    float64
	MinLinearVelocity  Vec2
	MaxLinearVelocity  Vec2
	MinAngularVelocity float64
	MaxAngularVelocity float64
}

// Reset implements Resetter. Velocities are zero and unclamped.
func (b *RigidBody2D) Reset() {
	b.linearVelocity = Vec2{}
	b.angularVelocity = 0
	b.MinLinearVelocity = Vec2{math.Inf(-1), math.Inf(-1)}
	b.MaxLinearVelocity = Vec2{math.Inf(1), math.Inf(1)}
	b.MinAngularVelocity = math.Inf(-1)
	b.MaxAngularVelocity = math.Inf(1)
}

// OnDeath implements DeathObserver.
func (b *RigidBody2D) OnDeath() { b.Reset() }

func (b *RigidBody2D) LinearVelocity() Vec2     { return b.linearVelocity }
func (b *RigidBody2D) AngularVelocity() float64 { return b.angularVelocity }

// SetLinearVelocity sets the velocity in units per second, clamped.
func (b *RigidBody2D) SetLinearVelocity(v Vec2) {
	b.linearVelocity = Vec2{
		X: clamp(v.X, b.MinLinearVelocity.X, b.MaxLinearVelocity.X),
		Y: clamp(v.Y, b.MinLinearVelocity.Y, b.MaxLinearVelocity.Y),
	}
}

// AddLinearVelocity adds d to the velocity, clamped.
func (b *RigidBody2D) AddLinearVelocity(d Vec2) {
	b.SetLinearVelocity(b.linearVelocity.Add(d))
}

// SetAngularVelocity sets the angular velocity in radians per second, clamped.
func (b *RigidBody2D) SetAngularVelocity(w float64) {
	b.angularVelocity = clamp(w, b.MinAngularVelocity, b.MaxAngularVelocity)
}

func (b *RigidBody2D) integrate(dt float64) {
	t := b.Transform()
	if t == nil {
		return
	}
	b.SetLinearVelocity(b.linearVelocity)
	b.SetAngularVelocity(b.angularVelocity)
	t.Translate(b.linearVelocity.Scale(dt))
	t.Rotate(b.angularVelocity * dt)
}

// ApplyProperties implements PropertyApplier.
func (b *RigidBody2D) ApplyProperties(props map[string]any) error {
	if err := propVec2(props, "max_linear_velocity", &b.MaxLinearVelocity); err != nil {
		return err
	}
	if err := propVec2(props, "min_linear_velocity", &b.MinLinearVelocity); err != nil {
		return err
	}
	if err := propFloat(props, "max_angular_velocity", &b.MaxAngularVelocity); err != nil {
		return err
	}
	if err := propFloat(props, "min_angular_velocity", &b.MinAngularVelocity); err != nil {
		return err
	}
	var v Vec2
	if _, ok := props["linear_velocity"]; ok {
		if err := propVec2(props, "linear_velocity", &v); err != nil {
			return err
		}
		b.SetLinearVelocity(v)
	}
	var w float64
	if _, ok := props["angular_velocity"]; ok {
		if err := propFloat(props, "angular_velocity", &w); err != nil {
			return err
		}
		b.SetAngularVelocity(w)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// --- RectangleCollider ---

// RectangleCollider is an axis-aligned rectangle in the owner's local space,
// anchored at Offset.
type RectangleCollider struct {
	ManagedComponent

	Offset     Vec2
	Dimensions Vec2
}

// Reset implements Resetter.
func (c *RectangleCollider) Reset() {
	c.Offset = Vec2{}
	c.Dimensions = Vec2{}
}

// Contains reports whether the world point p lies inside the collider. The
// point is mapped into the owner's local space first, so rotation and scale
// are honored.
func (c *RectangleCollider) Contains(p Vec2) bool {
	t := c.Transform()
	if t == nil {
		return false
	}
	l := t.WorldToLocal(p)
	r := Rect{c.Offset.X, c.Offset.Y, c.Dimensions.X, c.Dimensions.Y}
	return r.Contains(l.X, l.Y)
}

// WorldBounds returns the world-space AABB of the collider's four corners.
func (c *RectangleCollider) WorldBounds() Rect {
	t := c.Transform()
	if t == nil {
		return Rect{}
	}
	m := t.WorldMatrix()
	corners := [4][2]float64{
		{c.Offset.X, c.Offset.Y},
		{c.Offset.X + c.Dimensions.X, c.Offset.Y},
		{c.Offset.X, c.Offset.Y + c.Dimensions.Y},
		{c.Offset.X + c.Dimensions.X, c.Offset.Y + c.Dimensions.Y},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		x, y := transformPoint(m, p[0], p[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// ApplyProperties implements PropertyApplier.
func (c *RectangleCollider) ApplyProperties(props map[string]any) error {
	if err := propVec2(props, "offset", &c.Offset); err != nil {
		return err
	}
	return propVec2(props, "dimensions", &c.Dimensions)
}
