package celeste

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Transform is a node in the position/rotation/scale hierarchy. World values
// compose along the parent chain: translation and rotation add, scale
// multiplies component-wise. Transforms are owned by a TransformPool.
type Transform struct {
	rotation    float64
	translation Vec3
	scale       Vec3

	gameObject *GameObject
	parent     *Transform
	children   []*Transform

	pool      *TransformPool
	handle    Handle
	releasing bool
}

// --- Hierarchy ---

// SetParent re-parents t under p. Passing the current parent does nothing.
// Passing t itself or one of its descendants is rejected. A nil p detaches t.
func (t *Transform) SetParent(p *Transform) {
	if p == t.parent {
		return
	}
	if p == t {
		debugFail("transform cannot be its own parent")
		return
	}
	if p != nil && isAncestor(t, p) {
		debugFail("re-parenting would create a transform cycle")
		return
	}
	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = p
	if p != nil {
		p.children = append(p.children, t)
		if globalDebug {
			debugCheckTreeDepth(t)
		}
	}
}

// Parent returns the parent transform, or nil.
func (t *Transform) Parent() *Transform { return t.parent }

// GameObject returns the owning GameObject, or nil for a bare transform.
func (t *Transform) GameObject() *GameObject { return t.gameObject }

// ChildCount returns the number of child transforms.
func (t *Transform) ChildCount() int { return len(t.children) }

// Child returns the child at index i, or nil when i is out of range.
func (t *Transform) Child(i int) *Transform {
	if i < 0 || i >= len(t.children) {
		return nil
	}
	return t.children[i]
}

// ChildGameObject returns the GameObject owning the child at index i, or nil.
func (t *Transform) ChildGameObject(i int) *GameObject {
	if c := t.Child(i); c != nil {
		return c.gameObject
	}
	return nil
}

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Transform) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChild removes child from t.children without clearing child.parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (t *Transform) removeChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			copy(t.children[i:], t.children[i+1:])
			t.children[len(t.children)-1] = nil
			t.children = t.children[:len(t.children)-1]
			return
		}
	}
}

// --- Local values ---

func (t *Transform) Rotation() float64     { return t.rotation }
func (t *Transform) Translation() Vec3     { return t.translation }
func (t *Transform) Scale() Vec3           { return t.scale }
func (t *Transform) SetRotation(r float64) { t.rotation = r }
func (t *Transform) SetTranslation(v Vec3) { t.translation = v }
func (t *Transform) SetScale(v Vec3)       { t.scale = v }

// Translate moves the transform in its local XY plane.
func (t *Transform) Translate(d Vec2) {
	t.translation.X += d.X
	t.translation.Y += d.Y
}

// Rotate adds r radians to the local rotation.
func (t *Transform) Rotate(r float64) { t.rotation += r }

// --- World values ---

// WorldTranslation returns the sum of local translations up the parent chain.
func (t *Transform) WorldTranslation() Vec3 {
	if t.parent == nil {
		return t.translation
	}
	return t.parent.WorldTranslation().Add(t.translation)
}

// WorldRotation returns the sum of local rotations up the parent chain.
func (t *Transform) WorldRotation() float64 {
	if t.parent == nil {
		return t.rotation
	}
	return t.parent.WorldRotation() + t.rotation
}

// WorldScale returns the component-wise product of scales up the parent chain.
func (t *Transform) WorldScale() Vec3 {
	if t.parent == nil {
		return t.scale
	}
	return t.parent.WorldScale().Mul(t.scale)
}

// SetWorldTranslation stores the local translation that yields v in world space.
func (t *Transform) SetWorldTranslation(v Vec3) {
	if t.parent == nil {
		t.translation = v
		return
	}
	t.translation = v.Sub(t.parent.WorldTranslation())
}

// SetWorldRotation stores the local rotation that yields r in world space.
func (t *Transform) SetWorldRotation(r float64) {
	if t.parent == nil {
		t.rotation = r
		return
	}
	t.rotation = r - t.parent.WorldRotation()
}

// SetWorldScale stores the local scale that yields v in world space. Axes on
// which the parent's world scale is zero keep their current local value.
func (t *Transform) SetWorldScale(v Vec3) {
	if t.parent == nil {
		t.scale = v
		return
	}
	ps := t.parent.WorldScale()
	t.scale = Vec3{
		X: divComponent(v.X, ps.X, t.scale.X),
		Y: divComponent(v.Y, ps.Y, t.scale.Y),
		Z: divComponent(v.Z, ps.Z, t.scale.Z),
	}
}

// --- Affine helpers ---

// WorldMatrix returns the 2D affine matrix [a, b, c, d, tx, ty] built from the
// world scale, rotation and translation. Composition order:
//
//	Scale -> Rotate -> Translate
func (t *Transform) WorldMatrix() [6]float64 {
	s := t.WorldScale()
	sin, cos := math.Sincos(t.WorldRotation())
	tr := t.WorldTranslation()
	return [6]float64{cos * s.X, sin * s.X, -sin * s.Y, cos * s.Y, tr.X, tr.Y}
}

// WorldToLocal converts a world-space point into this transform's space.
func (t *Transform) WorldToLocal(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(t.WorldMatrix()), p.X, p.Y)
	return Vec2{x, y}
}

// LocalToWorld converts a point in this transform's space to world space.
func (t *Transform) LocalToWorld(p Vec2) Vec2 {
	x, y := transformPoint(t.WorldMatrix(), p.X, p.Y)
	return Vec2{x, y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Pool ---

// TransformPool owns every Transform in a Game.
type TransformPool struct {
	pool *Pool[Transform]
}

// NewTransformPool creates a pool holding up to capacity transforms.
func NewTransformPool(capacity int) *TransformPool {
	return &TransformPool{pool: NewPool[Transform](capacity)}
}

// Acquire returns an identity transform owned by owner (which may be nil),
// or nil when the pool is exhausted.
func (p *TransformPool) Acquire(owner *GameObject) *Transform {
	h, ok := p.pool.Allocate()
	if !ok {
		return nil
	}
	t := p.pool.Get(h)
	t.scale = Vec3One
	t.gameObject = owner
	t.pool = p
	t.handle = h
	return t
}

// Release tears t down and returns its slot. In order: the values are reset,
// the owning GameObject is killed if it still owns t, t leaves its parent, and
// the remaining children are released last to first. Releasing a transform
// that is not live in this pool returns false.
func (p *TransformPool) Release(t *Transform) bool {
	if t == nil || t.pool != p || t.releasing || !p.pool.IsAllocated(t.handle) {
		return false
	}
	t.releasing = true

	t.rotation = 0
	t.translation = Vec3{}
	t.scale = Vec3One

	if g := t.gameObject; g != nil {
		t.gameObject = nil
		if g.transform == t {
			g.Die()
		}
	}

	if t.parent != nil {
		t.parent.removeChild(t)
		t.parent = nil
	}

	for i := len(t.children) - 1; i >= 0; i-- {
		if i >= len(t.children) {
			continue
		}
		child := t.children[i]
		child.parent = nil
		t.children = t.children[:i]
		p.Release(child)
	}
	t.children = nil

	return p.pool.Deallocate(t.handle)
}

// Len returns the number of live transforms.
func (p *TransformPool) Len() int { return p.pool.Len() }

// Cap returns the pool capacity.
func (p *TransformPool) Cap() int { return p.pool.Cap() }
