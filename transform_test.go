package celeste

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon || math.Abs(got.Z-want.Z) > epsilon {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func newTestTransforms(t *testing.T, n int) (*TransformPool, []*Transform) {
	t.Helper()
	p := NewTransformPool(n)
	out := make([]*Transform, n)
	for i := range out {
		out[i] = p.Acquire(nil)
		if out[i] == nil {
			t.Fatalf("Acquire %d returned nil", i)
		}
	}
	return p, out
}

// --- Acquire ---

func TestAcquire_IdentityValues(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	tr := ts[0]
	assertNear(t, "rotation", tr.Rotation(), 0)
	assertVec3(t, "translation", tr.Translation(), Vec3{})
	assertVec3(t, "scale", tr.Scale(), Vec3One)
	if tr.Parent() != nil || tr.ChildCount() != 0 || tr.GameObject() != nil {
		t.Error("fresh transform should be detached")
	}
}

func TestAcquire_ExhaustedReturnsNil(t *testing.T) {
	p, _ := newTestTransforms(t, 2)
	if p.Acquire(nil) != nil {
		t.Error("Acquire beyond capacity should return nil")
	}
	if p.Len() != 2 || p.Cap() != 2 {
		t.Errorf("Len/Cap = %d/%d", p.Len(), p.Cap())
	}
}

// --- Parenting ---

func TestSetParent_AppendsChild(t *testing.T) {
	_, ts := newTestTransforms(t, 3)
	parent, a, b := ts[0], ts[1], ts[2]
	a.SetParent(parent)
	b.SetParent(parent)
	if parent.ChildCount() != 2 || parent.Child(0) != a || parent.Child(1) != b {
		t.Fatalf("children out of order")
	}
	if a.Parent() != parent {
		t.Error("a.Parent should be parent")
	}
}

func TestSetParent_SameParentIsIdempotent(t *testing.T) {
	_, ts := newTestTransforms(t, 2)
	parent, child := ts[0], ts[1]
	child.SetParent(parent)
	child.SetParent(parent)
	if parent.ChildCount() != 1 {
		t.Errorf("ChildCount = %d, want 1", parent.ChildCount())
	}
}

func TestSetParent_SelfRejected(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	tr := ts[0]
	tr.SetParent(tr)
	if tr.Parent() != nil || tr.ChildCount() != 0 {
		t.Error("self-parenting should be ignored")
	}
}

func TestSetParent_SelfPanicsInDebug(t *testing.T) {
	SetDebugMode(true)
	defer SetDebugMode(false)
	_, ts := newTestTransforms(t, 1)

	defer func() {
		if recover() == nil {
			t.Error("expected panic in debug mode")
		}
	}()
	ts[0].SetParent(ts[0])
}

func TestSetParent_CycleRejected(t *testing.T) {
	_, ts := newTestTransforms(t, 3)
	a, b, c := ts[0], ts[1], ts[2]
	b.SetParent(a)
	c.SetParent(b)
	a.SetParent(c)
	if a.Parent() != nil {
		t.Error("cycle should be rejected")
	}
}

func TestSetParent_MovesBetweenParents(t *testing.T) {
	_, ts := newTestTransforms(t, 3)
	p1, p2, child := ts[0], ts[1], ts[2]
	child.SetParent(p1)
	child.SetParent(p2)
	if p1.ChildCount() != 0 || p2.ChildCount() != 1 {
		t.Errorf("counts = %d, %d", p1.ChildCount(), p2.ChildCount())
	}
	child.SetParent(nil)
	if p2.ChildCount() != 0 || child.Parent() != nil {
		t.Error("nil parent should detach")
	}
}

func TestChild_OutOfRange(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	if ts[0].Child(-1) != nil || ts[0].Child(0) != nil || ts[0].ChildGameObject(3) != nil {
		t.Error("out-of-range child should be nil")
	}
}

// --- World values ---

func TestWorldValues_NoParentEqualLocal(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	tr := ts[0]
	tr.SetTranslation(Vec3{1, 2, 3})
	tr.SetRotation(0.5)
	tr.SetScale(Vec3{2, 3, 4})
	assertVec3(t, "world translation", tr.WorldTranslation(), Vec3{1, 2, 3})
	assertNear(t, "world rotation", tr.WorldRotation(), 0.5)
	assertVec3(t, "world scale", tr.WorldScale(), Vec3{2, 3, 4})
}

func TestWorldValues_ComposeThroughChain(t *testing.T) {
	_, ts := newTestTransforms(t, 3)
	root, mid, leaf := ts[0], ts[1], ts[2]
	mid.SetParent(root)
	leaf.SetParent(mid)

	root.SetTranslation(Vec3{10, 0, 0})
	mid.SetTranslation(Vec3{0, 5, 0})
	leaf.SetTranslation(Vec3{1, 1, 1})
	root.SetRotation(0.25)
	mid.SetRotation(0.5)
	leaf.SetRotation(1)
	root.SetScale(Vec3{2, 2, 1})
	mid.SetScale(Vec3{3, 1, 1})
	leaf.SetScale(Vec3{0.5, 4, 2})

	assertVec3(t, "translation", leaf.WorldTranslation(), Vec3{11, 6, 1})
	assertNear(t, "rotation", leaf.WorldRotation(), 1.75)
	assertVec3(t, "scale", leaf.WorldScale(), Vec3{3, 8, 2})
}

func TestSetWorldValues_RoundTrip(t *testing.T) {
	_, ts := newTestTransforms(t, 2)
	parent, child := ts[0], ts[1]
	child.SetParent(parent)
	parent.SetTranslation(Vec3{5, 5, 5})
	parent.SetRotation(1)
	parent.SetScale(Vec3{2, 4, 8})

	child.SetWorldTranslation(Vec3{1, 2, 3})
	child.SetWorldRotation(0.25)
	child.SetWorldScale(Vec3{1, 1, 1})

	assertVec3(t, "world translation", child.WorldTranslation(), Vec3{1, 2, 3})
	assertNear(t, "world rotation", child.WorldRotation(), 0.25)
	assertVec3(t, "world scale", child.WorldScale(), Vec3{1, 1, 1})
	assertVec3(t, "local translation", child.Translation(), Vec3{-4, -3, -2})
	assertNear(t, "local rotation", child.Rotation(), -0.75)
	assertVec3(t, "local scale", child.Scale(), Vec3{0.5, 0.25, 0.125})
}

func TestSetWorldTranslation_ParentMovesChild(t *testing.T) {
	_, ts := newTestTransforms(t, 2)
	a, b := ts[0], ts[1]
	b.SetParent(a)
	b.SetTranslation(Vec3{1, 0, 0})

	a.SetWorldTranslation(Vec3{5, 0, 0})
	assertVec3(t, "parent world", a.WorldTranslation(), Vec3{5, 0, 0})
	assertVec3(t, "child world", b.WorldTranslation(), Vec3{6, 0, 0})
	assertVec3(t, "child local", b.Translation(), Vec3{1, 0, 0})
}

func TestSetWorldScale_ZeroParentAxisKeepsLocal(t *testing.T) {
	_, ts := newTestTransforms(t, 2)
	parent, child := ts[0], ts[1]
	child.SetParent(parent)
	parent.SetScale(Vec3{0, 2, 1})
	child.SetScale(Vec3{7, 1, 1})

	child.SetWorldScale(Vec3{3, 3, 3})
	assertVec3(t, "local scale", child.Scale(), Vec3{7, 1.5, 3})
}

func TestTranslateAndRotate(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	tr := ts[0]
	tr.SetTranslation(Vec3{1, 1, 9})
	tr.Translate(Vec2{2, -1})
	tr.Rotate(0.5)
	tr.Rotate(0.25)
	assertVec3(t, "translation", tr.Translation(), Vec3{3, 0, 9})
	assertNear(t, "rotation", tr.Rotation(), 0.75)
}

// --- Matrices ---

func TestWorldMatrix_ScaleRotateTranslate(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	tr := ts[0]
	tr.SetScale(Vec3{2, 3, 1})
	tr.SetRotation(math.Pi / 2)
	tr.SetTranslation(Vec3{10, 20, 0})
	// cos=0, sin=1 -> a=0, b=2, c=-3, d=0
	assertMatrix(t, "world", tr.WorldMatrix(), [6]float64{0, 2, -3, 0, 10, 20})
}

func TestWorldToLocal_InvertsLocalToWorld(t *testing.T) {
	_, ts := newTestTransforms(t, 2)
	parent, child := ts[0], ts[1]
	child.SetParent(parent)
	parent.SetTranslation(Vec3{100, 50, 0})
	parent.SetRotation(0.3)
	child.SetScale(Vec3{2, 0.5, 1})

	p := Vec2{7, -3}
	w := child.LocalToWorld(p)
	back := child.WorldToLocal(w)
	assertNear(t, "x", back.X, p.X)
	assertNear(t, "y", back.Y, p.Y)
}

func TestInvertAffine_SingularReturnsIdentity(t *testing.T) {
	assertMatrix(t, "singular", invertAffine([6]float64{0, 0, 0, 0, 5, 5}), identityTransform)
}

// --- Release ---

func TestRelease_DetachesAndReleasesChildren(t *testing.T) {
	p, ts := newTestTransforms(t, 4)
	root, a, b, grand := ts[0], ts[1], ts[2], ts[3]
	a.SetParent(root)
	b.SetParent(root)
	grand.SetParent(a)

	if !p.Release(a) {
		t.Fatal("Release returned false")
	}
	if root.ChildCount() != 1 || root.Child(0) != b {
		t.Error("released transform should leave its parent")
	}
	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2 (root and b)", p.Len())
	}

	if !p.Release(root) {
		t.Fatal("Release(root) returned false")
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestRelease_TwiceFails(t *testing.T) {
	p, ts := newTestTransforms(t, 1)
	tr := ts[0]
	if !p.Release(tr) {
		t.Fatal("first Release failed")
	}
	if p.Release(tr) {
		t.Error("second Release should fail")
	}
}

func TestRelease_ForeignPoolFails(t *testing.T) {
	_, ts := newTestTransforms(t, 1)
	other := NewTransformPool(1)
	if other.Release(ts[0]) {
		t.Error("releasing into a foreign pool should fail")
	}
	if other.Release(nil) {
		t.Error("releasing nil should fail")
	}
}

func TestRelease_KillsOwningGameObject(t *testing.T) {
	game := newTestGame(t)
	g := NewGameObject(game)
	if !game.Transforms().Release(g.Transform()) {
		t.Fatal("Release failed")
	}
	if g.IsAlive() {
		t.Error("releasing the transform should kill its GameObject")
	}
	if g.Transform() != nil {
		t.Error("dead object should not reference the transform")
	}
}

func TestRelease_SlotReusedWithIdentity(t *testing.T) {
	p, ts := newTestTransforms(t, 1)
	ts[0].SetTranslation(Vec3{9, 9, 9})
	p.Release(ts[0])
	tr := p.Acquire(nil)
	if tr == nil {
		t.Fatal("Acquire after Release returned nil")
	}
	assertVec3(t, "translation", tr.Translation(), Vec3{})
	assertVec3(t, "scale", tr.Scale(), Vec3One)
}
