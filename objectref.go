package celeste

// ObjectRef is a checked reference to a GameObject. It pairs the pointer with
// the object's id, so once a pooled object is swept and its slot handed to a
// new occupant the reference resolves to nil instead of the new object.
//
// The zero ObjectRef refers to nothing.
type ObjectRef struct {
	obj *GameObject
	id  uint32
}

// RefTo returns a reference to g. A nil g gives the zero reference.
func RefTo(g *GameObject) ObjectRef {
	if g == nil {
		return ObjectRef{}
	}
	return ObjectRef{obj: g, id: g.id}
}

// Get returns the referenced object, or nil when the reference is empty or
// its slot now holds a different object. A dead object that has not been
// swept yet is still returned; check IsAlive for liveness.
func (r ObjectRef) Get() *GameObject {
	if r.obj == nil || r.id == 0 || r.obj.id != r.id {
		return nil
	}
	return r.obj
}

// IsAlive reports whether the reference resolves to a live object.
func (r ObjectRef) IsAlive() bool {
	g := r.Get()
	return g != nil && g.alive
}

// ID returns the id the reference was taken with, or 0.
func (r ObjectRef) ID() uint32 { return r.id }

func (r *ObjectRef) Set(g *GameObject) { *r = RefTo(g) }
func (r *ObjectRef) Clear()            { *r = ObjectRef{} }
