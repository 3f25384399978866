package celeste

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for screen positions, sizes and velocities.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Vec3 is the vector type stored by a Transform. Z is carried through the
// hierarchy but is not used for 2D rendering beyond layer ordering.
type Vec3 struct {
	X, Y, Z float64
}

// Vec3One is the identity scale.
var Vec3One = Vec3{1, 1, 1}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// XY drops the Z component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// divComponent divides a by b, keeping fallback when b is zero.
func divComponent(a, b, fallback float64) float64 {
	if b == 0 || math.IsInf(b, 0) || math.IsNaN(b) {
		return fallback
	}
	return a / b
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// BlendMode selects a compositing operation for sprites.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendErase                   // destination-out (punch transparent holes)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)

	mouseButtonCount = 3
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// Lifecycle selects who drives a component's per-frame work.
type Lifecycle uint8

const (
	// LifecycleUnmanaged components are driven by their owning GameObject,
	// which calls HandleInput and Update on them each frame.
	LifecycleUnmanaged Lifecycle = iota
	// LifecycleManaged components are storage-owned and driven by a manager
	// (input, physics, audio, render). The GameObject never calls them.
	LifecycleManaged
)

// SceneEventType identifies a kind of event forwarded to an EntityStore.
type SceneEventType uint8

const (
	EventObjectDied     SceneEventType = iota // a GameObject finished dying
	EventMouseEnter                           // pointer entered a MouseInteractionHandler
	EventMouseLeave                           // pointer left a MouseInteractionHandler
	EventMouseDown                            // button pressed over a MouseInteractionHandler
	EventMouseUp                              // button released over a MouseInteractionHandler
	EventKeyActivated                         // a KeyboardActivator activated its target
	EventKeyDeactivated                       // a KeyboardActivator deactivated its target
)
