package celeste

// MouseInteractionHandler raises events when the pointer interacts with the
// owner's RectangleCollider. It is driven by the InputManager.
type MouseInteractionHandler struct {
	ManagedComponent

	OnEnter      Signal
	OnLeave      Signal
	OnButtonDown Event[MouseButton]
	OnButtonUp   Event[MouseButton]

	over bool
}

// Reset implements Resetter.
func (h *MouseInteractionHandler) Reset() {
	h.over = false
}

// IsMouseOver reports whether the pointer was over the collider last frame.
func (h *MouseInteractionHandler) IsMouseOver() bool { return h.over }

// OnDeath drops every subscription so callbacks cannot outlive the handler.
func (h *MouseInteractionHandler) OnDeath() {
	h.OnEnter.UnsubscribeAll()
	h.OnLeave.UnsubscribeAll()
	h.OnButtonDown.UnsubscribeAll()
	h.OnButtonUp.UnsubscribeAll()
}

func (h *MouseInteractionHandler) handleMouse(m *Mouse) {
	g := h.GameObject()
	if g == nil {
		return
	}
	collider := FindComponent[*RectangleCollider](g)
	hit := collider != nil && collider.Contains(m.Position)

	if hit != h.over {
		h.over = hit
		if hit {
			h.notify(EventMouseEnter, m, MouseButtonLeft)
			h.OnEnter.Invoke()
		} else {
			h.notify(EventMouseLeave, m, MouseButtonLeft)
			h.OnLeave.Invoke()
		}
	}
	if !hit {
		return
	}
	for b := MouseButton(0); b < mouseButtonCount; b++ {
		if !h.IsAlive() {
			return
		}
		if m.IsPressed(b) {
			h.notify(EventMouseDown, m, b)
			h.OnButtonDown.Invoke(b)
		} else if m.IsReleased(b) {
			h.notify(EventMouseUp, m, b)
			h.OnButtonUp.Invoke(b)
		}
	}
}

func (h *MouseInteractionHandler) notify(typ SceneEventType, m *Mouse, b MouseButton) {
	g := h.GameObject()
	if g == nil {
		return
	}
	g.game.emit(SceneEvent{
		Type:     typ,
		ObjectID: g.ID(),
		Name:     g.Name(),
		X:        m.Position.X,
		Y:        m.Position.Y,
		Button:   b,
	})
}
