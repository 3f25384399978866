package celeste

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandSprite CommandType = iota // textured or solid quad
	CommandText                      // debug-font text
)

// RenderCommand is a single draw instruction emitted by a render component.
type RenderCommand struct {
	Type      CommandType
	Transform [6]float64 // maps the unit quad (sprites) or the text origin to screen space
	Color     Color
	BlendMode BlendMode
	Layer     int
	Texture   string
	Text      string
	ObjectID  uint32
	treeOrder int // assigned by Add for stable sort
}

const defaultCommandCap = 1024

// RenderBatch collects the commands of one frame. Sort orders them by layer,
// keeping emission order within a layer.
type RenderBatch struct {
	commands  []RenderCommand
	sortBuf   []RenderCommand
	nextOrder int
}

// NewRenderBatch creates an empty batch.
func NewRenderBatch() *RenderBatch {
	return &RenderBatch{
		commands: make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:  make([]RenderCommand, 0, defaultCommandCap),
	}
}

// Add appends cmd.
func (b *RenderBatch) Add(cmd RenderCommand) {
	b.nextOrder++
	cmd.treeOrder = b.nextOrder
	b.commands = append(b.commands, cmd)
}

// Commands returns the commands. The slice MUST NOT be mutated and is only
// valid until the next Reset.
func (b *RenderBatch) Commands() []RenderCommand { return b.commands }

// Len returns the number of commands.
func (b *RenderBatch) Len() int { return len(b.commands) }

// Reset empties the batch, keeping its storage.
func (b *RenderBatch) Reset() {
	b.commands = b.commands[:0]
	b.nextOrder = 0
}

// commandLessOrEqual returns true if a should sort before or at the same position as b.
// Using <= for treeOrder ensures stability.
func commandLessOrEqual(a, b RenderCommand) bool {
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	return a.treeOrder <= b.treeOrder
}

// Sort sorts the commands in-place using sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (b *RenderBatch) Sort() {
	n := len(b.commands)
	if n <= 1 {
		return
	}
	if cap(b.sortBuf) < n {
		b.sortBuf = make([]RenderCommand, n)
	}
	b.sortBuf = b.sortBuf[:n]

	src := b.commands
	dst := b.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(src, dst, lo, mid, hi)
		}
		src, dst = dst, src
		swapped = !swapped
	}

	if swapped {
		copy(b.commands, b.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}

// --- Manager ---

// RenderManager owns the render component storage and builds each frame's
// batch by walking the scene.
type RenderManager struct {
	game    *Game
	batch   *RenderBatch
	sprites *ComponentManager[SpriteRenderer, *SpriteRenderer]
	texts   *ComponentManager[TextRenderer, *TextRenderer]
}

func newRenderManager(g *Game) *RenderManager {
	m := &RenderManager{
		game:    g,
		batch:   NewRenderBatch(),
		sprites: NewComponentManager[SpriteRenderer](g.cfg.Pools.Sprites),
		texts:   NewComponentManager[TextRenderer](g.cfg.Pools.Texts),
	}
	registerManaged(g, m.sprites)
	registerManaged(g, m.texts)
	return m
}

// Phase reports PhaseRender.
func (m *RenderManager) Phase() Phase { return PhaseRender }

// Update reclaims dead render components.
func (m *RenderManager) Update(dt float64) {
	m.sprites.Sweep()
	m.texts.Sweep()
}

// Render resets the frame batch, fills it from the scene and sorts it.
func (m *RenderManager) Render(scenes *SceneManager, lag float64) *RenderBatch {
	m.batch.Reset()
	scenes.Render(m.batch, lag)
	m.batch.Sort()
	return m.batch
}

// --- SpriteRenderer ---

// SpriteRenderer draws a Size-sized quad, tinted by Color and Opacity, with
// its Pivot (normalized, 0..1) placed at the owner's world position. An empty
// Texture draws a solid quad.
type SpriteRenderer struct {
	ManagedComponent

	Texture   string
	Size      Vec2
	Color     Color
	Opacity   float64
	Pivot     Vec2
	Layer     int
	BlendMode BlendMode
}

// Reset implements Resetter.
func (s *SpriteRenderer) Reset() {
	s.Texture = ""
	s.Size = Vec2{1, 1}
	s.Color = ColorWhite
	s.Opacity = 1
	s.Pivot = Vec2{}
	s.Layer = 0
	s.BlendMode = BlendNormal
}

// Render implements RenderContributor.
func (s *SpriteRenderer) Render(batch *RenderBatch, lag float64) {
	t := s.Transform()
	if t == nil || s.Opacity <= 0 {
		return
	}
	// Unit quad -> Size, then shift so the pivot sits at the origin.
	local := [6]float64{s.Size.X, 0, 0, s.Size.Y, -s.Pivot.X * s.Size.X, -s.Pivot.Y * s.Size.Y}
	c := s.Color
	c.A *= s.Opacity
	batch.Add(RenderCommand{
		Type:      CommandSprite,
		Transform: multiplyAffine(t.WorldMatrix(), local),
		Color:     c,
		BlendMode: s.BlendMode,
		Layer:     s.Layer,
		Texture:   s.Texture,
		ObjectID:  s.GameObject().ID(),
	})
}

// ApplyProperties implements PropertyApplier.
func (s *SpriteRenderer) ApplyProperties(props map[string]any) error {
	if v, ok := props["texture"].(string); ok {
		s.Texture = v
	}
	if err := propVec2(props, "size", &s.Size); err != nil {
		return err
	}
	if err := propVec2(props, "pivot", &s.Pivot); err != nil {
		return err
	}
	if err := propColor(props, "color", &s.Color); err != nil {
		return err
	}
	if err := propFloat(props, "opacity", &s.Opacity); err != nil {
		return err
	}
	return propInt(props, "layer", &s.Layer)
}

// --- TextRenderer ---

// TextRenderer draws Text at the owner's world position.
type TextRenderer struct {
	ManagedComponent

	Text  string
	Color Color
	Layer int
}

// Reset implements Resetter.
func (r *TextRenderer) Reset() {
	r.Text = ""
	r.Color = ColorWhite
	r.Layer = 0
}

// Render implements RenderContributor.
func (r *TextRenderer) Render(batch *RenderBatch, lag float64) {
	t := r.Transform()
	if t == nil || r.Text == "" {
		return
	}
	batch.Add(RenderCommand{
		Type:      CommandText,
		Transform: t.WorldMatrix(),
		Color:     r.Color,
		Layer:     r.Layer,
		Text:      r.Text,
		ObjectID:  r.GameObject().ID(),
	})
}

// ApplyProperties implements PropertyApplier.
func (r *TextRenderer) ApplyProperties(props map[string]any) error {
	if v, ok := props["text"].(string); ok {
		r.Text = v
	}
	if err := propColor(props, "color", &r.Color); err != nil {
		return err
	}
	return propInt(props, "layer", &r.Layer)
}
