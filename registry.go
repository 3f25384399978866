package celeste

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ComponentFactory creates a component on g and returns it, or nil.
type ComponentFactory func(g *GameObject) Component

// ComponentRegistry maps names to component factories. Prefabs and scripts
// create components through it.
type ComponentRegistry struct {
	factories map[string]ComponentFactory
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{factories: make(map[string]ComponentFactory)}
}

// Register adds a factory under name. It returns false on a duplicate name.
func (r *ComponentRegistry) Register(name string, factory ComponentFactory) bool {
	if factory == nil {
		debugFail("nil factory for component %q", name)
		return false
	}
	if _, exists := r.factories[name]; exists {
		debugFail("component %q already registered", name)
		return false
	}
	r.factories[name] = factory
	return true
}

// RegisterComponent registers T under name using AddComponent as the factory.
func RegisterComponent[T any, PT interface {
	*T
	Component
}](r *ComponentRegistry, name string) bool {
	return r.Register(name, func(g *GameObject) Component {
		c := AddComponent[T, PT](g)
		if c == nil {
			return nil
		}
		return c
	})
}

// Has reports whether name is registered.
func (r *ComponentRegistry) Has(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// Remove unregisters name. It returns false if name was not registered.
func (r *ComponentRegistry) Remove(name string) bool {
	if _, ok := r.factories[name]; !ok {
		return false
	}
	delete(r.factories, name)
	return true
}

// Names returns the registered names in sorted order.
func (r *ComponentRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create runs the factory for name on g. Returns nil for an unknown name.
func (r *ComponentRegistry) Create(name string, g *GameObject) Component {
	factory, ok := r.factories[name]
	if !ok {
		return nil
	}
	return factory(g)
}

// --- Scriptable objects ---

// ScriptableObject is a named data asset created by type name, typically
// loaded from YAML.
type ScriptableObject interface {
	Name() string
	setName(name string)
}

// ScriptableObjectBase is embedded by scriptable object types.
type ScriptableObjectBase struct {
	name string
}

func (s *ScriptableObjectBase) Name() string        { return s.name }
func (s *ScriptableObjectBase) setName(name string) { s.name = name }

// ScriptableObjectRegistry maps type names to scriptable object factories.
type ScriptableObjectRegistry struct {
	factories map[string]func() ScriptableObject
}

// NewScriptableObjectRegistry creates an empty registry.
func NewScriptableObjectRegistry() *ScriptableObjectRegistry {
	return &ScriptableObjectRegistry{factories: make(map[string]func() ScriptableObject)}
}

// RegisterScriptableObject registers T under typeName. It returns false on a
// duplicate name.
func RegisterScriptableObject[T any, PT interface {
	*T
	ScriptableObject
}](r *ScriptableObjectRegistry, typeName string) bool {
	if _, exists := r.factories[typeName]; exists {
		debugFail("scriptable object type %q already registered", typeName)
		return false
	}
	r.factories[typeName] = func() ScriptableObject { return PT(new(T)) }
	return true
}

// Has reports whether typeName is registered.
func (r *ScriptableObjectRegistry) Has(typeName string) bool {
	_, ok := r.factories[typeName]
	return ok
}

// Create returns a new object of typeName with the given name, or nil for an
// unknown type.
func (r *ScriptableObjectRegistry) Create(typeName, name string) ScriptableObject {
	factory, ok := r.factories[typeName]
	if !ok {
		return nil
	}
	obj := factory()
	obj.setName(name)
	return obj
}

// scriptableHeader is the part of an asset file that selects the factory.
type scriptableHeader struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// Decode creates an object from YAML data. The "type" field selects the
// factory; the remaining fields are decoded into the object.
func (r *ScriptableObjectRegistry) Decode(data []byte) (ScriptableObject, error) {
	var hdr scriptableHeader
	if err := yaml.Unmarshal(data, &hdr); err != nil {
		return nil, fmt.Errorf("parse scriptable object header: %w", err)
	}
	obj := r.Create(hdr.Type, hdr.Name)
	if obj == nil {
		return nil, fmt.Errorf("unknown scriptable object type %q", hdr.Type)
	}
	if err := yaml.Unmarshal(data, obj); err != nil {
		return nil, fmt.Errorf("decode %s %q: %w", hdr.Type, hdr.Name, err)
	}
	return obj, nil
}

// Load reads and decodes the asset at path.
func (r *ScriptableObjectRegistry) Load(path string) (ScriptableObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scriptable object %s: %w", path, err)
	}
	obj, err := r.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return obj, nil
}
