package gnosis

import "sync"

// Factory produces an uninitialized instance of a registered class. The
// decoder populates the instance attribute by attribute; no other
// initialization runs, so self-references inside the instance's own fields
// can resolve before it is complete.
type Factory func() any

// classKey identifies a registered class.
type classKey struct {
	module string
	class  string
}

// Registry maps class names to factories. It is populated by the host
// before any decode and consulted read-only by the decoder. Safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[classKey]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[classKey]Factory)}
}

// Register associates a factory with a module/class pair. Registering with
// an empty module matches that class name under any module, which covers
// handwritten documents that omit module attributes.
func (r *Registry) Register(module, class string, f Factory) {
	if class == "" || f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[classKey{module: module, class: class}] = f
}

// Lookup returns the factory for a module/class pair. An exact match wins;
// a class registered without a module matches any module.
func (r *Registry) Lookup(module, class string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.factories[classKey{module: module, class: class}]; ok {
		return f, true
	}
	f, ok := r.factories[classKey{class: class}]
	return f, ok
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Reset clears all registered classes.
// This is primarily useful for test isolation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = make(map[classKey]Factory)
}

// defaultRegistry backs the package-level registration functions. Loads
// that need isolation pass their own registry via WithRegistry.
var defaultRegistry = NewRegistry()

// Register adds a class factory to the default registry. It must be called
// before any Load that references the class.
func Register(module, class string, f Factory) {
	defaultRegistry.Register(module, class, f)
	emitClassRegistered(module, class)
}

// RegisterType adds a factory for T to the default registry. The factory
// allocates a zero T; nothing else runs before the decoder assigns fields.
func RegisterType[T any](module, class string) {
	Register(module, class, func() any { return new(T) })
}

// ResetRegistry clears the default registry.
// This is primarily useful for test isolation.
func ResetRegistry() {
	defaultRegistry.Reset()
}
