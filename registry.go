package dieselcore

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ModuleDestroyer releases shader modules. *CoreDevice implements it.
type ModuleDestroyer interface {
	DestroyShaderModule(module ShaderModule)
}

// Registry is the arena of live shaders keyed by identity. It owns the GPU
// module of every entry: removing an entry through Delete destroys its module.
// It is safe for concurrent use.
//
// An identity is either free, reserved by a load in progress, or registered.
// Reserve claims a free identity; Commit or Abort settle the reservation.
type Registry struct {
	mu       sync.Mutex
	shaders  map[Identity]Shader
	reserved map[Identity]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		shaders:  make(map[Identity]Shader),
		reserved: make(map[Identity]struct{}),
	}
}

// Register adds shader unless its identity is reserved or present.
func (r *Registry) Register(shader Shader) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(shader.ID) {
		return false
	}
	r.shaders[shader.ID] = shader
	return true
}

// Reserve claims id for a load in progress. It reports false when id is
// already reserved or registered.
func (r *Registry) Reserve(id Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(id) {
		return false
	}
	r.reserved[id] = struct{}{}
	return true
}

// Commit registers shader under the reservation of its identity. It reports
// false when shader.ID was not reserved.
func (r *Registry) Commit(shader Shader) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reserved[shader.ID]; !ok {
		return false
	}
	delete(r.reserved, shader.ID)
	r.shaders[shader.ID] = shader
	return true
}

// Abort releases the reservation of id.
func (r *Registry) Abort(id Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reserved, id)
}

func (r *Registry) taken(id Identity) bool {
	if _, ok := r.shaders[id]; ok {
		return true
	}
	_, ok := r.reserved[id]
	return ok
}

// Contains reports whether id is registered. Reservations do not count.
func (r *Registry) Contains(id Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.shaders[id]
	return ok
}

// Lookup returns a copy of the entry.
func (r *Registry) Lookup(id Identity) (Shader, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	shader, ok := r.shaders[id]
	return shader, ok
}

// Delete destroys the module of id and drops the entry. Unknown identities
// are ignored.
func (r *Registry) Delete(device ModuleDestroyer, id Identity) bool {
	r.mu.Lock()
	shader, ok := r.shaders[id]
	delete(r.shaders, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	device.DestroyShaderModule(shader.Module)
	return true
}

// DeleteAll destroys every module in identity order.
func (r *Registry) DeleteAll(device ModuleDestroyer) int {
	ids := r.Identities()
	for _, id := range ids {
		r.Delete(device, id)
	}
	return len(ids)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shaders)
}

// Identities lists the registered identities in ascending order.
func (r *Registry) Identities() []Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := maps.Keys(r.shaders)
	slices.Sort(ids)
	return ids
}
