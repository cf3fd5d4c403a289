package runtime

import (
	"fmt"
	"sort"
	"sync"
)

// Handler is one runnable pipeline. Run reports its outcome through the
// job context; the returned error is reserved for faults in the runner
// contract itself.
type Handler interface {
	Type() string
	Run(jc *Context) error
}

type Registry struct {
	mu        sync.RWMutex
	pipelines map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[string]Handler)}
}

func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("register: nil pipeline")
	}
	t := h.Type()
	if t == "" {
		return fmt.Errorf("register: pipeline has empty type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.pipelines[t]; dup {
		return fmt.Errorf("register: pipeline %q already registered", t)
	}
	r.pipelines[t] = h
	return nil
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.pipelines[jobType]
	return h, ok
}

// Types returns the registered pipeline types in sorted order, so callers
// that run everything do so deterministically.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.pipelines))
	for t := range r.pipelines {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
