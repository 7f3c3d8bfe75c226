package node

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goto/truora/domain"
)

// Registry holds the node descriptions known to the engine
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*domain.NodeDescription
}

func NewRegistry(nodes ...*domain.NodeDescription) (*Registry, error) {
	r := &Registry{nodes: map[string]*domain.NodeDescription{}}
	for _, n := range nodes {
		if err := r.Register(n); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(n *domain.NodeDescription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodes[n.Name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateNode, n.Name)
	}
	r.nodes[n.Name] = n
	return nil
}

func (r *Registry) GetNode(name string) (*domain.NodeDescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNodeNotFound, name)
	}
	return n, nil
}

// List returns all registered nodes sorted by name
func (r *Registry) List() []*domain.NodeDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.NodeDescription, 0, len(r.nodes))
	for _, n := range r.nodes {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
