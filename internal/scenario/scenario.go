// Package scenario holds named end-to-end scenarios built from the outliner
// helpers, and a Runner that executes them on fresh browser pages.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
)

// Env is what a scenario runs against.
type Env struct {
	Session *outliner.Session
	// GraphDir is the graph folder for graph scenarios. Empty means the
	// scenario seeds a temporary one.
	GraphDir string
	Rand     *randutil.Rand
}

// Func is a scenario body.
type Func func(ctx context.Context, env *Env) error

// Scenario is a named Func.
type Scenario struct {
	Name        string
	Description string
	Run         Func
}

// Registry maps names to scenarios.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]Scenario)}
}

// Register adds s. Names must be unique and non-empty.
func (r *Registry) Register(s Scenario) error {
	name := strings.TrimSpace(s.Name)
	if name == "" || s.Run == nil {
		return errs.New(errs.InvalidArgument, "scenario needs a name and a body")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scenarios[name]; exists {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("scenario %q already registered", name))
	}
	s.Name = name
	r.scenarios[name] = s
	return nil
}

// Lookup returns the scenario called name.
func (r *Registry) Lookup(name string) (Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[strings.TrimSpace(name)]
	return s, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named scenarios in the given order, or every
// scenario in name order when names is empty. Unknown names are an error.
func (r *Registry) Select(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		names = r.Names()
	}
	out := make([]Scenario, 0, len(names))
	var unknown []string
	for _, name := range names {
		s, ok := r.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, s)
	}
	if len(unknown) > 0 {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown scenarios: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(r.Names(), ", ")))
	}
	return out, nil
}

var defaultRegistry = NewRegistry()

// Register adds s to the default registry.
func Register(s Scenario) error {
	return defaultRegistry.Register(s)
}

// Lookup finds a scenario in the default registry.
func Lookup(name string) (Scenario, bool) {
	return defaultRegistry.Lookup(name)
}

// Names lists the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

// Select picks scenarios from the default registry.
func Select(names []string) ([]Scenario, error) {
	return defaultRegistry.Select(names)
}
