package features

import (
	"fmt"
	"sort"
	"sync"

	"github.com/m-wu/EMDAT/internal/aoi"
)

// Definition describes a registered feature. Scalar features set Compute.
// AOI features set AOI, or FromAOI when the feature expands into one column
// per source AOI.
type Definition struct {
	Name        string
	Description string
	// Default features are exported when a request does not name any.
	Default bool

	Compute func(c *Context) Value
	AOI     func(c *AOIContext) Value
	FromAOI func(c *AOIContext, src int) Value
}

// Info is a summary of a registered feature.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

// Registry holds feature definitions keyed by name.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. A definition with the same name is replaced
// but keeps its original catalog position.
func (r *Registry) Register(def *Definition) error {
	set := 0
	for _, ok := range []bool{def.Compute != nil, def.AOI != nil, def.FromAOI != nil} {
		if ok {
			set++
		}
	}
	if def.Name == "" || set != 1 {
		return fmt.Errorf("feature %q: need a name and exactly one compute function", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

func (r *Registry) mustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// List returns summaries of all definitions sorted by name.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.defs))
	for _, def := range r.defs {
		infos = append(infos, Info{Name: def.Name, Description: def.Description, Default: def.Default})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Defaults returns the names of default features in catalog order.
func (r *Registry) Defaults() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, name := range r.order {
		if r.defs[name].Default {
			out = append(out, name)
		}
	}
	return out
}

// AOIContext is a Context narrowed to one AOI of the input.
type AOIContext struct {
	*Context
	Index int
}

// Area returns the AOI being computed.
func (c *AOIContext) Area() *aoi.AOI {
	return c.in.AOIs[c.Index]
}

var (
	defaultRegistry    = sync.OnceValue(newScalarRegistry)
	defaultAOIRegistry = sync.OnceValue(newAOIRegistry)
)

// Default returns the shared registry of built-in scalar features.
func Default() *Registry { return defaultRegistry() }

// DefaultAOI returns the shared registry of built-in AOI features.
func DefaultAOI() *Registry { return defaultAOIRegistry() }
