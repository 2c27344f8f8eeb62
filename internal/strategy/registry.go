package strategy

import (
	"fmt"
	"sort"
)

// Factory constructs a strategy instance with the given parameter overrides
// applied on top of the strategy's defaults.
type Factory func(overrides Params) Strategy

// Registry holds a keyed table of strategy constructors.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a strategy constructor under the given key.
func (r *Registry) Register(key string, f Factory) {
	r.factories[key] = f
}

// New instantiates the strategy registered under key with overrides applied.
// Override values are accepted as-is; out-of-bounds values are not rejected.
// Use NewStrict for validated construction.
func (r *Registry) New(key string, overrides Params) (Strategy, error) {
	f, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q, available: %v", key, r.List())
	}
	return f(overrides), nil
}

// NewStrict instantiates the strategy under key and rejects overrides that
// name undeclared parameters or fall outside the declared bounds.
func (r *Registry) NewStrict(key string, overrides Params) (Strategy, error) {
	s, err := r.New(key, nil)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]ParamSpec)
	for _, spec := range s.ParamSchema() {
		specs[spec.Name] = spec
	}
	for name, value := range overrides {
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("strategy %q has no parameter %q", key, name)
		}
		if value < spec.Min || value > spec.Max {
			return nil, fmt.Errorf("parameter %q = %v out of bounds [%v, %v]", name, value, spec.Min, spec.Max)
		}
	}

	s.SetParams(overrides)
	return s, nil
}

// List returns the sorted keys of all registered strategies.
func (r *Registry) List() []string {
	keys := make([]string, 0, len(r.factories))
	for key := range r.factories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Info describes a registered strategy for UI display.
type Info struct {
	Key         string      `json:"key"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []ParamSpec `json:"parameters"`
}

// Info returns display metadata and the parameter schema for one strategy.
func (r *Registry) Info(key string) (Info, error) {
	s, err := r.New(key, nil)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Key:         key,
		Name:        s.Name(),
		Description: s.Description(),
		Parameters:  s.ParamSchema(),
	}, nil
}

// Infos returns metadata for every registered strategy, sorted by key.
func (r *Registry) Infos() []Info {
	keys := r.List()
	out := make([]Info, 0, len(keys))
	for _, key := range keys {
		info, err := r.Info(key)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}
