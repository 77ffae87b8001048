package tools

import "fmt"

// Registry holds the tool table. It is built once and never changes.
type Registry struct {
	entries []Entry
	byName  map[string]int
}

// NewRegistry builds a registry from a static table. Names must be unique
// and every entry needs a handler.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{byName: make(map[string]int, len(entries))}
	for _, e := range entries {
		name := e.Definition.Name
		if name == "" {
			return nil, fmt.Errorf("tool definition without a name")
		}
		if e.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", name)
		}
		if _, dup := r.byName[name]; dup {
			return nil, fmt.Errorf("duplicate tool name: %s", name)
		}
		r.byName[name] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r, nil
}

// List returns the tool definitions in registration order.
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, len(r.entries))
	for i, e := range r.entries {
		defs[i] = e.Definition
	}
	return defs
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}
