package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param describes one tool parameter.
type Param struct {
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     string    `json:"default,omitempty"`
}

// ParameterSpec maps parameter names to their descriptions. It is only
// read after registration.
type ParameterSpec map[string]Param

// Names returns the parameter names sorted, required ones first.
func (s ParameterSpec) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := s[names[i]].Required, s[names[j]].Required
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})
	return names
}

// ToolDefinition is a named, schema-described operation.
type ToolDefinition struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Params      ParameterSpec `json:"inputSchema"`
}

// Args holds validated, string-coerced arguments.
type Args map[string]string

// Handler executes a tool with validated arguments.
type Handler func(ctx context.Context, args Args) Result

// Entry binds a definition to its handler.
type Entry struct {
	Definition ToolDefinition
	Handler    Handler
}

// Validate checks raw arguments against the spec and returns them coerced
// to strings with defaults applied. Unknown arguments are dropped.
func (s ParameterSpec) Validate(raw map[string]any) (Args, error) {
	args := make(Args, len(s))
	var missing []string
	for _, name := range s.Names() {
		p := s[name]
		v, present := raw[name]
		if !present || v == nil {
			if p.Required {
				missing = append(missing, name)
			} else if p.Default != "" {
				args[name] = p.Default
			}
			continue
		}

		str, err := coerce(p.Type, v)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		if p.Required && strings.TrimSpace(str) == "" {
			missing = append(missing, name)
			continue
		}
		if len(p.Enum) > 0 {
			if str == "" && p.Default != "" {
				str = p.Default
			}
			if !containsFold(p.Enum, str) {
				return nil, fmt.Errorf("argument %q: %q is not one of %s", name, str, strings.Join(p.Enum, ", "))
			}
			str = strings.ToLower(str)
		}
		args[name] = str
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required argument(s): %s", strings.Join(missing, ", "))
	}
	return args, nil
}

func coerce(t ParamType, v any) (string, error) {
	switch t {
	case TypeNumber:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return "", err
		}
		return cast.ToString(f), nil
	case TypeBoolean:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return "", err
		}
		return cast.ToString(b), nil
	default:
		switch v.(type) {
		case map[string]any, []any:
			return "", fmt.Errorf("expected %s, got %T", t, v)
		}
		return cast.ToStringE(v)
	}
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
