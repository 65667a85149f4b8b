package schema

import (
	"encoding/json"
	"fmt"
)

// ValidationError reports which parameter failed validation and why.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Reason)
}

// Validate checks raw arguments against the schema and returns a fully
// defaulted argument map. Validation is total and synchronous: it performs no
// I/O and either accepts the whole argument set or rejects it with the first
// offending parameter.
//
// Fields present in raw but not declared in the schema are ignored.
func (s InputSchema) Validate(raw map[string]any) (map[string]any, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	args := make(map[string]any, len(s.Params))
	for _, p := range s.Params {
		v, present := raw[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, &ValidationError{Param: p.Name, Reason: "required parameter is missing"}
			}
			if p.Default != nil {
				args[p.Name] = p.Default
			}
			continue
		}

		narrowed, err := narrow(p, v)
		if err != nil {
			return nil, err
		}
		args[p.Name] = narrowed
	}

	return args, nil
}

// narrow checks v against the parameter's declared kind and constraints and
// returns the type-narrowed value.
func narrow(p Param, v any) (any, error) {
	switch p.Kind {
	case KindString:
		str, ok := v.(string)
		if !ok {
			return nil, &ValidationError{Param: p.Name, Reason: "must be a string"}
		}
		return str, nil

	case KindEnum:
		str, ok := v.(string)
		if !ok {
			return nil, &ValidationError{Param: p.Name, Reason: "must be a string"}
		}
		for _, allowed := range p.Enum {
			if str == allowed {
				return str, nil
			}
		}
		return nil, &ValidationError{
			Param:  p.Name,
			Reason: fmt.Sprintf("must be one of %v, got %q", p.Enum, str),
		}

	case KindNumber:
		num, ok := toFloat(v)
		if !ok {
			return nil, &ValidationError{Param: p.Name, Reason: "must be a number"}
		}
		if p.Minimum != nil && num < *p.Minimum {
			return nil, &ValidationError{
				Param:  p.Name,
				Reason: fmt.Sprintf("must be >= %v", *p.Minimum),
			}
		}
		if p.Maximum != nil && num > *p.Maximum {
			return nil, &ValidationError{
				Param:  p.Name,
				Reason: fmt.Sprintf("must be <= %v", *p.Maximum),
			}
		}
		return num, nil

	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &ValidationError{Param: p.Name, Reason: "must be an object"}
		}
		return obj, nil

	default:
		return nil, &ValidationError{
			Param:  p.Name,
			Reason: fmt.Sprintf("unsupported parameter kind %q", p.Kind),
		}
	}
}

// toFloat converts the numeric representations produced by JSON decoding and
// by direct Go callers to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
