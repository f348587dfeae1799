package codegen

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// emitter renders parsed template values as Go expressions and
// remembers whether any fn constructor was emitted, so the generated
// imports stay minimal.
type emitter struct {
	usesFn bool
}

// value renders v as a Go expression. Single-key maps whose key is
// "Ref" or "Fn::<Name>" become fn constructor calls; everything else
// becomes a literal.
func (e *emitter) value(v any, indent int) (string, error) {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10), nil
		}
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	case []any:
		return e.list(val, indent)
	case map[string]any:
		if len(val) == 1 {
			for key, arg := range val {
				if key == "Ref" {
					target, ok := arg.(string)
					if !ok {
						return "", fmt.Errorf("Ref target must be a string, got %T", arg)
					}
					e.usesFn = true
					return fmt.Sprintf("fn.Ref(%q)", target), nil
				}
				if strings.HasPrefix(key, "Fn::") {
					return e.call(strings.TrimPrefix(key, "Fn::"), arg, indent)
				}
			}
		}
		return e.mapping(val, indent)
	case nil:
		return "", fmt.Errorf("null values are not representable in a definition")
	default:
		return "", fmt.Errorf("invalid data type in template: %T (%v)", v, v)
	}
}

func (e *emitter) list(items []any, indent int) (string, error) {
	if len(items) == 0 {
		return "[]any{}", nil
	}
	var b strings.Builder
	b.WriteString("[]any{\n")
	for _, item := range items {
		rendered, err := e.value(item, indent+1)
		if err != nil {
			return "", err
		}
		b.WriteString(tabs(indent+1) + rendered + ",\n")
	}
	b.WriteString(tabs(indent) + "}")
	return b.String(), nil
}

func (e *emitter) mapping(m map[string]any, indent int) (string, error) {
	if len(m) == 0 {
		return "map[string]any{}", nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("map[string]any{\n")
	for _, key := range keys {
		rendered, err := e.value(m[key], indent+1)
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%s%q: %s,\n", tabs(indent+1), key, rendered))
	}
	b.WriteString(tabs(indent) + "}")
	return b.String(), nil
}

// call renders one Fn::<name> construct as the matching fn
// constructor. The argument layout mirrors each function's rendered
// form.
func (e *emitter) call(name string, arg any, indent int) (string, error) {
	e.usesFn = true

	switch name {
	case "Base64", "GetAZs", "ImportValue":
		rendered, err := e.value(arg, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.%s(%s)", name, rendered), nil

	case "And", "Or":
		args, err := e.argList(name, arg, 0, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.%s(%s)", name, strings.Join(args, ", ")), nil

	case "Not":
		args, err := e.argList(name, arg, 1, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.Not(%s)", args[0]), nil

	case "Equals", "Select", "Split":
		args, err := e.argList(name, arg, 2, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.%s(%s, %s)", name, args[0], args[1]), nil

	case "Cidr", "If", "FindInMap":
		args, err := e.argList(name, arg, 3, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.%s(%s, %s, %s)", name, args[0], args[1], args[2]), nil

	case "GetAtt":
		// GetAtt accepts both the two-element list and the dotted
		// string form.
		if dotted, ok := arg.(string); ok {
			parts := strings.SplitN(dotted, ".", 2)
			if len(parts) != 2 {
				return "", fmt.Errorf("Fn::GetAtt: malformed target %q", dotted)
			}
			return fmt.Sprintf("fn.GetAtt(%q, %q)", parts[0], parts[1]), nil
		}
		args, err := e.argList(name, arg, 2, indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.GetAtt(%s, %s)", args[0], args[1]), nil

	case "Join":
		list, ok := arg.([]any)
		if !ok || len(list) != 2 {
			return "", fmt.Errorf("Fn::Join: expected [delimiter, elements]")
		}
		delimiter, err := e.value(list[0], indent)
		if err != nil {
			return "", err
		}
		elements, ok := list[1].([]any)
		if !ok {
			return "", fmt.Errorf("Fn::Join: elements must be a list")
		}
		args := make([]string, 0, len(elements))
		for _, element := range elements {
			rendered, err := e.value(element, indent)
			if err != nil {
				return "", err
			}
			args = append(args, rendered)
		}
		return fmt.Sprintf("fn.Join(%s, %s)", delimiter, strings.Join(args, ", ")), nil

	case "Sub":
		if template, ok := arg.(string); ok {
			return fmt.Sprintf("fn.Sub(%q, nil)", template), nil
		}
		list, ok := arg.([]any)
		if !ok || len(list) != 2 {
			return "", fmt.Errorf("Fn::Sub: expected a string or [template, bindings]")
		}
		template, err := e.value(list[0], indent)
		if err != nil {
			return "", err
		}
		bindings, err := e.value(list[1], indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.Sub(%s, %s)", template, bindings), nil

	case "Transform":
		m, ok := arg.(map[string]any)
		if !ok {
			return "", fmt.Errorf("Fn::Transform: expected {Name, Parameters}")
		}
		macro, ok := m["Name"].(string)
		if !ok {
			return "", fmt.Errorf("Fn::Transform: Name must be a string")
		}
		params, err := e.value(m["Parameters"], indent)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fn.Transform(%q, %s)", macro, params), nil
	}

	return "", fmt.Errorf("unknown intrinsic function Fn::%s", name)
}

// argList renders a fixed- or variable-arity argument list. want 0
// means any number of arguments.
func (e *emitter) argList(name string, arg any, want, indent int) ([]string, error) {
	list, ok := arg.([]any)
	if !ok {
		return nil, fmt.Errorf("Fn::%s: expected an argument list", name)
	}
	if want != 0 && len(list) != want {
		return nil, fmt.Errorf("Fn::%s: expected %d arguments, got %d", name, want, len(list))
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		rendered, err := e.value(item, indent)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return out, nil
}

func tabs(n int) string {
	return strings.Repeat("\t", n)
}
