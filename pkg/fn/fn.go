package fn

// Node is implemented by expression values that render to an
// intrinsic-function form in the final template document.
type Node interface {
	// Render returns the document representation of the node.
	Render() (any, error)
}

// form describes how a function's arguments are laid out in the
// rendered document. CloudFormation is not uniform here: some
// functions take a bare value, most take an ordered list, and a
// couple have their own shapes.
type form int

const (
	// formBare renders the single argument as-is.
	formBare form = iota

	// formList renders the arguments as an ordered list.
	formList

	// formSub renders a bare template string when there are no
	// variable bindings, or a [template, bindings] pair when there
	// are.
	formSub

	// formNamed renders a {"Name": ..., "Parameters": ...} object
	// (Fn::Transform).
	formNamed
)

// call is the single node type behind every intrinsic function
// constructor. The function name plus argument form pin the exact
// rendered shape.
type call struct {
	name     string
	form     form
	args     []any
	bindings map[string]any
}

// Render resolves the call's arguments and wraps them under the
// function's "Fn::<Name>" key.
func (c call) Render() (any, error) {
	key := "Fn::" + c.name

	switch c.form {
	case formBare:
		arg, err := Resolve(c.args[0])
		if err != nil {
			return nil, err
		}
		return map[string]any{key: arg}, nil

	case formSub:
		if len(c.bindings) == 0 {
			return map[string]any{key: c.args[0]}, nil
		}
		bindings, err := Resolve(c.bindings)
		if err != nil {
			return nil, err
		}
		return map[string]any{key: []any{c.args[0], bindings}}, nil

	case formNamed:
		params, err := Resolve(c.bindings)
		if err != nil {
			return nil, err
		}
		return map[string]any{key: map[string]any{
			"Name":       c.args[0],
			"Parameters": params,
		}}, nil

	default:
		args := make([]any, 0, len(c.args))
		for _, a := range c.args {
			resolved, err := Resolve(a)
			if err != nil {
				return nil, err
			}
			args = append(args, resolved)
		}
		return map[string]any{key: args}, nil
	}
}

// ref renders to {"Ref": target}.
type ref struct {
	target string
}

func (r ref) Render() (any, error) {
	return map[string]any{"Ref": r.target}, nil
}

// Ref returns a node referencing a parameter or resource by logical
// name.
func Ref(target string) Node {
	return ref{target: target}
}

// Base64 returns an Fn::Base64 node encoding value.
func Base64(value any) Node {
	return call{name: "Base64", form: formBare, args: []any{value}}
}

// Cidr returns an Fn::Cidr node deriving cidrBits-sized address
// blocks from ipBlock.
func Cidr(ipBlock, count, cidrBits any) Node {
	return call{name: "Cidr", form: formList, args: []any{ipBlock, count, cidrBits}}
}

// And returns an Fn::And condition over the given conditions, in
// order.
func And(conditions ...any) Node {
	return call{name: "And", form: formList, args: conditions}
}

// Equals returns an Fn::Equals condition comparing lhs and rhs.
func Equals(lhs, rhs any) Node {
	return call{name: "Equals", form: formList, args: []any{lhs, rhs}}
}

// If returns an Fn::If node selecting trueValue or falseValue based
// on the named condition.
func If(condition, trueValue, falseValue any) Node {
	return call{name: "If", form: formList, args: []any{condition, trueValue, falseValue}}
}

// Not returns an Fn::Not condition negating condition.
func Not(condition any) Node {
	return call{name: "Not", form: formList, args: []any{condition}}
}

// Or returns an Fn::Or condition over the given conditions, in order.
func Or(conditions ...any) Node {
	return call{name: "Or", form: formList, args: conditions}
}

// FindInMap returns an Fn::FindInMap node looking up a value in the
// stack's Mappings section.
func FindInMap(mapName, topLevelKey, secondLevelKey any) Node {
	return call{name: "FindInMap", form: formList, args: []any{mapName, topLevelKey, secondLevelKey}}
}

// GetAtt returns an Fn::GetAtt node reading an attribute of a
// resource.
func GetAtt(logicalName, attribute any) Node {
	return call{name: "GetAtt", form: formList, args: []any{logicalName, attribute}}
}

// GetAZs returns an Fn::GetAZs node listing availability zones for
// region.
func GetAZs(region any) Node {
	return call{name: "GetAZs", form: formBare, args: []any{region}}
}

// ImportValue returns an Fn::ImportValue node importing an exported
// output of another stack.
func ImportValue(export any) Node {
	return call{name: "ImportValue", form: formBare, args: []any{export}}
}

// Join returns an Fn::Join node concatenating elements with
// delimiter.
func Join(delimiter string, elements ...any) Node {
	return call{name: "Join", form: formList, args: []any{delimiter, elements}}
}

// Select returns an Fn::Select node picking one element from a list.
func Select(index, elements any) Node {
	return call{name: "Select", form: formList, args: []any{index, elements}}
}

// Split returns an Fn::Split node splitting target on delimiter.
func Split(delimiter string, target any) Node {
	return call{name: "Split", form: formList, args: []any{delimiter, target}}
}

// Sub returns an Fn::Sub node substituting variables in template.
// With nil or empty bindings the node renders as a bare template
// string; otherwise it renders as a [template, bindings] pair.
func Sub(template string, bindings map[string]any) Node {
	return call{name: "Sub", form: formSub, args: []any{template}, bindings: bindings}
}

// Transform returns an Fn::Transform node invoking a macro by name
// with the given parameters.
func Transform(name string, parameters map[string]any) Node {
	return call{name: "Transform", form: formNamed, args: []any{name}, bindings: parameters}
}
