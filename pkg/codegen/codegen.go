package codegen

import (
	"encoding/json"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Options configures source generation.
type Options struct {
	// Package is the package name of the generated file. Defaults to
	// "main".
	Package string

	// Source is the original template file name, recorded in the
	// generated header.
	Source string

	// StackName is the definition name of the generated stack.
	// Defaults to "ImportedStack".
	StackName string
}

// ParseFile reads a template file and parses it by extension:
// .json as JSON, .yml/.yaml as YAML.
func ParseFile(path string) (map[string]any, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: template file must end in .json, .yml or .yaml", path)
	}
	return doc, nil
}

// Generate turns a parsed template document into Go source declaring
// each resource and the stack. The output is gofmt-formatted.
func Generate(doc map[string]any, opts Options) ([]byte, error) {
	resources, ok := doc["Resources"].(map[string]any)
	if !ok || len(resources) == 0 {
		return nil, fmt.Errorf("template has no Resources section")
	}
	if opts.Package == "" {
		opts.Package = "main"
	}
	if opts.StackName == "" {
		opts.StackName = "ImportedStack"
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)

	e := &emitter{}
	var decls []string
	var vars []string
	for _, name := range names {
		decl, varName, err := generateResource(e, name, resources[name])
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
		vars = append(vars, varName)
	}

	stackDecl, err := generateStack(e, doc, opts.StackName, vars)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by vapor import from %s; review and rename before use.\n\n", opts.Source)
	fmt.Fprintf(&b, "package %s\n\n", opts.Package)
	b.WriteString("import (\n")
	if e.usesFn {
		b.WriteString("\t\"github.com/xiaket/vapor/pkg/fn\"\n")
	}
	b.WriteString("\t\"github.com/xiaket/vapor/pkg/model\"\n")
	b.WriteString(")\n\n")
	b.WriteString(strings.Join(decls, "\n"))
	b.WriteString("\n")
	b.WriteString(stackDecl)

	formatted, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated source: %w", err)
	}
	return formatted, nil
}

// generateResource renders one resource declaration and returns it
// with the variable name it was bound to.
func generateResource(e *emitter, logicalName string, raw any) (string, string, error) {
	data, ok := raw.(map[string]any)
	if !ok {
		return "", "", fmt.Errorf("resource %s: malformed fragment", logicalName)
	}
	kind, ok := data["Type"].(string)
	if !ok {
		return "", "", fmt.Errorf("resource %s: missing Type", logicalName)
	}
	segments := strings.Split(kind, "::")
	if len(segments) != 3 {
		return "", "", fmt.Errorf("resource %s: malformed type %q", logicalName, kind)
	}

	descriptor := fmt.Sprintf("model.AWS(%q, %q)", segments[1], segments[2])
	if segments[0] != "AWS" {
		descriptor = fmt.Sprintf("model.Descriptor{Provider: %q, Service: %q, Resource: %q}",
			segments[0], segments[1], segments[2])
	}

	properties, _ := data["Properties"].(map[string]any)
	fields, err := generateFields(e, properties)
	if err != nil {
		return "", "", fmt.Errorf("resource %s: %w", logicalName, err)
	}

	varName := lowerCamel(logicalName)
	decl := fmt.Sprintf("var %s = model.NewResource(%q, %s, %s)\n",
		varName, logicalName, descriptor, fields)
	return decl, varName, nil
}

func generateFields(e *emitter, properties map[string]any) (string, error) {
	if len(properties) == 0 {
		return "model.Fields{}", nil
	}
	keys := make([]string, 0, len(properties))
	for key := range properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("model.Fields{\n")
	for _, key := range keys {
		rendered, err := e.value(properties[key], 1)
		if err != nil {
			return "", fmt.Errorf("field %s: %w", key, err)
		}
		fmt.Fprintf(&b, "\t%q: %s,\n", key, rendered)
	}
	b.WriteString("}")
	return b.String(), nil
}

// sections that transfer verbatim from the template to the stack
// definition, in output order.
var passthroughSections = []string{
	"Parameters", "Mappings", "Conditions", "Outputs", "Rules", "Metadata",
}

func generateStack(e *emitter, doc map[string]any, stackName string, vars []string) (string, error) {
	var b strings.Builder
	b.WriteString("// NewStack returns the imported stack definition.\n")
	b.WriteString("func NewStack() *model.Stack {\n")
	b.WriteString("\treturn &model.Stack{\n")
	fmt.Fprintf(&b, "\t\tName: %q,\n", stackName)
	if description, ok := doc["Description"].(string); ok {
		fmt.Fprintf(&b, "\t\tDescription: %q,\n", description)
	}
	fmt.Fprintf(&b, "\t\tResources: []*model.Resource{%s},\n", strings.Join(vars, ", "))

	for _, section := range passthroughSections {
		raw, ok := doc[section].(map[string]any)
		if !ok {
			continue
		}
		rendered, err := e.mapping(raw, 2)
		if err != nil {
			return "", fmt.Errorf("section %s: %w", section, err)
		}
		fmt.Fprintf(&b, "\t\t%s: %s,\n", section, rendered)
	}
	if transform, ok := doc["Transform"]; ok {
		rendered, err := e.value(transform, 2)
		if err != nil {
			return "", fmt.Errorf("section Transform: %w", err)
		}
		fmt.Fprintf(&b, "\t\tTransform: %s,\n", rendered)
	}

	b.WriteString("\t}\n}\n")
	return b.String(), nil
}

// lowerCamel converts a logical name to a Go variable name.
func lowerCamel(name string) string {
	runes := []rune(name)
	for i := range runes {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	out := string(runes)
	switch out {
	// Guard against collisions with the generated imports.
	case "fn", "model":
		return out + "Resource"
	}
	return out
}
