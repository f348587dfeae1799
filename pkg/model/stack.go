package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the template format version emitted in every
// rendered document.
const FormatVersion = "2010-09-09"

// ErrNoResources is returned when a stack is rendered with an empty
// resource list. A template without resources is never valid, so this
// fails before any partial document is produced.
var ErrNoResources = errors.New("stack has no resources")

// Stack is the declarative definition of one CloudFormation stack:
// an ordered list of resource definitions plus the optional template
// sections, passed through verbatim when set.
//
// A Stack is constructed per deploy/delete invocation and holds no
// state beyond what the caller supplies.
type Stack struct {
	// Name is the definition identifier. The remote stack name is
	// derived from it (see RemoteName) unless DeployOptions overrides
	// it.
	Name string

	// Description is the optional template description.
	Description string

	// Resources lists the resource definitions, in declaration order.
	// Logical names must be unique; rendering rejects collisions.
	Resources []*Resource

	// Optional template sections. A nil section is omitted from the
	// rendered document entirely, never emitted as null or empty.
	Parameters map[string]any
	Mappings   map[string]any
	Conditions map[string]any
	Outputs    map[string]any
	Rules      map[string]any
	Metadata   map[string]any

	// Transform is the optional transform section; CloudFormation
	// accepts both a single macro name and a list.
	Transform any

	// DeployOptions configures how the stack is deployed.
	DeployOptions DeployOptions
}

// RemoteName returns the name the stack is managed under remotely:
// the DeployOptions override when set, otherwise the dash-separated
// lower-case form of the definition name.
func (s *Stack) RemoteName() string {
	if s.DeployOptions.Name != "" {
		return s.DeployOptions.Name
	}
	return FormatName(s.Name)
}

// Template renders the full provisioning document. It fails with
// ErrNoResources on an empty resource list and rejects duplicate
// logical names instead of letting a later resource silently replace
// an earlier one.
func (s *Stack) Template() (map[string]any, error) {
	if len(s.Resources) == 0 {
		return nil, fmt.Errorf("stack %s: %w", s.Name, ErrNoResources)
	}

	resources := make(map[string]any, len(s.Resources))
	for _, r := range s.Resources {
		name := r.LogicalName()
		if _, exists := resources[name]; exists {
			return nil, fmt.Errorf("stack %s: duplicate logical name %q", s.Name, name)
		}
		fragment, err := r.Render()
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", s.Name, err)
		}
		resources[name] = fragment
	}

	tmplt := map[string]any{
		"AWSTemplateFormatVersion": FormatVersion,
		"Resources":                resources,
	}
	if s.Description != "" {
		tmplt["Description"] = s.Description
	}

	optionals := map[string]map[string]any{
		"Parameters": s.Parameters,
		"Mappings":   s.Mappings,
		"Conditions": s.Conditions,
		"Outputs":    s.Outputs,
		"Rules":      s.Rules,
		"Metadata":   s.Metadata,
	}
	for name, section := range optionals {
		if section != nil {
			tmplt[name] = section
		}
	}
	if s.Transform != nil {
		tmplt["Transform"] = s.Transform
	}

	return tmplt, nil
}

// JSON renders the template document as indented JSON.
func (s *Stack) JSON() (string, error) {
	tmplt, err := s.Template()
	if err != nil {
		return "", err
	}
	body, err := json.MarshalIndent(tmplt, "", "  ")
	if err != nil {
		return "", fmt.Errorf("stack %s: encoding template: %w", s.Name, err)
	}
	return string(body), nil
}

// YAML renders the template document as YAML. Both encodings carry
// identical content; YAML is what gets submitted to the remote API.
func (s *Stack) YAML() (string, error) {
	tmplt, err := s.Template()
	if err != nil {
		return "", err
	}
	body, err := yaml.Marshal(tmplt)
	if err != nil {
		return "", fmt.Errorf("stack %s: encoding template: %w", s.Name, err)
	}
	return string(body), nil
}
