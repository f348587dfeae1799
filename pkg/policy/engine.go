package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-policy-agent/opa/rego"
	"github.com/rs/zerolog"
)

// Engine evaluates Rego policies against rendered template documents.
type Engine struct {
	logger   zerolog.Logger
	policies []Policy
}

// NewEngine creates a policy engine preloaded with the built-in
// policies.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger:   logger.With().Str("component", "policy-engine").Logger(),
		policies: BuiltinPolicies(),
	}
}

// Add registers an additional policy.
func (e *Engine) Add(p Policy) {
	e.policies = append(e.policies, p)
}

// LoadPaths loads .rego policy files from the given files or
// directories and registers them.
func (e *Engine) LoadPaths(paths []string) error {
	loaded, err := loadFromPaths(paths)
	if err != nil {
		return err
	}
	e.policies = append(e.policies, loaded...)
	e.logger.Info().Int("count", len(loaded)).Msg("Policies loaded")
	return nil
}

// Evaluate runs every enabled policy's deny rules against the
// template document and aggregates the findings. The template passes
// when no error-severity violation was produced.
func (e *Engine) Evaluate(ctx context.Context, template map[string]any) (*Result, error) {
	result := &Result{Allowed: true}

	for i := range e.policies {
		p := &e.policies[i]
		if !p.Enabled {
			continue
		}

		violations, err := e.evaluatePolicy(ctx, p, template)
		if err != nil {
			return nil, fmt.Errorf("evaluating policy %s: %w", p.Name, err)
		}
		result.Violations = append(result.Violations, violations...)
	}

	for _, v := range result.Violations {
		if v.Severity == SeverityError {
			result.Allowed = false
			break
		}
	}
	return result, nil
}

// evaluatePolicy queries one policy's deny set.
func (e *Engine) evaluatePolicy(ctx context.Context, p *Policy, template map[string]any) ([]Violation, error) {
	query := fmt.Sprintf("data.%s.deny", packageName(p.Rego))

	r := rego.New(
		rego.Module(p.Name, p.Rego),
		rego.Query(query),
		rego.Input(template),
	)
	results, err := r.Eval(ctx)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, result := range results {
		for _, expr := range result.Expressions {
			denySet, ok := expr.Value.([]any)
			if !ok {
				continue
			}
			for _, entry := range denySet {
				violations = append(violations, e.toViolation(p, entry))
			}
		}
	}
	return violations, nil
}

// toViolation converts one deny entry into a Violation. Entries may
// be plain strings or objects with message/severity/resource keys.
func (e *Engine) toViolation(p *Policy, entry any) Violation {
	v := Violation{Policy: p.Name, Severity: p.Severity}
	if v.Severity == "" {
		v.Severity = SeverityError
	}

	switch val := entry.(type) {
	case string:
		v.Message = val
	case map[string]any:
		if msg, ok := val["message"].(string); ok {
			v.Message = msg
		}
		if resource, ok := val["resource"].(string); ok {
			v.Resource = resource
		}
		if severity, ok := val["severity"].(string); ok {
			v.Severity = Severity(severity)
		}
	default:
		v.Message = fmt.Sprintf("%v", entry)
	}
	return v
}

// packageName extracts the package path from Rego source.
func packageName(src string) string {
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			if fields := strings.Fields(trimmed); len(fields) >= 2 {
				return fields[1]
			}
		}
	}
	return "vapor.policies"
}
