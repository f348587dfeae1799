package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiaket/vapor/pkg/engine"
)

// Hook wraps the policy engine as a pre-deploy hook: the rendered
// template is evaluated before anything is staged remotely, and any
// error-severity violation aborts the deploy. Warnings are logged and
// let the deploy proceed.
func Hook(e *Engine) engine.Hook {
	return engine.Hook{
		Name: "policy-lint",
		Run: func(ctx context.Context, s *engine.Session, dryrun, wait bool) error {
			template, err := s.Template()
			if err != nil {
				return err
			}

			result, err := e.Evaluate(ctx, template)
			if err != nil {
				return err
			}
			for _, v := range result.Warnings() {
				e.logger.Warn().
					Str("policy", v.Policy).
					Str("resource", v.Resource).
					Msg(v.Message)
			}
			if !result.Allowed {
				return fmt.Errorf("template for stack %s failed policy checks:\n%s",
					s.RemoteName(), FormatViolations(result.Errors()))
			}
			return nil
		},
	}
}

// DefaultHooks returns the full built-in hook pipeline: the engine's
// defaults with the policy lint hook appended to the pre-deploy
// phase. The engine cannot register the lint hook itself without
// importing this package, so callers wanting the complete default
// pipeline build their engine with
//
//	engine.New(api, engine.WithHooks(policy.DefaultHooks(pe)))
func DefaultHooks(e *Engine) engine.Hooks {
	hooks := engine.DefaultHooks()
	hooks.PreDeploy = append(hooks.PreDeploy, Hook(e))
	return hooks
}

// FormatViolations renders violations one per line for diagnostics.
func FormatViolations(violations []Violation) string {
	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		line := fmt.Sprintf("[%s] %s", v.Policy, v.Message)
		if v.Resource != "" {
			line = fmt.Sprintf("[%s] %s: %s", v.Policy, v.Resource, v.Message)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
