package engine

import (
	"context"
	"fmt"

	"github.com/xiaket/vapor/pkg/model"
)

// HookFunc is an extension point invoked around deploy/delete. Hooks
// receive the session plus the invocation's dryrun/wait flags and may
// call back into the engine through the session.
type HookFunc func(ctx context.Context, s *Session, dryrun, wait bool) error

// Hook pairs a hook function with a stable name used in logs and
// error messages.
type Hook struct {
	Name string
	Run  HookFunc
}

// Hooks is the ordered hook registry, one list per phase. Hooks run
// strictly in registration order; the first error aborts the
// remaining pipeline and the whole operation.
type Hooks struct {
	PreDeploy  []Hook
	PostDeploy []Hook
	PreDelete  []Hook
	PostDelete []Hook
}

// DefaultHooks returns the built-in pipeline: rollback cleanup before
// every deploy, nothing else.
func DefaultHooks() Hooks {
	return Hooks{
		PreDeploy: []Hook{
			{Name: "cleanup-rollback-complete", Run: CleanupRollbackComplete},
		},
	}
}

// runHooks executes one phase of the pipeline in order.
func (e *Engine) runHooks(ctx context.Context, phase string, hooks []Hook, s *Session, dryrun, wait bool) error {
	for _, h := range hooks {
		e.log.Debug().Str("phase", phase).Str("hook", h.Name).Msg("Running hook")
		if err := h.Run(ctx, s, dryrun, wait); err != nil {
			return fmt.Errorf("%s hook %s: %w", phase, h.Name, err)
		}
	}
	return nil
}

// CleanupRollbackComplete is the built-in pre-deploy hook that
// deletes a stack stranded in ROLLBACK_COMPLETE, the terminal state a
// failed initial creation leaves behind. CloudFormation refuses to
// update such a stack, so deleting it first lets the next real deploy
// recreate it instead of failing again.
func CleanupRollbackComplete(ctx context.Context, s *Session, dryrun, wait bool) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}
	if status != "ROLLBACK_COMPLETE" {
		return nil
	}
	s.engine.log.Info().Str("stack", s.RemoteName()).Msg("Deleting stack in ROLLBACK_COMPLETE state")
	if dryrun {
		return nil
	}
	return s.Delete(ctx, false, wait)
}

// Session is what hooks see: a handle on the engine scoped to the
// stack definition being deployed or deleted.
type Session struct {
	engine *Engine
	stack  *model.Stack
}

// Stack returns the stack definition the session operates on.
func (s *Session) Stack() *model.Stack {
	return s.stack
}

// RemoteName returns the stack's remote name.
func (s *Session) RemoteName() string {
	return s.stack.RemoteName()
}

// Template renders the stack's provisioning document.
func (s *Session) Template() (map[string]any, error) {
	return s.stack.Template()
}

// Status queries the remote status of the session's stack.
func (s *Session) Status(ctx context.Context) (Status, error) {
	return s.engine.Status(ctx, s.stack.RemoteName())
}

// Deploy calls back into the engine's deploy for the session's stack.
func (s *Session) Deploy(ctx context.Context, dryrun, wait bool) error {
	return s.engine.Deploy(ctx, s.stack, dryrun, wait)
}

// Delete calls back into the engine's delete for the session's stack.
func (s *Session) Delete(ctx context.Context, dryrun, wait bool) error {
	return s.engine.Delete(ctx, s.stack, dryrun, wait)
}
