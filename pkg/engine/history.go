package engine

import (
	"context"
	"time"
)

// Action is the kind of operation a deployment record describes.
type Action string

const (
	// ActionDeploy records a deploy invocation.
	ActionDeploy Action = "deploy"

	// ActionDelete records a delete invocation.
	ActionDelete Action = "delete"
)

// DeploymentRecord is one audit entry: a single deploy or delete
// attempt and its outcome.
type DeploymentRecord struct {
	// StackName is the remote stack name.
	StackName string

	// Changeset is the changeset name staged for the attempt, empty
	// for deletes.
	Changeset string

	// Action is deploy or delete.
	Action Action

	// DryRun records whether the attempt was a dry run.
	DryRun bool

	// Succeeded records the outcome.
	Succeeded bool

	// Error is the failure message, empty on success.
	Error string

	// StartedAt and FinishedAt bound the attempt.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Recorder persists deployment records. The engine treats recording
// as best effort: a recorder failure is logged, never surfaced to the
// caller, since the remote operation itself already finished.
type Recorder interface {
	RecordDeployment(ctx context.Context, rec *DeploymentRecord) error
}

// record writes an audit entry for a finished operation, if a
// recorder is configured.
func (e *Engine) record(ctx context.Context, stackName string, action Action, changeset string, dryrun bool, started time.Time, opErr error) {
	if e.recorder == nil {
		return
	}

	rec := &DeploymentRecord{
		StackName:  stackName,
		Changeset:  changeset,
		Action:     action,
		DryRun:     dryrun,
		Succeeded:  opErr == nil,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if opErr != nil {
		rec.Error = opErr.Error()
	}
	if err := e.recorder.RecordDeployment(ctx, rec); err != nil {
		e.log.Warn().Err(err).Str("stack", stackName).Msg("Failed to record deployment history")
	}
}
