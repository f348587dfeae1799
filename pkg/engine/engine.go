package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiaket/vapor/pkg/model"
	"github.com/xiaket/vapor/pkg/telemetry"
)

// Polling cadence. Changesets are usually computed within seconds;
// stack operations take as long as the slowest resource.
const (
	defaultChangesetInterval = 3 * time.Second
	defaultStackInterval     = 5 * time.Second
)

// emptyChangesetReasons are the two failure reasons CloudFormation
// uses for a changeset that computed no differences. Both are
// classified as "zero changes", not as errors.
var emptyChangesetReasons = []string{
	"didn't contain changes",
	"No updates are to be performed.",
}

// Engine drives the change-based reconciliation of stack definitions
// against CloudFormation.
type Engine struct {
	api   API
	log   zerolog.Logger
	hooks Hooks

	recorder Recorder
	metrics  *telemetry.Metrics

	changesetInterval time.Duration
	stackInterval     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger handle. The default is a disabled
// logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithHooks replaces the hook registry. Most callers start from
// DefaultHooks and append.
func WithHooks(hooks Hooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithRecorder sets the deployment-history recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPollIntervals overrides the fixed polling intervals. Intended
// for tests; production deploys have no reason to poll faster.
func WithPollIntervals(changeset, stack time.Duration) Option {
	return func(e *Engine) {
		e.changesetInterval = changeset
		e.stackInterval = stack
	}
}

// New creates an engine on top of a CloudFormation client.
func New(api API, opts ...Option) *Engine {
	e := &Engine{
		api:               api,
		log:               zerolog.Nop(),
		hooks:             DefaultHooks(),
		changesetInterval: defaultChangesetInterval,
		stackInterval:     defaultStackInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Status returns the remote status of the named stack. The remote
// "stack does not exist" validation error is translated into the
// synthetic StatusDoesNotExist instead of being propagated.
func (e *Engine) Status(ctx context.Context, name string) (Status, error) {
	out, err := e.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(name),
	})
	if err != nil {
		if isStackNotFound(err) {
			return StatusDoesNotExist, nil
		}
		return "", fmt.Errorf("describing stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 {
		return StatusDoesNotExist, nil
	}
	return Status(out.Stacks[0].StackStatus), nil
}

// Exists reports whether the named stack exists remotely.
func (e *Engine) Exists(ctx context.Context, name string) (bool, error) {
	status, err := e.Status(ctx, name)
	if err != nil {
		return false, err
	}
	return status.Exists(), nil
}

// Deploy reconciles the stack definition against its remote stack.
// With dryrun the staged changeset is shown and discarded, leaving no
// remote side effects. With wait the call blocks until the stack
// reaches a terminal state and fails if that state is a rollback or
// failure.
func (e *Engine) Deploy(ctx context.Context, stack *model.Stack, dryrun, wait bool) error {
	if err := stack.DeployOptions.Validate(); err != nil {
		return err
	}

	session := &Session{engine: e, stack: stack}
	if err := e.runHooks(ctx, "pre_deploy", e.hooks.PreDeploy, session, dryrun, wait); err != nil {
		return err
	}

	started := time.Now()
	changeset, err := e.deploy(ctx, stack, dryrun, wait)
	e.record(ctx, stack.RemoteName(), ActionDeploy, changeset, dryrun, started, err)
	e.metrics.ObserveDeploy(stack.RemoteName(), dryrun, time.Since(started), err)
	if err != nil {
		return err
	}

	return e.runHooks(ctx, "post_deploy", e.hooks.PostDeploy, session, dryrun, wait)
}

// deploy stages a changeset, classifies it, and applies or discards
// it. It returns the changeset name for the audit record.
func (e *Engine) deploy(ctx context.Context, stack *model.Stack, dryrun, wait bool) (string, error) {
	name := stack.RemoteName()

	isNew, changeset, err := e.stageChangeset(ctx, stack)
	if err != nil {
		return changeset, err
	}
	action := "Updating"
	if isNew {
		action = "Creating"
	}
	e.log.Info().Str("stack", name).Str("changeset", changeset).Msgf("%s stack", action)

	changes, err := e.waitChangeset(ctx, name, changeset)
	if err != nil {
		return changeset, err
	}
	if len(changes) == 0 {
		e.log.Info().Str("stack", name).Msg("No change in stack")
		return changeset, nil
	}
	e.log.Info().Str("stack", name).Str("changeset", changeset).Msg("Changes in changeset:\n" + FormatChanges(changes))

	if dryrun {
		if _, err := e.api.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
			ChangeSetName: aws.String(changeset),
			StackName:     aws.String(name),
		}); err != nil {
			return changeset, fmt.Errorf("discarding changeset %s: %w", changeset, err)
		}
		if isNew {
			// Staging a CREATE changeset leaves an empty stack shell
			// in REVIEW_IN_PROGRESS; a dry run must not leave it
			// behind.
			if _, err := e.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{
				StackName: aws.String(name),
			}); err != nil {
				return changeset, fmt.Errorf("deleting empty stack %s: %w", name, err)
			}
		}
		e.log.Info().Str("stack", name).Msg("Skipping deployment as this is a dry run")
		return changeset, nil
	}

	e.log.Info().Str("stack", name).Str("changeset", changeset).Msg("Executing changeset")
	if _, err := e.api.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		ChangeSetName: aws.String(changeset),
		StackName:     aws.String(name),
	}); err != nil {
		return changeset, fmt.Errorf("executing changeset %s: %w", changeset, err)
	}
	if wait {
		return changeset, e.waitStack(ctx, name)
	}
	return changeset, nil
}

// Delete removes the remote stack. A dry run performs no remote
// mutation at all.
func (e *Engine) Delete(ctx context.Context, stack *model.Stack, dryrun, wait bool) error {
	session := &Session{engine: e, stack: stack}
	if err := e.runHooks(ctx, "pre_delete", e.hooks.PreDelete, session, dryrun, wait); err != nil {
		return err
	}

	started := time.Now()
	err := e.delete(ctx, stack.RemoteName(), dryrun, wait)
	e.record(ctx, stack.RemoteName(), ActionDelete, "", dryrun, started, err)
	if err != nil {
		return err
	}

	return e.runHooks(ctx, "post_delete", e.hooks.PostDelete, session, dryrun, wait)
}

func (e *Engine) delete(ctx context.Context, name string, dryrun, wait bool) error {
	if dryrun {
		e.log.Info().Str("stack", name).Msg("Skipping deletion as this is a dry run")
		return nil
	}

	e.log.Info().Str("stack", name).Msg("Deleting stack")
	if _, err := e.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(name),
	}); err != nil {
		return fmt.Errorf("deleting stack %s: %w", name, err)
	}
	if wait {
		return e.waitStack(ctx, name)
	}
	return nil
}

// stageChangeset renders the stack and submits a changeset for it:
// type UPDATE when the stack already exists, CREATE otherwise. It
// returns whether this is a new stack plus the generated changeset
// name.
func (e *Engine) stageChangeset(ctx context.Context, stack *model.Stack) (bool, string, error) {
	name := stack.RemoteName()

	exists, err := e.Exists(ctx, name)
	if err != nil {
		return false, "", err
	}
	changesetType := types.ChangeSetTypeUpdate
	if !exists {
		changesetType = types.ChangeSetTypeCreate
	}

	body, err := stack.YAML()
	if err != nil {
		return !exists, "", err
	}

	parameters := make([]types.Parameter, 0, len(stack.DeployOptions.Parameters))
	for key, value := range stack.DeployOptions.Parameters {
		parameters = append(parameters, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(value),
		})
	}
	tags := make([]types.Tag, 0, len(stack.DeployOptions.Tags))
	for key, value := range stack.DeployOptions.Tags {
		tags = append(tags, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(value),
		})
	}
	capabilities := make([]types.Capability, 0, len(stack.DeployOptions.Capabilities))
	for _, c := range stack.DeployOptions.Capabilities {
		capabilities = append(capabilities, types.Capability(c))
	}

	changeset := newChangesetName(time.Now())
	e.log.Info().Str("stack", name).Str("changeset", changeset).Msg("Creating changeset")

	if _, err := e.api.CreateChangeSet(ctx, &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(name),
		ChangeSetName: aws.String(changeset),
		ChangeSetType: changesetType,
		TemplateBody:  aws.String(body),
		Parameters:    parameters,
		Tags:          tags,
		Capabilities:  capabilities,
	}); err != nil {
		return !exists, changeset, &StackError{
			StackName: name,
			Op:        "stage-changeset",
			Reason:    err.Error(),
		}
	}
	return !exists, changeset, nil
}

// waitChangeset polls the changeset until it is ready or failed. A
// failure for one of the recognized "nothing to change" reasons
// returns an empty change list; any other failure is fatal and
// carries the remote reason. On success every page of the change list
// is drained before returning, since a partial read would corrupt the
// empty-diff classification.
func (e *Engine) waitChangeset(ctx context.Context, stackName, changeset string) ([]types.Change, error) {
	input := &cloudformation.DescribeChangeSetInput{
		ChangeSetName: aws.String(changeset),
		StackName:     aws.String(stackName),
	}

	for {
		out, err := e.api.DescribeChangeSet(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("describing changeset %s: %w", changeset, err)
		}
		e.metrics.IncChangesetPoll(stackName)

		if out.Status == types.ChangeSetStatusFailed {
			reason := aws.ToString(out.StatusReason)
			for _, phrase := range emptyChangesetReasons {
				if strings.Contains(reason, phrase) {
					return nil, nil
				}
			}
			return nil, &StackError{
				StackName: stackName,
				Op:        "stage-changeset",
				Reason:    reason,
			}
		}

		if out.Status == types.ChangeSetStatusCreateComplete && out.ExecutionStatus == types.ExecutionStatusAvailable {
			changes := out.Changes
			for out.NextToken != nil {
				input.NextToken = out.NextToken
				out, err = e.api.DescribeChangeSet(ctx, input)
				if err != nil {
					return nil, fmt.Errorf("describing changeset %s: %w", changeset, err)
				}
				changes = append(changes, out.Changes...)
			}
			return changes, nil
		}

		e.log.Info().
			Str("status", string(out.Status)).
			Str("execution_status", string(out.ExecutionStatus)).
			Msg("Waiting for changeset")
		if err := sleepContext(ctx, e.changesetInterval); err != nil {
			return nil, err
		}
	}
}

// waitStack polls the stack until it reaches a terminal state.
// Rollback-terminal and FAILED states are classified as failures.
// A stack that stops existing terminated a delete successfully.
func (e *Engine) waitStack(ctx context.Context, name string) error {
	for {
		status, err := e.Status(ctx, name)
		if err != nil {
			return err
		}
		e.metrics.IncStackPoll(name)

		if status == StatusDoesNotExist {
			return nil
		}
		if status.IsTerminal() {
			e.log.Info().Str("stack", name).Str("status", string(status)).Msg("Stack operation finished")
			if status.IsFailure() {
				return &StackError{
					StackName: name,
					Op:        "wait-stack",
					Status:    status,
				}
			}
			return nil
		}

		e.log.Info().Str("stack", name).Str("status", string(status)).Msg("Waiting till stack operation completes")
		if err := sleepContext(ctx, e.stackInterval); err != nil {
			return err
		}
	}
}

// newChangesetName generates a unique changeset name: a timestamp for
// operator readability plus a random suffix against collisions. The
// fixed prefix keeps the name starting with a letter, as the remote
// API requires.
func newChangesetName(now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("vapor-%s-%s", now.Format("2006-01-02-15-04-05"), suffix)
}

// sleepContext blocks for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
