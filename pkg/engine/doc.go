// Package engine reconciles a declarative stack definition against
// its live CloudFormation stack through the changeset workflow.
//
// A deploy renders the definition, stages a changeset against the
// remote stack, waits for the diff to be computed, and then either
// executes it, discards it (dry run), or returns early when the diff
// is empty. A delete tears the remote stack down. Both operations run
// an ordered hook pipeline before and after the remote work.
//
// The engine performs no internal parallelism and has no built-in
// timeouts: polling loops block at a fixed interval until the remote
// operation reaches a terminal state. Callers needing bounded waits
// pass a context with a deadline; cancellation is honored between
// polls. Mutual exclusion for concurrent operations on the same stack
// is left to CloudFormation itself, which rejects overlapping
// changeset operations.
package engine
