package engine

import "strings"

// Status is a remote stack status as reported by CloudFormation, plus
// the synthetic StatusDoesNotExist the engine substitutes when the
// remote system reports the stack as unknown. The exact vocabulary is
// provider-defined; the engine only classifies it.
type Status string

// StatusDoesNotExist is never returned by the remote API. It is
// synthesized locally from the "stack does not exist" validation
// error so callers see a status instead of a fake failure.
const StatusDoesNotExist Status = "DOES_NOT_EXIST"

// rollbackTerminal are the complete-looking states that mean the last
// operation was rolled back and the stack is not what was asked for.
var rollbackTerminal = map[Status]bool{
	"ROLLBACK_COMPLETE":        true,
	"UPDATE_ROLLBACK_COMPLETE": true,
}

// Exists reports whether the stack is present remotely at all.
func (s Status) Exists() bool {
	return s != StatusDoesNotExist
}

// IsTerminal reports whether the status is a resting state: the stack
// is gone, or the last operation has fully finished (successfully or
// not).
func (s Status) IsTerminal() bool {
	if s == StatusDoesNotExist {
		return true
	}
	return strings.HasSuffix(string(s), "FAILED") || strings.HasSuffix(string(s), "COMPLETE")
}

// IsFailure reports whether a terminal status represents a failed
// operation. Rollback-terminal states count as failures even though
// they end in COMPLETE.
func (s Status) IsFailure() bool {
	return rollbackTerminal[s] || strings.HasSuffix(string(s), "FAILED")
}
