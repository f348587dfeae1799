package policy

// Severity classifies a violation.
type Severity string

const (
	// SeverityWarning marks findings that are logged but do not block
	// a deploy.
	SeverityWarning Severity = "warning"

	// SeverityError marks findings that abort the deploy.
	SeverityError Severity = "error"
)

// Policy is one Rego module with metadata.
type Policy struct {
	// Name is the unique policy name.
	Name string

	// Description is a human-readable summary.
	Description string

	// Rego is the policy source. Its deny rules produce the
	// violations.
	Rego string

	// Severity is the default severity for violations that do not set
	// their own.
	Severity Severity

	// Enabled indicates whether the policy is evaluated.
	Enabled bool
}

// Violation is a single finding against a template.
type Violation struct {
	// Policy names the policy that produced the finding.
	Policy string

	// Resource is the logical name of the offending resource, when
	// the policy could attribute one.
	Resource string

	// Message is the human-readable diagnostic.
	Message string

	// Severity classifies the finding.
	Severity Severity
}

// Result is the outcome of evaluating all policies against one
// template.
type Result struct {
	// Allowed is false when any error-severity violation was found.
	Allowed bool

	// Violations lists every finding, warnings included.
	Violations []Violation
}

// Warnings returns the warning-severity subset of the violations.
func (r *Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarning {
			out = append(out, v)
		}
	}
	return out
}

// Errors returns the error-severity subset of the violations.
func (r *Result) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}
