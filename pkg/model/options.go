package model

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validate is shared across option checks; validator instances cache
// struct metadata and are safe for concurrent use.
var validate = validator.New()

// stackNameRE is the remote system's constraint on stack names.
var stackNameRE = regexp.MustCompile(`^[a-zA-Z][-a-zA-Z0-9]*$`)

// DeployOptions carries the per-stack deployment configuration:
// an optional remote name override, parameter and tag bindings, and
// capability acknowledgements.
type DeployOptions struct {
	// Name overrides the derived remote stack name.
	Name string `validate:"omitempty,max=128"`

	// Parameters binds template parameter keys to values.
	Parameters map[string]string

	// Tags are applied to the stack and propagated to its resources.
	Tags map[string]string

	// Capabilities acknowledges capabilities the template requires,
	// e.g. CAPABILITY_IAM for templates that create IAM resources.
	Capabilities []string `validate:"omitempty,dive,oneof=CAPABILITY_IAM CAPABILITY_NAMED_IAM CAPABILITY_AUTO_EXPAND"`
}

// Validate checks the options before anything is staged remotely.
func (o DeployOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid deploy options: %w", err)
	}
	if o.Name != "" && !stackNameRE.MatchString(o.Name) {
		return fmt.Errorf("invalid deploy options: name %q must match %s", o.Name, stackNameRE)
	}
	return nil
}
