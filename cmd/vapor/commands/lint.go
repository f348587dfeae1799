package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaket/vapor/pkg/codegen"
	"github.com/xiaket/vapor/pkg/policy"
)

func newLintCommand() *cobra.Command {
	var policyPaths []string

	cmd := &cobra.Command{
		Use:   "lint <template>...",
		Short: "Check rendered templates against OPA policies",
		Long: `Evaluate rendered template files against the built-in policies
plus any additional .rego files. Error-severity violations make the
command fail, the same way the pre-deploy policy hook aborts a
deploy.`,
		Example: `  # Lint with the built-in policies
  vapor lint template.yaml

  # Add custom rules
  vapor lint --policy ./policies template.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}

			engine := policy.NewEngine(logger)
			if len(policyPaths) > 0 {
				if err := engine.LoadPaths(policyPaths); err != nil {
					return err
				}
			}

			failed := false
			for _, path := range args {
				doc, err := codegen.ParseFile(path)
				if err != nil {
					return err
				}
				result, err := engine.Evaluate(cmd.Context(), doc)
				if err != nil {
					return err
				}
				if violations := result.Violations; len(violations) > 0 {
					fmt.Printf("%s:\n%s\n", path, policy.FormatViolations(violations))
				}
				if !result.Allowed {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("policy check failed")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&policyPaths, "policy", nil, "additional .rego policy files or directories")

	return cmd
}
