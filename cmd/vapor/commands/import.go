package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xiaket/vapor/pkg/codegen"
)

func newImportCommand() *cobra.Command {
	var (
		packageName string
		stackName   string
	)

	cmd := &cobra.Command{
		Use:   "import <template>...",
		Short: "Convert existing CloudFormation templates into Go definitions",
		Long: `Convert one or more CloudFormation templates (.json, .yml or
.yaml, long-form intrinsic functions only) into Go source files built
on pkg/model and pkg/fn.

Each template produces a <stem>-<timestamp>.go file next to it. The
generated stack definition is a starting point: rename the stack and
restructure the resources to taste.`,
		Example: `  # Convert a template
  vapor import template.yaml

  # Convert into a named package
  vapor import --package stacks template.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := importTemplate(path, packageName, stackName); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&packageName, "package", "main", "package name of the generated files")
	cmd.Flags().StringVar(&stackName, "stack-name", "", "definition name of the generated stack")

	return cmd
}

func importTemplate(path, packageName, stackName string) error {
	doc, err := codegen.ParseFile(path)
	if err != nil {
		return err
	}

	source, err := codegen.Generate(doc, codegen.Options{
		Package:   packageName,
		Source:    filepath.Base(path),
		StackName: stackName,
	})
	if err != nil {
		return fmt.Errorf("generating source for %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outName := fmt.Sprintf("%s-%s.go", stem, time.Now().Format("2006-01-02-15-04-05"))
	outPath := filepath.Join(filepath.Dir(path), outName)
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("destination file exists: %s", outPath)
	}
	if err := os.WriteFile(outPath, source, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	log.Info().Str("template", path).Str("output", outPath).Msg("Template imported")
	return nil
}
