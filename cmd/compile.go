package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facetkit/facet/internal/compiler"
	ferrors "github.com/facetkit/facet/internal/errors"
)

var compileForce bool

var compileCmd = &cobra.Command{
	Use:     "compile",
	Aliases: []string{"c"},
	Short:   "Compile and validate every discovered component",
	Long: `Compile every component found in the configured scan paths, in strict
mode: any validation problem fails the run, and every problem across the whole
project is reported together.

Examples:
  facet compile            # Compile everything
  facet compile --force    # Recompile even if already compiled
  facet compile Button     # Compile a single component`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVar(&compileForce, "force", false, "Recompile components already marked compiled")
}

func runCompile(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	count := rt.registry.Count()
	if count == 0 {
		fmt.Fprintln(os.Stderr, "No components found in", rt.config.Components.ScanPaths)
		return nil
	}

	ctx := cmd.Context()
	if len(args) > 0 {
		for _, name := range args {
			if err := rt.compiler.Compile(ctx, name, compiler.Options{RaiseErrors: true, Force: compileForce}); err != nil {
				return reportValidation(err)
			}
			fmt.Printf("compiled %s\n", name)
		}
		return nil
	}

	if err := rt.renderer.CompileAll(ctx, true); err != nil {
		return err
	}
	fmt.Printf("compiled %d components\n", count)
	return nil
}

// reportValidation prints one line per validation problem and returns a
// short summary, so the exit status stays nonzero without repeating the
// full message list. Non-validation errors pass through untouched.
func reportValidation(err error) error {
	var templateErr *ferrors.TemplateError
	if !stderrors.As(err, &templateErr) {
		return err
	}
	for _, msg := range templateErr.Messages {
		problem := &ferrors.ValidationError{
			Component: templateErr.Component,
			Message:   msg,
			Severity:  ferrors.SeverityError,
			Timestamp: templateErr.Timestamp,
		}
		fmt.Fprintln(os.Stderr, problem.Error())
	}
	return fmt.Errorf("%s failed validation with %d problem(s)", templateErr.Component, len(templateErr.Messages))
}
