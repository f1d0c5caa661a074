package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yamlv2 "gopkg.in/yaml.v2"

	"github.com/facetkit/facet/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init",
	Aliases: []string{"i"},
	Short:   "Scaffold a .facet.yml configuration file",
	RunE:    runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing .facet.yml")
}

func runInit(cmd *cobra.Command, args []string) error {
	const path = ".facet.yml"
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	scaffold, err := yamlv2.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("marshaling default configuration: %w", err)
	}
	if err := os.WriteFile(path, scaffold, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
