package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/facetkit/facet/internal/compiler"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List all discovered components",
	Long: `List the components found in the configured scan paths, with their
template variants and formats.

Examples:
  facet list               # Table output
  facet list -f json       # JSON output
  facet list -f yaml       # YAML output`,
	RunE: runList,
}

var listFlags *OutputFlags

func init() {
	rootCmd.AddCommand(listCmd)
	listFlags = AddOutputFlags(listCmd)
}

// listEntry is the serializable view of one component.
type listEntry struct {
	Name     string   `json:"name" yaml:"name"`
	Package  string   `json:"package" yaml:"package"`
	Path     string   `json:"path" yaml:"path"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
	Formats  []string `json:"formats,omitempty" yaml:"formats,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := ValidateFormat(listFlags.Format, []string{"table", "json", "yaml"}); err != nil {
		return err
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}

	entries, err := collectEntries(cmd.Context(), rt)
	if err != nil {
		return err
	}

	switch listFlags.Format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(entries)
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPACKAGE\tVARIANTS\tFORMATS")
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				entry.Name, entry.Package,
				strings.Join(entry.Variants, ","), strings.Join(entry.Formats, ","))
		}
		return w.Flush()
	}
}

// collectEntries builds the component listing from discovery output without
// compiling anything; listing must work even when a template set is invalid.
func collectEntries(ctx context.Context, rt *runtime) ([]listEntry, error) {
	components := rt.registry.GetAll()
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		info := components[name]
		descriptors, err := rt.scanner.Descriptors(info)
		if err != nil {
			return nil, err
		}

		variants := make(map[string]struct{})
		formats := make(map[string]struct{})
		for _, d := range descriptors {
			if d.Variant != "" {
				variants[d.Variant] = struct{}{}
			}
			if d.Format != "" {
				formats[d.Format] = struct{}{}
			} else {
				formats[compiler.FormatHTML] = struct{}{}
			}
		}

		entries = append(entries, listEntry{
			Name:     info.Name,
			Package:  info.Package,
			Path:     info.FilePath,
			Variants: sortedSet(variants),
			Formats:  sortedSet(formats),
		})
	}
	return entries, nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
