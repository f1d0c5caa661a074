package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// OutputFlags are the flags shared by commands that print component data.
type OutputFlags struct {
	Format  string
	Verbose bool
}

// AddOutputFlags registers the shared output flags on a command.
func AddOutputFlags(cmd *cobra.Command) *OutputFlags {
	flags := &OutputFlags{}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "table", "Output format (table|json|yaml)")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose output")
	return flags
}

// ValidateFormat checks a format flag value against the accepted set and
// suggests the closest match on typos.
func ValidateFormat(value string, accepted []string) error {
	for _, format := range accepted {
		if value == format {
			return nil
		}
	}
	suggestion := ""
	for _, format := range accepted {
		if strings.HasPrefix(format, strings.ToLower(value)) {
			suggestion = fmt.Sprintf(" (did you mean %q?)", format)
			break
		}
	}
	return fmt.Errorf("invalid format %q: must be one of %s%s",
		value, strings.Join(accepted, ", "), suggestion)
}

// LookupString reads a string flag from a flag set, tolerating its absence.
func LookupString(flags *pflag.FlagSet, name string) string {
	flag := flags.Lookup(name)
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}
