package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

// Version is the facet release version, overridable at build time with
// -ldflags "-X github.com/facetkit/facet/cmd.Version=...".
var Version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	format := LookupString(cmd.Flags(), "format")
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]string{
			"version":  Version,
			"go":       goruntime.Version(),
			"platform": goruntime.GOOS + "/" + goruntime.GOARCH,
		})
	case "text":
		fmt.Printf("facet %s (%s, %s/%s)\n", Version, goruntime.Version(), goruntime.GOOS, goruntime.GOARCH)
		return nil
	default:
		return ValidateFormat(format, []string{"text", "json"})
	}
}
