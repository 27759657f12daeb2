// ABOUTME: version subcommand
// ABOUTME: Prints product and version
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/voicepool-go/internal/version"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", version.Product, version.Version, version.Manufacturer)
			return err
		},
	}
}
