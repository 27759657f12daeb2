// ABOUTME: manifest subcommand
// ABOUTME: Generates a clip manifest from an asset directory
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Resonate-Protocol/voicepool-go/pkg/loader"
)

func newManifestCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "manifest [asset-root]",
		Short: "Generate a clip manifest from a directory of audio files",
		Long:  `Walk an asset directory and write a YAML manifest mapping clip names to asset paths. Names keep only letters, digits and underscores from the file name.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "assets"
			if len(args) == 1 {
				root = args[0]
			}

			m, err := loader.GenerateManifest(root)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create manifest: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := m.Write(w); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d clips to %s\n", len(m.Clips), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write the manifest to a file instead of stdout")
	return cmd
}
