// ABOUTME: Cobra command tree for the voicepool binary
// ABOUTME: Root command with shared flags plus demo, listen, manifest and version subcommands
package cli

import (
	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every subcommand
type options struct {
	configPath string
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "voicepool",
		Short:         "Fixed-capacity voice pool audio engine",
		Long:          `voicepool plays clips through a fixed pool of voices, following moving sources in 3D and reclaiming voices as they finish.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ./voicepool.yaml or ~/.config/voicepool/voicepool.yaml)")
	root.PersistentFlags().String("log-file", "voicepool.log", "Log file path")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		newDemoCommand(opts),
		newListenCommand(),
		newManifestCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree with os.Args
func Execute() error {
	return NewRootCommand().Execute()
}
