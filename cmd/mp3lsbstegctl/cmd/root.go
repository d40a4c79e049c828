package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "mp3lsbstegctl"

// Execute builds the root command tree and runs it against os.Args.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - MP3 bit-domain steganography toolkit",
	}

	rootCmd.AddCommand(DefineCapacityCommand())
	rootCmd.AddCommand(DefineEmbedCommand())
	rootCmd.AddCommand(DefineExtractCommand())
	rootCmd.AddCommand(DefineFramesCommand())

	return rootCmd.Execute()
}
