package cmd

import (
	"fmt"
	"os"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/stego"
	"github.com/spf13/cobra"
)

// DefineExtractCommand recovers a previously embedded payload.
func DefineExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "extract <stego.mp3>",
		Short:        "Recover a payload embedded by the embed command",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runExtract,
	}

	cmd.Flags().StringP("out", "o", "", "output path; defaults to recovered.<ext>")
	cmd.Flags().Int("bits-per-frame", 4, "per-frame carrier bit cap, must match the value used for embed")
	cmd.Flags().String("key", "", "stego key used for embed")
	cmd.Flags().Bool("vigenere", false, "whether embed XORed the payload body")
	cmd.Flags().Float64("mask-percentile", 0.60, "global-gain masking percentile, must match the value used for embed")
	cmd.Flags().Int("max-frames", 0, "cap the number of frames scanned, 0 for unbounded")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts, err := optionsFromFlags(cmd, "")
	opts.Fraction = 1.0
	if err != nil {
		return err
	}

	body, ext, err := stego.Extract(data, opts)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		outPath = "recovered"
		if ext != "" {
			outPath += "." + ext
		}
	}

	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s (%d bytes, ext=%q)\n", outPath, len(body), ext)
	return nil
}
