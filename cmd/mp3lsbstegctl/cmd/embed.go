package cmd

import (
	"fmt"
	"os"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/stego"
	"github.com/spf13/cobra"
)

// DefineEmbedCommand embeds a payload file into a carrier MP3.
func DefineEmbedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "embed <carrier.mp3> <payload-file>",
		Short:        "Embed a payload into an MP3's Huffman main-data region",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         runEmbed,
	}

	cmd.Flags().StringP("out", "o", "stego.mp3", "output path for the stego MP3")
	cmd.Flags().Int("bits-per-frame", 4, "per-frame carrier bit cap (1-8)")
	cmd.Flags().String("key", "", "stego key seeding the carrier selector")
	cmd.Flags().Bool("vigenere", false, "XOR the payload body with key before embedding")
	cmd.Flags().Float64("fraction", 1.0, "fraction of candidate positions to take per frame")
	cmd.Flags().Float64("mask-percentile", 0.60, "global-gain masking percentile, negative disables masking")
	cmd.Flags().Int("max-frames", 0, "cap the number of frames scanned, 0 for unbounded")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	carrierPath, payloadPath := args[0], args[1]

	carrier, err := os.ReadFile(carrierPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", carrierPath, err)
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", payloadPath, err)
	}

	opts, err := optionsFromFlags(cmd, "")
	if err != nil {
		return err
	}

	out, err := stego.Embed(carrier, payload, payloadPath, opts)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	outPath, _ := cmd.Flags().GetString("out")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s (%d bytes)\n", outPath, len(out))
	return nil
}
