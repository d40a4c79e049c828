package cmd

import (
	"fmt"
	"os"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/stego"
	"github.com/spf13/cobra"
)

// DefineCapacityCommand reports how many carrier bits a file can hold.
func DefineCapacityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "capacity <carrier.mp3>",
		Short:        "Report the carrier bit capacity of an MP3",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runCapacity,
	}

	cmd.Flags().Int("bits-per-frame", 0, "per-frame carrier bit cap, 0 for uncapped")
	cmd.Flags().String("key", "", "stego key seeding the carrier selector")
	cmd.Flags().Float64("fraction", 1.0, "fraction of candidate positions to take per frame")
	cmd.Flags().Float64("mask-percentile", 0.60, "global-gain masking percentile, negative disables masking")
	cmd.Flags().Int("max-frames", 0, "cap the number of frames scanned, 0 for unbounded")
	cmd.Flags().Int("payload-size", -1, "if set, also report whether a payload of this size (bytes) fits")

	return cmd
}

func runCapacity(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	opts, err := optionsFromFlags(cmd, "")
	if err != nil {
		return err
	}

	bits, err := stego.Capacity(data, opts)
	if err != nil {
		return fmt.Errorf("capacity: %w", err)
	}

	bytesAvail := bits / 8
	usable := bytesAvail - 16
	if usable < 0 {
		usable = 0
	}

	fmt.Printf("capacity_bits=%d capacity_bytes=%d header_size_bytes=16 usable_payload_bytes=%d\n", bits, bytesAvail, usable)

	payloadSize, _ := cmd.Flags().GetInt("payload-size")
	if payloadSize >= 0 {
		fits := payloadSize+16 <= bytesAvail
		fmt.Printf("payload_size=%d fits=%v\n", payloadSize, fits)
	}
	return nil
}

func optionsFromFlags(cmd *cobra.Command, secretName string) (stego.Options, error) {
	bitsPerFrame, _ := cmd.Flags().GetInt("bits-per-frame")
	key, _ := cmd.Flags().GetString("key")
	fraction, _ := cmd.Flags().GetFloat64("fraction")
	maskPercentile, _ := cmd.Flags().GetFloat64("mask-percentile")
	maxFrames, _ := cmd.Flags().GetInt("max-frames")
	vigenere := false
	if f := cmd.Flags().Lookup("vigenere"); f != nil {
		vigenere, _ = cmd.Flags().GetBool("vigenere")
	}

	return stego.Options{
		BitsPerFrame:   bitsPerFrame,
		Fraction:       fraction,
		Key:            key,
		Vigenere:       vigenere,
		MaskPercentile: maskPercentile,
		MaxFrames:      maxFrames,
	}, nil
}
