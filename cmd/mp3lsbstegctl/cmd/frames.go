package cmd

import (
	"fmt"
	"os"

	"github.com/mp3lsbsteg/mp3lsbsteg/internal/mpegframe"
	"github.com/spf13/cobra"
)

// DefineFramesCommand lists the MPEG frames found in a file, grounded on
// the original tool's check_frames diagnostic.
func DefineFramesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "frames <file.mp3>",
		Short:        "List parsed MPEG frame headers",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runFrames,
	}

	cmd.Flags().Int("limit", 5, "number of frames to print, 0 for all")

	return cmd
}

func runFrames(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	frames := mpegframe.IterateFrames(data)
	fmt.Printf("[parser] frames=%d\n", len(frames))

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 || limit > len(frames) {
		limit = len(frames)
	}
	for _, f := range frames[:limit] {
		fmt.Printf("offset=%d size=%d version=%d channels=%d has_crc=%v samplerate=%d bitrate=%d\n",
			f.Offset, f.Size, f.Header.VersionID, f.Header.Channels, f.Header.HasCRC, f.Header.SampleRateHz, f.Header.BitrateBps)
	}
	return nil
}
