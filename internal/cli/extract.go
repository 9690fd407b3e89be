package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/video"
)

// extractCommand creates the extract command that splits a video into frames.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		output string
		opts   video.Options
	)

	cmd := &cobra.Command{
		Use:   "extract <video>",
		Short: "Extract frames from a video with ffmpeg",
		Long: `Extract frames from a video with ffmpeg.

Frames are written as numbered PNG files (frame_000001.png, ...) ready for
'macroblock generate'. Requires ffmpeg and ffprobe on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			return c.runExtract(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	cmd.Flags().Float64Var(&opts.FPS, "fps", 0, "frames per second to keep (default: every frame)")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "scale frames to this width (default: source width)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", video.DefaultPattern, "output file name pattern")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, input, output string, opts video.Options) error {
	if info, err := video.Inspect(input); err == nil {
		c.Logger.Debug("inspected video", "width", info.Width, "height", info.Height, "frames", info.Frames, "fps", info.FrameRate)
	} else {
		c.Logger.Debug("inspect failed", "error", err)
	}

	spinner := newSpinnerWithContext(ctx, "Extracting frames...")
	spinner.Start()

	n, err := video.Extract(ctx, input, output, opts)
	if err != nil {
		spinner.StopWithError("Extraction failed")
		return err
	}
	spinner.Stop()

	printSuccess("Extracted %d frame(s)", n)
	printFile(output)
	printNewline()
	printNextStep("Composite", fmt.Sprintf("%s generate %s -o %s-tampered", appName, output, output))
	return nil
}
