package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mrcvol/pkg/metrics"
	"mrcvol/pkg/mrc"
	"mrcvol/pkg/visualization"
)

// compareCommand scores a map against a reference on the same grid.
func (c *CLI) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <ref.mrc> <map.mrc>",
		Short: "Report similarity metrics between two maps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := readMaps(args)
			if err != nil {
				return err
			}
			m, err := metrics.Compare(models[0].Data, models[1].Data)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Out, "Mutual Information (MI): %.4f\n", m.MI)
			fmt.Fprintf(c.Out, "Entropy Difference: %.4f\n", m.EntropyDiff)
			fmt.Fprintf(c.Out, "Root Mean Square Error (RMSE): %.6g\n", m.RMSE)
			fmt.Fprintf(c.Out, "Structural Similarity (SSIM): %.4f\n", m.SSIM)
			fmt.Fprintf(c.Out, "Correlation: %.4f\n", m.Correlation)
			return nil
		},
	}
}

// previewCommand writes every slice along an axis as an image.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		axis    string
		format  string
		quality int
	)

	cmd := &cobra.Command{
		Use:   "preview <map.mrc> <dir>",
		Short: "Save orthogonal slices of a map as images",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = c.Config.Preview.Format
			}
			if !cmd.Flags().Changed("quality") {
				quality = c.Config.Preview.Quality
			}
			switch visualization.Format(format) {
			case visualization.FormatJPEG, visualization.FormatPNG:
			default:
				return fmt.Errorf("invalid --format %q (must be jpg or png)", format)
			}

			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			viewer := visualization.NewViewer(m.Data)
			viewer.Format = visualization.Format(format)
			viewer.Quality = quality

			n, err := viewer.SaveSliceSequence(axis, args[1])
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Saved %d slices to %s", n, args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&axis, "axis", "a", "z", "slice axis: x, y or z")
	cmd.Flags().StringVarP(&format, "format", "f", "", "image format: jpg or png (default from config)")
	cmd.Flags().IntVarP(&quality, "quality", "q", 0, "JPEG quality (default from config)")
	return cmd
}
