package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mrcvol/pkg/convert"
	"mrcvol/pkg/geometry"
	"mrcvol/pkg/mrc"
)

// infoCommand prints the header of a map.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <map.mrc>",
		Short: "Print the header and statistics of a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(c.Out, m.Header.String())
			if len(m.Extended) > 0 {
				fmt.Fprintf(c.Out, "extended header: %d bytes\n", len(m.Extended))
			}
			if m.Spacing > 0 {
				fmt.Fprintf(c.Out, "pixel spacing: %g\n", m.Spacing)
			} else {
				fmt.Fprintln(c.Out, "pixel spacing: undefined")
			}
			return nil
		},
	}
}

// padCommand grows the box so the density keeps a minimum distance to each face.
func (c *CLI) padCommand() *cobra.Command {
	var distance float64

	cmd := &cobra.Command{
		Use:   "pad <in.mrc> <out.mrc>",
		Short: "Pad a map so the density clears every face by a distance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("distance") {
				distance = c.Config.Pad.Distance
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := geometry.Pad(m, distance)
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(args[1], out); err != nil {
				return err
			}

			prog.done("Padded map")
			if out.Data.Shape() == m.Data.Shape() {
				printInfo(c.Out, "Density already clears every face by %g", distance)
			}
			printSuccess(c.Out, "Wrote %s", args[1])
			printDetail(c.Out, "%v -> %v", m.Data.Shape(), out.Data.Shape())
			return nil
		},
	}

	cmd.Flags().Float64VarP(&distance, "distance", "d", 0, "minimum empty distance to each face, in physical units (default from config)")
	return cmd
}

// trimCommand crops a map to the bounding box of its density.
func (c *CLI) trimCommand() *cobra.Command {
	var (
		threshold float64
		margin    int
		cube      bool
	)

	cmd := &cobra.Command{
		Use:   "trim <in.mrc> <out.mrc>",
		Short: "Crop a map to the box holding density above a threshold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = c.Config.Trim.Threshold
			}
			if !cmd.Flags().Changed("margin") {
				margin = c.Config.Trim.Margin
			}
			if !cmd.Flags().Changed("cube") {
				cube = c.Config.Trim.ForceCube
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := geometry.Trim(m, threshold, margin, cube)
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(args[1], out); err != nil {
				return err
			}

			prog.done("Trimmed map")
			printSuccess(c.Out, "Wrote %s", args[1])
			printDetail(c.Out, "%v -> %v", m.Data.Shape(), out.Data.Shape())
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "lowest density kept (default from config)")
	cmd.Flags().IntVarP(&margin, "margin", "m", 0, "voxels kept around the box (default from config)")
	cmd.Flags().BoolVar(&cube, "cube", false, "centre the result in a cube")
	return cmd
}

// originCommand switches between the start-offset and float-origin conventions.
func (c *CLI) originCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "origin <in.mrc> <out.mrc>",
		Short: "Convert between start offsets and a float origin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			switch to {
			case "float":
				_, err = convert.StartToOrigin(m)
			case "start":
				_, err = convert.OriginToStart(m)
			default:
				return fmt.Errorf("invalid --to %q (must be start or float)", to)
			}
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(args[1], m); err != nil {
				return err
			}

			printSuccess(c.Out, "Wrote %s", args[1])
			h := m.Header
			printDetail(c.Out, "start %d %d %d, origin %g %g %g", h.NXStart, h.NYStart, h.NZStart, h.OriginX, h.OriginY, h.OriginZ)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "float", "target convention: start or float")
	return cmd
}
