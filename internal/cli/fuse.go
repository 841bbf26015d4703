package cli

import (
	"github.com/spf13/cobra"

	"mrcvol/pkg/fusion"
	"mrcvol/pkg/mrc"
)

// readMaps loads every path in order, stopping at the first failure.
func readMaps(paths []string) ([]*mrc.Model, error) {
	models := make([]*mrc.Model, 0, len(paths))
	for _, p := range paths {
		m, err := mrc.ReadFile(p)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// fuseCommand blends maps after matching their histograms to the first.
func (c *CLI) fuseCommand() *cobra.Command {
	var (
		output  string
		epsilon float64
	)

	cmd := &cobra.Command{
		Use:   "fuse -o <out.mrc> <ref.mrc> <map.mrc>...",
		Short: "Fuse maps on the same grid, favouring the denser source per voxel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("epsilon") {
				epsilon = c.Config.Fusion.Epsilon
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			models, err := readMaps(args)
			if err != nil {
				return err
			}
			fused, err := fusion.FuseEpsilon(models, epsilon)
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(output, fused); err != nil {
				return err
			}

			prog.done("Fused maps")
			printSuccess(c.Out, "Fused %d maps into %s", len(models), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output map")
	cmd.Flags().Float64Var(&epsilon, "epsilon", 0, "stand-in for exact zeros (default from config)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// sumCommand adds maps voxel by voxel.
func (c *CLI) sumCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sum -o <out.mrc> <map.mrc>...",
		Short: "Add maps on the same grid voxel by voxel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := readMaps(args)
			if err != nil {
				return err
			}
			total, err := fusion.Sum(models)
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(output, total); err != nil {
				return err
			}
			printSuccess(c.Out, "Summed %d maps into %s", len(models), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output map")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
