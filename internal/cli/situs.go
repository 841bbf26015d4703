package cli

import (
	"github.com/spf13/cobra"

	"mrcvol/pkg/convert"
	"mrcvol/pkg/mrc"
)

func (c *CLI) toSitusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-situs <in.mrc> <out.situs>",
		Short: "Convert an MRC map to Situs text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mrc.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := convert.WriteSitusFile(args[1], m); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote %s", args[1])
			return nil
		},
	}
}

func (c *CLI) fromSitusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "from-situs <in.situs> <out.mrc>",
		Short: "Convert Situs text to an MRC map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := convert.ReadSitusFile(args[0])
			if err != nil {
				return err
			}
			if err := mrc.WriteFile(args[1], m); err != nil {
				return err
			}
			printSuccess(c.Out, "Wrote %s", args[1])
			printDetail(c.Out, "%v at spacing %g", m.Data.Shape(), m.Spacing)
			return nil
		},
	}
}
