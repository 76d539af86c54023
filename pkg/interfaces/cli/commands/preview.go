package commands

import (
	"github.com/spf13/cobra"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/interfaces/cli/output"
)

func newPreviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview ORDER LINE",
		Short: "Show where an order would land on a line without committing it",
		Long: `Preview computes the placement of ORDER after the last planned item on LINE
and prints its start, end, setup, run and total minutes. Nothing is written,
so running it twice gives the same answer.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.newEnvironment()
			if err != nil {
				return err
			}
			now, err := a.now()
			if err != nil {
				return err
			}

			order, err := env.orders.GetOrder(entities.OrderID(args[0]))
			if err != nil {
				return err
			}
			proposal, err := env.scheduler.ComputePlacement(order, entities.LineID(args[1]), now)
			if err != nil {
				return err
			}
			return output.WritePreview(cmd.OutOrStdout(), a.cfg.OutputFormat, proposal)
		},
	}
}
