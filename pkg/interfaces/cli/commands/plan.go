package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsinha/lineplan/pkg/application/dto"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/interfaces/cli/output"
)

func newPlanCommand(a *app) *cobra.Command {
	var line string

	cmd := &cobra.Command{
		Use:   "plan [ORDER=LINE ...]",
		Short: "Commit orders to lines and print the resulting line schedules",
		Long: `Plan places each ORDER=LINE assignment in the order given, each one after
the line's last planned item. With --line, every pending order is placed on that
line in due date order instead. Assignments that fail are reported and do not
stop the rest.`,
		Example: `  lineplan plan O1=L1 O2=L1 O3=L2
  lineplan plan --line L1 --at 2025-06-02T06:00:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if line == "" && len(args) == 0 {
				return fmt.Errorf("nothing to plan: give ORDER=LINE assignments or --line")
			}

			env, err := a.newEnvironment()
			if err != nil {
				return err
			}
			now, err := a.now()
			if err != nil {
				return err
			}

			assignments, err := parseAssignments(args)
			if err != nil {
				return err
			}
			if line != "" {
				pending, err := env.orders.GetOrdersByStatus(entities.Pending)
				if err != nil {
					return err
				}
				for _, order := range pending {
					assignments = append(assignments, dto.Assignment{OrderID: order.ID, LineID: entities.LineID(line)})
				}
			}

			result, err := env.scheduler.PlanAssignments(context.Background(), assignments, now)
			if err != nil {
				return err
			}

			report := output.PlanReport{Lanes: env.lanes(), Result: result, PlanTime: now}
			if err := output.WritePlan(cmd.OutOrStdout(), a.cfg.OutputFormat, report); err != nil {
				return err
			}
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d of %d assignment(s) not placed: %w", len(result.Failures), len(assignments), result.Err())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&line, "line", "l", "", "Place every pending order on this line, earliest due first")
	return cmd
}

func parseAssignments(args []string) ([]dto.Assignment, error) {
	assignments := make([]dto.Assignment, 0, len(args))
	for _, arg := range args {
		order, line, ok := strings.Cut(arg, "=")
		if !ok || order == "" || line == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected ORDER=LINE", arg)
		}
		assignments = append(assignments, dto.Assignment{
			OrderID: entities.OrderID(strings.TrimSpace(order)),
			LineID:  entities.LineID(strings.TrimSpace(line)),
		})
	}
	return assignments, nil
}
