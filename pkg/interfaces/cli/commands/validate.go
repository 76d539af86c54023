package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/domain/services"
	"github.com/vsinha/lineplan/pkg/interfaces/cli/output"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a scenario for integrity problems and coverage gaps",
		Long: `Validate loads the scenario and reports every integrity problem at once:
duplicate keys, non-positive rates, negative changeovers and unknown references.
It also lists product/line pairs with no run rate and punnet size changes with
no changeover, which would make scheduling fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.loadScenario()
			if err != nil {
				return err
			}

			validator := services.NewSnapshotValidator()
			problems := validator.Validate(data)
			coverage := validator.Coverage(data)

			if err := output.WriteValidation(cmd.OutOrStdout(), a.cfg.OutputFormat, problems, coverage); err != nil {
				return err
			}
			if problems != nil {
				return fmt.Errorf("scenario %s has %d problem(s)", a.cfg.Scenario, len(multierr.Errors(problems)))
			}
			return nil
		},
	}
}
