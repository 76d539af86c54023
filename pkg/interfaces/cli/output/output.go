package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/application/dto"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/services"
)

const timeLayout = "2006-01-02 15:04"

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	laneColor    = color.New(color.FgCyan, color.Bold)
	actualColor  = color.New(color.FgHiBlack)
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Lane is one line's schedule as shown to a planner: the forward plan and,
// separately, what actually ran
type Lane struct {
	LineID  entities.LineID
	Planned []entities.ScheduleItem
	Actual  []entities.ScheduleItem
}

// PlanReport is everything the plan command prints
type PlanReport struct {
	Lanes    []Lane
	Result   *dto.PlanResult
	PlanTime time.Time
}

// WritePreview renders a computed placement in the given format
func WritePreview(w io.Writer, format string, p *dto.Proposal) error {
	switch format {
	case "text":
		return writePreviewText(w, p)
	case "json":
		return writeJSON(w, newProposalView(p))
	case "csv":
		return writeProposalCSV(w, p)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WritePlan renders the committed plan in the given format
func WritePlan(w io.Writer, format string, report PlanReport) error {
	switch format {
	case "text":
		return writePlanText(w, report)
	case "json":
		return writeJSON(w, newPlanView(report))
	case "csv":
		return writeScheduleCSV(w, report.Lanes)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteValidation renders snapshot problems and coverage gaps
func WriteValidation(w io.Writer, format string, problems error, coverage *services.CoverageReport) error {
	switch format {
	case "text":
		return writeValidationText(w, problems, coverage)
	case "json", "csv":
		return writeJSON(w, newValidationView(problems, coverage))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writePreviewText(w io.Writer, p *dto.Proposal) error {
	summary := p.Summary()

	headerColor.Fprintf(w, "Placement preview: order %s on line %s\n", p.OrderID, p.LineID)
	fmt.Fprintf(w, "  Product:  %s (%d packs @ %s ppm, %s rate)\n", p.ProductID, p.QuantityPacks, p.PacksPerMinute, p.RateSource)
	fmt.Fprintf(w, "  Start:    %s\n", p.StartAt.Format(timeLayout))
	fmt.Fprintf(w, "  End:      %s\n", p.EndAt.Format(timeLayout))
	fmt.Fprintf(w, "  Setup:    %d min (%s)\n", summary.SetupMinutes, p.SetupSource)
	fmt.Fprintf(w, "  Run:      %d min\n", summary.RunMinutes)
	fmt.Fprintf(w, "  Total:    %d min\n", summary.TotalMinutes)
	if p.PredecessorID != "" {
		fmt.Fprintf(w, "  After:    %s\n", p.PredecessorID)
	}
	return nil
}

func writePlanText(w io.Writer, report PlanReport) error {
	headerColor.Fprintf(w, "Line schedule as of %s\n", report.PlanTime.Format(timeLayout))
	fmt.Fprintln(w)

	for _, lane := range report.Lanes {
		laneColor.Fprintf(w, "%s\n", lane.LineID)
		if len(lane.Planned) == 0 {
			fmt.Fprintln(w, "  (no planned items)")
		} else {
			fmt.Fprintf(w, "  %-38s %-8s %-16s %-16s %-16s %6s %6s\n",
				"Item", "Order", "Product", "Start", "End", "Setup", "Run")
			for _, item := range lane.Planned {
				writeItemRow(w, nil, item)
			}
		}
		if len(lane.Actual) > 0 {
			actualColor.Fprintln(w, "  actual:")
			for _, item := range lane.Actual {
				writeItemRow(w, actualColor, item)
			}
		}
		fmt.Fprintln(w)
	}

	if report.Result == nil {
		return nil
	}
	successColor.Fprintf(w, "Placed %d order(s)\n", len(report.Result.Committed))
	if len(report.Result.Failures) > 0 {
		warningColor.Fprintf(w, "Not placed: %d\n", len(report.Result.Failures))
		for _, f := range report.Result.Failures {
			errorColor.Fprintf(w, "  %s -> %s: %v\n", f.Assignment.OrderID, f.Assignment.LineID, f.Err)
		}
	}
	return nil
}

func writeItemRow(w io.Writer, c *color.Color, item entities.ScheduleItem) {
	row := fmt.Sprintf("  %-38s %-8s %-16s %-16s %-16s %6d %6d\n",
		item.ID, item.OrderID, item.ProductID,
		item.StartAt.Format(timeLayout), item.EndAt.Format(timeLayout),
		item.SetupMinutes, item.RunMinutes)
	if c == nil {
		fmt.Fprint(w, row)
		return
	}
	c.Fprint(w, row)
}

func writeValidationText(w io.Writer, problems error, coverage *services.CoverageReport) error {
	errs := multierr.Errors(problems)
	if len(errs) == 0 {
		successColor.Fprintln(w, "Scenario is valid")
	} else {
		errorColor.Fprintf(w, "%d problem(s) found:\n", len(errs))
		for _, err := range errs {
			fmt.Fprintf(w, "  - %v\n", err)
		}
	}

	if coverage == nil || coverage.Complete() {
		return nil
	}
	warningColor.Fprintln(w, "Coverage gaps:")
	for _, gap := range coverage.MissingRates {
		fmt.Fprintf(w, "  no run rate for %s on %s\n", gap.ProductID, gap.LineID)
	}
	for _, gap := range coverage.MissingChangeovers {
		fmt.Fprintf(w, "  no changeover from %s to %s\n", gap.From, gap.To)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// ScheduleHeader matches the schedule file the CSV loader reads
var ScheduleHeader = []string{"id", "order_id", "product_id", "line_id", "start_at", "end_at", "setup_minutes", "run_minutes", "kind"}

func writeScheduleCSV(w io.Writer, lanes []Lane) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleHeader); err != nil {
		return err
	}
	for _, lane := range lanes {
		for _, items := range [][]entities.ScheduleItem{lane.Planned, lane.Actual} {
			for _, item := range items {
				if err := cw.Write(scheduleRecord(item)); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func scheduleRecord(item entities.ScheduleItem) []string {
	return []string{
		string(item.ID),
		string(item.OrderID),
		string(item.ProductID),
		string(item.LineID),
		item.StartAt.Format(time.RFC3339),
		item.EndAt.Format(time.RFC3339),
		strconv.Itoa(int(item.SetupMinutes)),
		strconv.Itoa(int(item.RunMinutes)),
		item.Kind.String(),
	}
}

func writeProposalCSV(w io.Writer, p *dto.Proposal) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{"order_id", "product_id", "line_id", "start_at", "end_at", "setup_minutes", "run_minutes", "total_minutes", "packs_per_minute", "rate_source", "setup_source"},
		{
			string(p.OrderID),
			string(p.ProductID),
			string(p.LineID),
			p.StartAt.Format(time.RFC3339),
			p.EndAt.Format(time.RFC3339),
			strconv.Itoa(int(p.SetupMinutes)),
			strconv.Itoa(int(p.RunMinutes)),
			strconv.Itoa(int(p.Summary().TotalMinutes)),
			p.PacksPerMinute.String(),
			p.RateSource,
			p.SetupSource,
		},
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
