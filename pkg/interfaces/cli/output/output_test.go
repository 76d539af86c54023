package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/vsinha/lineplan/pkg/application/dto"
	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/domain/services"
)

var t0 = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)

func sampleProposal() *dto.Proposal {
	return &dto.Proposal{
		OrderID:        "O1",
		ProductID:      "strawberry-250",
		LineID:         "L1",
		QuantityPacks:  1000,
		StartAt:        t0,
		EndAt:          t0.Add(17 * time.Minute),
		SetupMinutes:   10,
		RunMinutes:     7,
		Kind:           entities.Planned,
		PacksPerMinute: decimal.NewFromInt(150),
		RateSource:     "master",
		SetupSource:    "base",
	}
}

func sampleReport() PlanReport {
	planned := entities.ScheduleItem{
		ID: "item-1", OrderID: "O1", ProductID: "strawberry-250", LineID: "L1",
		StartAt: t0, EndAt: t0.Add(17 * time.Minute), SetupMinutes: 10, RunMinutes: 7, Kind: entities.Planned,
	}
	actual := entities.ScheduleItem{
		ID: "A0", OrderID: "O4", ProductID: "strawberry-250", LineID: "L1",
		StartAt: t0.Add(-time.Hour), EndAt: t0.Add(-51 * time.Minute), RunMinutes: 9, Kind: entities.Actual,
	}
	return PlanReport{
		PlanTime: t0,
		Lanes: []Lane{
			{LineID: "L1", Planned: []entities.ScheduleItem{planned}, Actual: []entities.ScheduleItem{actual}},
			{LineID: "L2"},
		},
		Result: &dto.PlanResult{
			Committed: []entities.ScheduleItem{planned},
			Failures: []dto.AssignmentFailure{{
				Assignment: dto.Assignment{OrderID: "O2", LineID: "L3"},
				Err:        &entities.RateNotConfiguredError{ProductID: "mixed-berry-500", LineID: "L3"},
			}},
		},
	}
}

func TestWritePreview_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, "text", sampleProposal()))

	out := buf.String()
	assert.Contains(t, out, "order O1 on line L1")
	assert.Contains(t, out, "Setup:    10 min (base)")
	assert.Contains(t, out, "Run:      7 min")
	assert.Contains(t, out, "Total:    17 min")
	assert.Contains(t, out, "End:      2025-06-02 06:17")
}

func TestWritePreview_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, "json", sampleProposal()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "150", decoded["packs_per_minute"])
	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, 17.0, summary["total_minutes"])
}

func TestWritePreview_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, "csv", sampleProposal()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "O1,strawberry-250,L1,2025-06-02T06:00:00Z,2025-06-02T06:17:00Z,10,7,17,150,master,base", lines[1])
}

func TestWritePlan_TextShowsLanesAndFailures(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, "text", sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "item-1")
	assert.Contains(t, out, "actual:")
	assert.Contains(t, out, "(no planned items)")
	assert.Contains(t, out, "Placed 1 order(s)")
	assert.Contains(t, out, "O2 -> L3")
	assert.Less(t, strings.Index(out, "item-1"), strings.Index(out, "A0"), "planned items come before actual history")
}

func TestWritePlan_CSVRoundTripsScheduleFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, "csv", sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(ScheduleHeader, ","), lines[0])
	assert.Equal(t, "item-1,O1,strawberry-250,L1,2025-06-02T06:00:00Z,2025-06-02T06:17:00Z,10,7,PLANNED", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",ACTUAL"))
}

func TestWritePlan_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, "json", sampleReport()))

	var decoded planView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Lanes, 2)
	assert.Len(t, decoded.Placed, 1)
	require.Len(t, decoded.Failures, 1)
	assert.Contains(t, decoded.Failures[0].Error, "rate not configured")
}

func TestWriteValidation(t *testing.T) {
	problems := multierr.Combine(errors.New("first"), errors.New("second"))
	coverage := &services.CoverageReport{
		MissingRates: []services.ProductLine{{ProductID: "P1", LineID: "L3"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteValidation(&buf, "text", problems, coverage))
	assert.Contains(t, buf.String(), "2 problem(s) found")
	assert.Contains(t, buf.String(), "no run rate for P1 on L3")

	buf.Reset()
	require.NoError(t, WriteValidation(&buf, "text", nil, &services.CoverageReport{}))
	assert.Contains(t, buf.String(), "Scenario is valid")
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePreview(&buf, "xml", sampleProposal()))
	assert.Error(t, WritePlan(&buf, "xml", sampleReport()))
}
