package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const berriesDir = "../../../../scenarios/berries"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--scenario", berriesDir, "--at", "2025-06-02T06:00:00Z", "--log-level", "info"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario is valid")
}

func TestValidateCommand_ReportsProblems(t *testing.T) {
	dir := t.TempDir()
	entries, err := os.ReadDir(berriesDir)
	require.NoError(t, err)
	for _, e := range entries {
		content, err := os.ReadFile(filepath.Join(berriesDir, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), content, 0o644))
	}
	// second row for an existing key
	f, err := os.OpenFile(filepath.Join(dir, "master_run_rates.csv"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("125g,L1,200\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := run(t, "validate", "--scenario", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s)")
	assert.Contains(t, out, "duplicate key: master run rate 125g/L1")
}

func TestPreviewCommand(t *testing.T) {
	out, err := run(t, "preview", "O1", "L1", "--base-setup-minutes", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Setup:    10 min (base)")
	assert.Contains(t, out, "Run:      7 min")
	assert.Contains(t, out, "Total:    17 min")
}

func TestPreviewCommand_AfterExistingSchedule(t *testing.T) {
	out, err := run(t, "preview", "O3", "L2", "--format", "json")
	require.NoError(t, err)

	var decoded struct {
		Summary struct {
			SetupMinutes int `json:"setup_minutes"`
			RunMinutes   int `json:"run_minutes"`
		} `json:"summary"`
		SetupSource   string `json:"setup_source"`
		PredecessorID string `json:"predecessor_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 10, decoded.Summary.SetupMinutes)
	assert.Equal(t, 10, decoded.Summary.RunMinutes)
	assert.Equal(t, "master", decoded.SetupSource)
	assert.Equal(t, "S0", decoded.PredecessorID)
}

func TestPreviewCommand_UnknownOrder(t *testing.T) {
	_, err := run(t, "preview", "O99", "L1")
	assert.Error(t, err)
}

func TestPlanCommand_CSV(t *testing.T) {
	out, err := run(t, "plan", "O1=L1", "O2=L1", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "id,order_id"))
	assert.Contains(t, lines[1], ",O1,strawberry-250,L1,2025-06-02T06:00:00Z,2025-06-02T06:17:00Z,0,7,PLANNED")
	// strawberry -> mixed berry override, mixed berry at 90 ppm on L1
	assert.Contains(t, lines[2], ",O2,mixed-berry-500,L1,2025-06-02T06:17:00Z,2025-06-02T07:08:00Z,45,6,PLANNED")
	assert.True(t, strings.HasSuffix(lines[4], ",ACTUAL"))
}

func TestPlanCommand_LineFlagWithMetrics(t *testing.T) {
	out, err := run(t, "plan", "--line", "L1", "--metrics")
	require.NoError(t, err)

	assert.Contains(t, out, "Placed 3 order(s)")
	assert.Contains(t, out, `lineplan_placements_committed_total{line="L1",outcome="success"} 3`)
}

func TestPlanCommand_Failures(t *testing.T) {
	out, err := run(t, "plan", "O1=L1", "O2=L9")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "1 of 2 assignment(s) not placed")
	assert.Contains(t, out, "Placed 1 order(s)")
	assert.Contains(t, out, "O2 -> L9")
}

func TestPlanCommand_BadArguments(t *testing.T) {
	_, err := run(t, "plan")
	assert.ErrorContains(t, err, "nothing to plan")

	_, err = run(t, "plan", "O1")
	assert.ErrorContains(t, err, "expected ORDER=LINE")

	_, err = run(t, "plan", "O1=L1", "--at", "tomorrow")
	assert.ErrorContains(t, err, "invalid --at")
}
