package metrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RecordProposal("L1", nil)
	r.RecordProposal("L1", nil)
	r.RecordProposal("L1", errors.New("boom"))
	r.RecordCommit("L2", nil)
	r.RecordResolution("rate", "specific")
	r.SetPlannedItems("L2", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.proposals.WithLabelValues("L1", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.proposals.WithLabelValues("L1", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.commits.WithLabelValues("L2", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("rate", "specific")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.plannedItems.WithLabelValues("L2")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordProposal("L1", nil)
		r.RecordCommit("L1", nil)
		r.RecordResolution("rate", "master")
		r.SetPlannedItems("L1", 1)
	})
}

func TestRecorder_WriteText(t *testing.T) {
	r := NewRecorder()
	r.RecordCommit("L1", nil)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `lineplan_placements_committed_total{line="L1",outcome="success"} 1`)
}
