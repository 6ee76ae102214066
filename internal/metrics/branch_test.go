package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/triage/internal/domain/outcome"
)

func TestObserveBranch(t *testing.T) {
	before := testutil.ToFloat64(BranchOutcomesTotal.WithLabelValues("related_docs", "failed"))

	ObserveBranch("related_docs", outcome.NewFailed(errors.New("boom"), 20*time.Millisecond))
	ObserveBranch("related_docs", outcome.NewCompleted(10*time.Millisecond))

	if got := testutil.ToFloat64(BranchOutcomesTotal.WithLabelValues("related_docs", "failed")); got != before+1 {
		t.Errorf("failed count = %f, want %f", got, before+1)
	}
	if got := testutil.ToFloat64(BranchOutcomesTotal.WithLabelValues("related_docs", "completed")); got < 1 {
		t.Errorf("completed count = %f", got)
	}
	if testutil.CollectAndCount(BranchDuration) == 0 {
		t.Error("expected branch duration observations")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}
