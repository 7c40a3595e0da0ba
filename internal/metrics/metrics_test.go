package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordConversion(t *testing.T) {
	c := Conversions.WithLabelValues("missing_entry", "metric")
	before := testutil.ToFloat64(c)

	RecordConversion("missing_entry", "metric")
	RecordConversion("missing_entry", "metric")

	if got := testutil.ToFloat64(c) - before; got != 2 {
		t.Fatalf("conversions delta = %v, want 2", got)
	}
}

func TestRecordDetection(t *testing.T) {
	c := Detections.WithLabelValues("imperial")
	before := testutil.ToFloat64(c)
	RecordDetection("imperial")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("detections delta = %v, want 1", got)
	}
}

func TestRecordModeChange(t *testing.T) {
	c := ModeChanges.WithLabelValues("metric")
	before := testutil.ToFloat64(c)
	RecordModeChange("metric")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("mode changes delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	c := APIRequestsTotal.WithLabelValues("GET", "/healthz", "200")
	before := testutil.ToFloat64(c)
	RecordAPIRequest("GET", "/healthz", "200", 3*time.Millisecond)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("api requests delta = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(APIRequestDuration); n == 0 {
		t.Fatal("expected duration histogram series")
	}
}
