package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func messageCount(t *testing.T, kind string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "monocle_session_messages_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "kind" && label.GetValue() == kind {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestRegisterMetricsIsIdempotent(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordRender("Vendor.Site", true)
}

func TestRecordMessage(t *testing.T) {
	RegisterMetrics()
	before := messageCount(t, "prototypes/select")

	RecordMessage("prototypes/select")
	RecordMessage("prototypes/select")

	if after := messageCount(t, "prototypes/select"); after-before != 2 {
		t.Errorf("Expected 2 recorded messages, got %v", after-before)
	}
}
