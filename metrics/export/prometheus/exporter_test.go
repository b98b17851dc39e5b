package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	otpAuth "github.com/MrEthical07/otpAuth"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fakeSource struct {
	snapshot otpAuth.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() otpAuth.MetricsSnapshot { return f.snapshot }
func (f fakeSource) EventsDropped() uint64                    { return f.dropped }

func gather(t *testing.T, src fakeSource) map[string]*dto.MetricFamily {
	t.Helper()
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewExporterFromSource(src))
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestCollectEmptyWhenMetricsDisabled(t *testing.T) {
	got := gather(t, fakeSource{
		snapshot: otpAuth.MetricsSnapshot{
			Counters:   map[otpAuth.MetricID]uint64{},
			Histograms: map[otpAuth.MetricID][]uint64{},
		},
	})
	if len(got) != 0 {
		t.Fatalf("expected no families for disabled metrics, got %d", len(got))
	}
}

func TestCollectCountersAndHistogram(t *testing.T) {
	got := gather(t, fakeSource{
		snapshot: otpAuth.MetricsSnapshot{
			Counters: map[otpAuth.MetricID]uint64{
				otpAuth.MetricAuthSuccess: 7,
			},
			Histograms: map[otpAuth.MetricID][]uint64{
				otpAuth.MetricAuthenticateLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
			HistogramSums: map[otpAuth.MetricID]time.Duration{
				otpAuth.MetricAuthenticateLatency: 1500 * time.Millisecond,
			},
		},
		dropped: 2,
	})

	success := got["otpauth_auth_success_total"]
	if success == nil || success.GetMetric()[0].GetCounter().GetValue() != 7 {
		t.Fatalf("unexpected auth success family %v", success)
	}

	hist := got["otpauth_authenticate_latency_seconds"]
	if hist == nil {
		t.Fatal("missing latency histogram")
	}
	h := hist.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 36 {
		t.Fatalf("sample count = %d, want 36", h.GetSampleCount())
	}
	if h.GetSampleSum() != 1.5 {
		t.Fatalf("sample sum = %v, want 1.5", h.GetSampleSum())
	}
	first := h.GetBucket()[0]
	if first.GetUpperBound() != 0.005 || first.GetCumulativeCount() != 1 {
		t.Fatalf("unexpected first bucket %v", first)
	}

	dropped := got["otpauth_events_dropped_total"]
	if dropped == nil || dropped.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Fatalf("unexpected dropped family %v", dropped)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{
		snapshot: otpAuth.MetricsSnapshot{
			Counters: map[otpAuth.MetricID]uint64{otpAuth.MetricRegisterSuccess: 3},
		},
	})

	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "otpauth_register_success_total 3") {
		t.Fatalf("expected register counter in output, got:\n%s", body)
	}
}

func TestExporterReadsEngine(t *testing.T) {
	engine, err := otpAuth.New().WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer engine.Close()

	reg := prometheus.NewRegistry()
	if err := reg.Register(NewExporter(engine)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected families from enabled engine")
	}
}
