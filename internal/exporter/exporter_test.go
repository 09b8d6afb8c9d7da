package exporter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"

	"github.com/ssoonan/pod-activation-experiment/internal/clock"
	"github.com/ssoonan/pod-activation-experiment/internal/record"
)

func writeRecord(t *testing.T, dir, identity string, sec, nsec int64) {
	t.Helper()
	rec := &record.Record{
		IdentityKey: record.KeyPod,
		Identity:    identity,
		Start:       clock.Timespec{Sec: sec, Nsec: nsec},
	}
	if _, err := rec.WriteFile(dir); err != nil {
		t.Fatal(err)
	}
}

func scrape(t *testing.T, dir string) map[string]float64 {
	t.Helper()

	srv := httptest.NewServer(NewRouter(dir))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/metrics status = %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		t.Fatalf("metrics output does not parse: %v", err)
	}

	values := map[string]float64{}
	for name, family := range families {
		for _, m := range family.GetMetric() {
			key := name
			for _, label := range m.GetLabel() {
				key += "{" + label.GetName() + "=" + label.GetValue() + "}"
			}
			switch {
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			}
		}
	}
	return values
}

func TestMetricsForRecords(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "pod-a", 100, 0)
	writeRecord(t, dir, "pod-b", 102, 500_000_000)

	values := scrape(t, dir)

	if got := values["timing_records"]; got != 2 {
		t.Errorf("timing_records = %v, want 2", got)
	}
	if got := values["timing_record_start_seconds{identity=pod-a}{key=pod}"]; got != 100 {
		t.Errorf("pod-a start = %v, want 100", got)
	}
	if got := values["timing_records_spread_seconds"]; got != 2.5 {
		t.Errorf("spread = %v, want 2.5", got)
	}
}

func TestMetricsEmptyDirectory(t *testing.T) {
	values := scrape(t, t.TempDir())

	if got := values["timing_records"]; got != 0 {
		t.Errorf("timing_records = %v, want 0", got)
	}
	for key := range values {
		if strings.HasPrefix(key, "timing_records_spread_seconds") {
			t.Error("spread should not be exported with fewer than two records")
		}
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(t.TempDir()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200", resp.StatusCode)
	}
}
