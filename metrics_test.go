package autoxliff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.lookup(ResultHit)
	m.lookup(ResultHit)
	m.lookup(ResultMiss)
	m.unitCreated("Acme.Shop", "de")
	m.catalogCreated("Acme.Shop", "de")

	if got := testutil.ToFloat64(m.Lookups.WithLabelValues(ResultHit)); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Lookups.WithLabelValues(ResultMiss)); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.UnitsCreated.WithLabelValues("Acme.Shop", "de")); got != 1 {
		t.Errorf("units created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CatalogsCreated.WithLabelValues("Acme.Shop", "de")); got != 1 {
		t.Errorf("catalogs created = %v, want 1", got)
	}
}

func TestMetrics_Lint(t *testing.T) {
	m := NewMetrics(nil)
	m.lookup(ResultSkip)

	problems, err := testutil.CollectAndLint(m.Lookups)
	if err != nil {
		t.Fatalf("CollectAndLint failed: %v", err)
	}
	if len(problems) > 0 {
		t.Errorf("metric lint problems: %v", problems)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	m.lookup(ResultHit)
	m.unitCreated("a", "b")
	m.catalogCreated("a", "b")
	if err := m.WriteSummary(&bytes.Buffer{}); err != nil {
		t.Errorf("WriteSummary on nil metrics: %v", err)
	}
}

func TestMetrics_WriteSummary(t *testing.T) {
	m := NewMetrics(nil)
	m.lookup(ResultMiss)
	m.unitCreated("Acme.Shop", "de")

	var buf bytes.Buffer
	if err := m.WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`autoxliff_lookups_total{result="miss"} 1`,
		`autoxliff_units_created_total{locale="de",package="Acme.Shop"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "catalogs_created") {
		t.Errorf("zero counters should be omitted:\n%s", out)
	}
}
