package autoxliff

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup outcomes recorded by Metrics.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
	ResultSkip = "skip"
)

// Metrics counts interceptor activity. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	Lookups         *prometheus.CounterVec
	UnitsCreated    *prometheus.CounterVec
	CatalogsCreated *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoxliff_lookups_total",
				Help: "Translation lookups seen by the interceptor, by result",
			},
			[]string{"result"},
		),
		UnitsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoxliff_units_created_total",
				Help: "Translation units appended to catalogs",
			},
			[]string{"package", "locale"},
		),
		CatalogsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoxliff_catalogs_created_total",
				Help: "Catalog files created from an empty skeleton",
			},
			[]string{"package", "locale"},
		),
	}

	reg.MustRegister(m.Lookups, m.UnitsCreated, m.CatalogsCreated)
	return m
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) unitCreated(pkg, locale string) {
	if m == nil {
		return
	}
	m.UnitsCreated.WithLabelValues(pkg, locale).Inc()
}

func (m *Metrics) catalogCreated(pkg, locale string) {
	if m == nil {
		return
	}
	m.CatalogsCreated.WithLabelValues(pkg, locale).Inc()
}

// WriteSummary prints every non-zero counter as "name{labels} value".
func (m *Metrics) WriteSummary(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.gatherer.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			value := metric.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			labels := ""
			for i, lp := range metric.GetLabel() {
				if i > 0 {
					labels += ","
				}
				labels += fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), labels, value))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
