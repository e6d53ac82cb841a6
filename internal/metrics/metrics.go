// Package metrics holds Prometheus instruments that are used across the
// engine, the catalog, and the API.  All collectors are registered with the
// global registry, so importing this package in main.go is enough to
// expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TemplatesRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_templates_registered",
			Help: "Number of templates currently held by the engine.",
		})

	WidgetKindsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "layout_widget_kinds_registered",
			Help: "Number of widget kinds in the most recently updated registry.",
		})

	ProcessTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "layout_process_total",
			Help: "Cumulative number of templates processed against a variable map.",
		})

	ValidateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "layout_validate_total",
			Help: "Cumulative number of structural validation passes.",
		})

	ValidateFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "layout_validate_failures_total",
			Help: "Cumulative number of validation passes that reported errors.",
		})

	StoreLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "layout_store_loads_total",
			Help: "Cumulative number of templates loaded from the store.",
		})

	StoreLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "layout_store_load_errors_total",
			Help: "Cumulative number of store load errors.",
		})
)

func init() {
	prometheus.MustRegister(
		TemplatesRegistered,
		WidgetKindsRegistered,
		ProcessTotal,
		ValidateTotal,
		ValidateFailuresTotal,
		StoreLoadsTotal,
		StoreLoadErrorsTotal,
	)
}
