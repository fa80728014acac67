// Package metrics exposes Prometheus collectors for inheritance calculations.
package metrics
