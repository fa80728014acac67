// Package application provides application initialization and dependency wiring.
// It builds the allocator, metrics, API handlers, router and HTTP server from a
// resolved configuration, keeping the main package focused on CLI parsing and
// orchestration.
package application
