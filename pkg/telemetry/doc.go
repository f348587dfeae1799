// Package telemetry provides the observability plumbing shared by
// the engine and the CLI: zerolog logger construction and optional
// Prometheus metrics for deploys and polling.
//
// Nothing in here is global. Loggers and metrics are built once and
// handed to the components that use them.
package telemetry
