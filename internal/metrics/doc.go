// Package metrics provides run metrics for the documentation pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	pipeline := enhance.New(gen, linter, enhance.WithRecorder(recorder))
//
// When metrics are enabled the CLI swaps in a PrometheusRecorder backed by a
// private registry and, at the end of a run, dumps it in the node exporter
// textfile format with WriteTextfile.
package metrics
