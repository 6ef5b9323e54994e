// Package influxdb provides optional time-series telemetry for Toolkit Core.
//
// It wraps the InfluxDB v2 Go client with non-blocking batched writes,
// connection health monitoring, and dispatch-domain helper methods.
//
// # Measurements
//
//	dispatch - one point per action dispatch, tagged by action, category,
//	           and outcome, with handler duration as the field
//	roster   - periodic participant counts (total plus per-category)
//
// # Usage
//
// Telemetry is disabled by default. When disabled, Connect returns
// ErrDisabled and callers run without a client (all write helpers are
// nil-safe via the wiring in the dispatcher, which treats a missing
// metrics writer as a no-op).
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without telemetry
//	}
//
// Writes are batched and flushed asynchronously. Write errors are
// delivered via SetOnError, never to the caller.
package influxdb
