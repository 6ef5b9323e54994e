package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDispatchMetric records a single action dispatch to InfluxDB.
//
// This is the primary telemetry method for routing observability.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - action: The action name (e.g., "door_interact")
//   - category: The device category the dispatch resolved to (e.g., "VR")
//   - outcome: The dispatch outcome (e.g., "dispatched", "no_handler")
//   - durationMS: Handler execution time in milliseconds
//
// Example:
//
//	client.WriteDispatchMetric("door_interact", "VR", "dispatched", 1.8)
func (c *Client) WriteDispatchMetric(action, category, outcome string, durationMS float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"dispatch",
		map[string]string{
			"action":   action,
			"category": category,
			"outcome":  outcome,
		},
		map[string]interface{}{
			"duration_ms": durationMS,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRosterMetric records the current participant roster breakdown.
//
// Written periodically (and on join/leave) so dashboards can chart
// world population by device category over time.
//
// Parameters:
//   - total: Live participant count from the presence tracker
//   - vr, mobile, desktop: Per-category counts from the classification cache
func (c *Client) WriteRosterMetric(total, vr, mobile, desktop int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"roster",
		map[string]string{},
		map[string]interface{}{
			"total":   total,
			"vr":      vr,
			"mobile":  mobile,
			"desktop": desktop,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
