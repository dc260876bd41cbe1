package influxdb

import (
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	measurementAuth        = "auth_outcomes"
	measurementGate        = "gate_rejections"
	measurementMaintenance = "maintenance"
)

// WriteAuthOutcome records one pass through the authentication pipeline.
// outcome is a low-cardinality label such as "access_valid",
// "refreshed" or "rejected_no_refresh".
func (c *Client) WriteAuthOutcome(outcome string) {
	c.WritePoint(measurementAuth,
		map[string]string{"outcome": outcome},
		map[string]any{"count": 1},
	)
}

// WriteGateRejection records a request stopped by an authorization gate.
// role is empty when no principal was attached.
func (c *Client) WriteGateRejection(gate, role string) {
	if role == "" {
		role = "anonymous"
	}
	c.WritePoint(measurementGate,
		map[string]string{"gate": gate, "role": role},
		map[string]any{"count": 1},
	)
}

// WriteMaintenanceChange records a maintenance toggle. The actor is a
// field, not a tag, so account IDs never become series keys.
func (c *Client) WriteMaintenanceChange(enabled bool, actorID string) {
	c.WritePoint(measurementMaintenance,
		nil,
		map[string]any{"enabled": enabled, "actor_id": actorID},
	)
}

// WritePoint writes a point stamped with the current time.
// Silently dropped when the client is not connected.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, c.now()))
}
