// Package influxdb records storefront security telemetry in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library and writes:
//   - Authentication outcomes (access valid, refreshed, rejected by reason)
//   - Authorization gate rejections by gate and role
//   - Maintenance mode changes
//
// Points never carry tokens, emails or other personal data; only
// low-cardinality labels and account IDs.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // run without telemetry
//	}
//	defer client.Close()
//
//	client.WriteAuthOutcome("refreshed")
//
// Writes are non-blocking and batched per batch_size and flush_interval.
package influxdb
