// Package mqtt publishes Storefront Core state and events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Retained service status with a Last Will for crash detection
//   - Retained maintenance-mode state so other services see the flag on connect
//   - Account and catalog event notifications
//
// The broker is optional. When mqtt.enabled is false the service runs
// without it and publishing is skipped by the caller.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.PublishMaintenance(true, userID)
//
// # Security Considerations
//
//   - TLS should be enabled outside local development (cfg.Broker.TLS=true)
//   - Payloads never carry credentials or tokens, only identifiers
package mqtt
