package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// maxPayloadSize caps a single message at 1MB.
const maxPayloadSize = 1 << 20

// MaintenancePayload is the retained body on Topics.SystemMaintenance.
type MaintenancePayload struct {
	Maintenance bool   `json:"maintenance"`
	ChangedBy   string `json:"changed_by,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// EventPayload is the body for account and catalog events.
type EventPayload struct {
	Event     string `json:"event"`
	SubjectID string `json:"subject_id"`
	ActorID   string `json:"actor_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Publish sends payload to topic.
//
// QoS 0 is fire-and-forget, 1 is at-least-once, 2 is exactly-once.
// Retained messages are stored by the broker and delivered to new
// subscribers; use them for state, not events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishRetained publishes a retained message with the configured QoS.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}

// PublishMaintenance publishes the current maintenance flag retained.
func (c *Client) PublishMaintenance(enabled bool, actorID string) error {
	b, err := json.Marshal(MaintenancePayload{
		Maintenance: enabled,
		ChangedBy:   actorID,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding maintenance payload: %w", err)
	}
	return c.PublishRetained(Topics{}.SystemMaintenance(), b)
}

// PublishEvent publishes a non-retained domain event.
func (c *Client) PublishEvent(topic, event, subjectID, actorID string) error {
	b, err := json.Marshal(EventPayload{
		Event:     event,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding event payload: %w", err)
	}
	return c.Publish(topic, b, byte(c.cfg.QoS), false)
}
