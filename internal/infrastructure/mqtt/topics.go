package mqtt

import "fmt"

// Topic prefixes for everything Storefront Core publishes.
const (
	// TopicPrefix is the root of the storefront topic tree.
	TopicPrefix = "storefront"

	// TopicPrefixSystem is the base for service-level topics.
	TopicPrefixSystem = TopicPrefix + "/system"

	// TopicPrefixEvents is the base for domain event topics.
	TopicPrefixEvents = TopicPrefix + "/events"
)

// Topics provides builders for storefront MQTT topics.
//
//	topic := mqtt.Topics{}.SystemMaintenance()
//	// Returns: "storefront/system/maintenance"
type Topics struct{}

// SystemStatus returns the retained online/offline status topic. It also
// carries the Last Will message.
//
// Example: storefront/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// SystemMaintenance returns the retained maintenance-mode topic.
// Subscribers see the current flag as soon as they connect.
//
// Example: storefront/system/maintenance
func (Topics) SystemMaintenance() string {
	return TopicPrefixSystem + "/maintenance"
}

// AccountEvent returns the topic for account lifecycle events
// (signup, delete, role_changed).
//
// Example: storefront/events/account/role_changed
func (Topics) AccountEvent(event string) string {
	return fmt.Sprintf("%s/account/%s", TopicPrefixEvents, event)
}

// CatalogEvent returns the topic for catalog change events.
//
// Example: storefront/events/category/created
func (Topics) CatalogEvent(entity, event string) string {
	return fmt.Sprintf("%s/%s/%s", TopicPrefixEvents, entity, event)
}
