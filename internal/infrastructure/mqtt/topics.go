package mqtt

import "fmt"

// Topic prefixes for the Toolkit MQTT namespace.
//
// World topics carry raw events published by the world runtime (interactions,
// presence). Core topics carry events published by this service. Command
// topics carry instructions to scene objects.
const (
	// TopicPrefix is the base for all Toolkit topics.
	TopicPrefix = "toolkit"

	// TopicPrefixWorld is the base for raw world event topics.
	TopicPrefixWorld = "toolkit/world"

	// TopicPrefixCore is the base for events published by Core.
	TopicPrefixCore = "toolkit/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "toolkit/system"
)

// Topics provides builders for Toolkit MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.ObjectCommand("door-lobby")
//	// Returns: "toolkit/command/door-lobby"
type Topics struct{}

// WorldInteraction returns the topic raw interaction events arrive on.
//
// Example: toolkit/world/interaction
func (Topics) WorldInteraction() string {
	return fmt.Sprintf("%s/interaction", TopicPrefixWorld)
}

// WorldJoin returns the topic participant-join notifications arrive on.
//
// Example: toolkit/world/join
func (Topics) WorldJoin() string {
	return fmt.Sprintf("%s/join", TopicPrefixWorld)
}

// WorldLeave returns the topic participant-leave notifications arrive on.
//
// Example: toolkit/world/leave
func (Topics) WorldLeave() string {
	return fmt.Sprintf("%s/leave", TopicPrefixWorld)
}

// ObjectCommand returns the topic for commands to a scene object.
//
// Example: toolkit/command/door-lobby
func (Topics) ObjectCommand(targetID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, targetID)
}

// AllObjectCommands returns a pattern matching all object commands.
//
// Pattern: toolkit/command/+
func (Topics) AllObjectCommands() string {
	return fmt.Sprintf("%s/command/+", TopicPrefix)
}

// CoreDispatch returns the topic for dispatch result events.
//
// Example: toolkit/core/dispatch/door_interact
func (Topics) CoreDispatch(actionName string) string {
	return fmt.Sprintf("%s/dispatch/%s", TopicPrefixCore, actionName)
}

// AllCoreDispatches returns a pattern matching all dispatch events.
//
// Pattern: toolkit/core/dispatch/+
func (Topics) AllCoreDispatches() string {
	return fmt.Sprintf("%s/dispatch/+", TopicPrefixCore)
}

// SystemStatus returns the system status topic.
//
// Example: toolkit/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all Toolkit topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: toolkit/#
func (Topics) AllTopics() string {
	return "toolkit/#"
}
