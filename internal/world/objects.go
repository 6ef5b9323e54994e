package world

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/mqtt"
)

// Publisher is the interface for publishing object commands.
type Publisher interface {
	// Publish sends a message to the specified MQTT topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Built-in action names.
const (
	ActionDoorInteract = "door_interact"
	ActionButtonPress  = "button_press"
	ActionItemPickup   = "item_pickup"
)

// Objects registers the built-in cross-device interactive objects.
//
// Each object declares one logical action with device-specific
// behaviours; the handlers translate a dispatch into a command on the
// target object's MQTT topic. The interaction mode in the payload
// tells the world runtime which affordance fired (grab vs tap vs
// click), so object animations can match the input modality.
type Objects struct {
	publisher Publisher
	qos       byte
}

// NewObjects creates the built-in object set.
func NewObjects(publisher Publisher, qos byte) *Objects {
	return &Objects{
		publisher: publisher,
		qos:       qos,
	}
}

// RegisterBuiltins registers all built-in actions:
//
//   - door_interact: full handler set (VR grab, Mobile tap, Desktop click)
//   - button_press:  Desktop only; other categories reach it via fallback
//   - item_pickup:   VR and Desktop; Mobile falls back to Desktop
func (o *Objects) RegisterBuiltins(registry *action.Registry) error {
	if err := registry.Register(ActionDoorInteract, action.HandlerSet{
		VR:      o.commandHandler("door.toggle", "grab"),
		Mobile:  o.commandHandler("door.toggle", "tap"),
		Desktop: o.commandHandler("door.toggle", "click"),
	}); err != nil {
		return fmt.Errorf("registering %s: %w", ActionDoorInteract, err)
	}

	if err := registry.Register(ActionButtonPress, action.HandlerSet{
		Desktop: o.commandHandler("button.press", "click"),
	}); err != nil {
		return fmt.Errorf("registering %s: %w", ActionButtonPress, err)
	}

	if err := registry.Register(ActionItemPickup, action.HandlerSet{
		VR:      o.commandHandler("item.pickup", "grab"),
		Desktop: o.commandHandler("item.pickup", "click"),
	}); err != nil {
		return fmt.Errorf("registering %s: %w", ActionItemPickup, err)
	}

	return nil
}

// commandHandler builds a handler that publishes an object command.
func (o *Objects) commandHandler(command, mode string) action.Handler {
	return func(_ context.Context, ic action.Context) error {
		if ic.Target == "" {
			return fmt.Errorf("object command %q requires a target", command)
		}

		cmd := map[string]any{
			"command": command,
			"mode":    mode,
		}
		if ic.Participant != nil {
			cmd["participant_id"] = ic.Participant.ID()
		}
		if len(ic.Payload) > 0 {
			cmd["payload"] = ic.Payload
		}

		body, err := json.Marshal(cmd)
		if err != nil {
			return fmt.Errorf("marshalling object command: %w", err)
		}

		topic := mqtt.Topics{}.ObjectCommand(ic.Target)
		if err := o.publisher.Publish(topic, body, o.qos, false); err != nil {
			return fmt.Errorf("publishing to %q: %w", topic, err)
		}
		return nil
	}
}
