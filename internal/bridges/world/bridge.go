package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/mqtt"
	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MQTTClient is the interface for MQTT subscription management.
// Satisfied by *mqtt.Client; narrowed for mocking in tests.
type MQTTClient interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Dispatcher is the interface the bridge needs from the action package.
type Dispatcher interface {
	Trigger(ctx context.Context, name string, ic action.Context) action.Result
}

// PresenceTracker is the session-lifecycle hook interface.
type PresenceTracker interface {
	HandleJoin(p participant.Participant)
	HandleLeave(p participant.Participant)
}

// Bridge translates raw world events arriving over MQTT into router
// calls: joins and leaves feed the presence tracker, interactions feed
// the dispatcher. The bridge owns the roster of remote participants,
// which is the router's view of who is in the world.
//
// Thread Safety: all methods are safe for concurrent use; MQTT
// handlers run on paho's goroutines.
type Bridge struct {
	mqtt       MQTTClient
	dispatcher Dispatcher
	tracker    PresenceTracker
	roster     *Roster
	logger     Logger
	qos        byte

	stopOnce sync.Once
}

// BridgeOptions holds configuration for creating a bridge.
type BridgeOptions struct {
	// MQTTClient is the MQTT client for world-topic subscriptions.
	MQTTClient MQTTClient

	// Dispatcher routes interaction events.
	Dispatcher Dispatcher

	// Tracker receives join/leave presence hooks.
	Tracker PresenceTracker

	// Logger is optional structured logging.
	Logger Logger

	// QoS for world-topic subscriptions (default 1).
	QoS byte
}

// NewBridge creates a world event bridge. Call Start to subscribe.
func NewBridge(opts BridgeOptions) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}
	if opts.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if opts.Tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Bridge{
		mqtt:       opts.MQTTClient,
		dispatcher: opts.Dispatcher,
		tracker:    opts.Tracker,
		roster:     NewRoster(),
		logger:     logger,
		qos:        opts.QoS,
	}, nil
}

// Roster returns the bridge's participant roster.
func (b *Bridge) Roster() *Roster {
	return b.roster
}

// Start subscribes to the world event topics.
func (b *Bridge) Start(ctx context.Context) error {
	topics := mqtt.Topics{}

	subs := []struct {
		topic   string
		handler mqtt.MessageHandler
	}{
		{topics.WorldJoin(), b.handleJoin(ctx)},
		{topics.WorldLeave(), b.handleLeave(ctx)},
		{topics.WorldInteraction(), b.handleInteraction(ctx)},
	}

	for _, sub := range subs {
		if err := b.mqtt.Subscribe(sub.topic, b.qos, sub.handler); err != nil {
			return fmt.Errorf("subscribing to %q: %w", sub.topic, err)
		}
	}

	b.logger.Info("world bridge started")
	return nil
}

// Stop unsubscribes from the world event topics. Safe to call more
// than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		topics := mqtt.Topics{}
		for _, topic := range []string{
			topics.WorldJoin(),
			topics.WorldLeave(),
			topics.WorldInteraction(),
		} {
			if err := b.mqtt.Unsubscribe(topic); err != nil {
				b.logger.Warn("failed to unsubscribe", "topic", topic, "error", err)
			}
		}
		b.logger.Info("world bridge stopped")
	})
}

// handleJoin processes a participant-join notification. Joins update
// the roster and the live count; they never classify.
func (b *Bridge) handleJoin(_ context.Context) mqtt.MessageHandler {
	return func(_ string, payload []byte) error {
		var msg JoinMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("parsing join message: %w", err)
		}
		if msg.ParticipantID == "" {
			return ErrMissingParticipantID
		}

		p := b.roster.Add(msg)
		b.tracker.HandleJoin(p)

		b.logger.Debug("participant joined world",
			"participant_id", msg.ParticipantID,
			"roster_size", b.roster.Count(),
		)
		return nil
	}
}

// handleLeave processes a participant-leave notification: roster
// removal, live-count decrement, and classification eviction (via the
// tracker).
func (b *Bridge) handleLeave(_ context.Context) mqtt.MessageHandler {
	return func(_ string, payload []byte) error {
		var msg LeaveMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("parsing leave message: %w", err)
		}
		if msg.ParticipantID == "" {
			return ErrMissingParticipantID
		}

		p := b.roster.Remove(msg.ParticipantID)
		if p == nil {
			b.logger.Warn("leave for unknown participant",
				"participant_id", msg.ParticipantID,
			)
			return nil
		}
		b.tracker.HandleLeave(p)

		b.logger.Debug("participant left world",
			"participant_id", msg.ParticipantID,
			"roster_size", b.roster.Count(),
		)
		return nil
	}
}

// handleInteraction translates a raw interaction event into a
// dispatcher Trigger call. Dispatch outcomes are already logged and
// audited by the dispatcher; the bridge only validates the envelope.
func (b *Bridge) handleInteraction(ctx context.Context) mqtt.MessageHandler {
	return func(_ string, payload []byte) error {
		var msg InteractionMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("parsing interaction message: %w", err)
		}
		if msg.Action == "" {
			return ErrMissingAction
		}
		if msg.ParticipantID == "" {
			return ErrMissingParticipantID
		}

		p := b.roster.Get(msg.ParticipantID)
		if p == nil {
			// Interaction before (or without) a join: no identity to
			// classify against, so the event is dropped.
			b.logger.Warn("interaction from unknown participant",
				"participant_id", msg.ParticipantID,
				"action", msg.Action,
			)
			return nil
		}

		b.dispatcher.Trigger(ctx, msg.Action, action.Context{
			Participant: p,
			Target:      msg.Target,
			Payload:     msg.Payload,
		})
		return nil
	}
}
