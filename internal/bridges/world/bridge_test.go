package world

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/mqtt"
	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// mockMQTT captures subscriptions and lets tests inject messages.
type mockMQTT struct {
	mu       sync.Mutex
	handlers map[string]mqtt.MessageHandler
	subErr   error
}

func newMockMQTT() *mockMQTT {
	return &mockMQTT{handlers: make(map[string]mqtt.MessageHandler)}
}

func (m *mockMQTT) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	if m.subErr != nil {
		return m.subErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	return nil
}

func (m *mockMQTT) Unsubscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handlers, topic)
	return nil
}

// deliver simulates a broker message arriving on a topic.
func (m *mockMQTT) deliver(t *testing.T, topic string, payload string) error {
	t.Helper()
	m.mu.Lock()
	handler, ok := m.handlers[topic]
	m.mu.Unlock()
	if !ok {
		t.Fatalf("no subscription for topic %q", topic)
	}
	return handler(topic, []byte(payload))
}

// mockDispatcher records Trigger calls.
type mockDispatcher struct {
	mu       sync.Mutex
	actions  []string
	contexts []action.Context
}

func (m *mockDispatcher) Trigger(_ context.Context, name string, ic action.Context) action.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, name)
	m.contexts = append(m.contexts, ic)
	return action.Result{Action: name, Outcome: action.OutcomeDispatched}
}

// mockTracker records presence hooks.
type mockTracker struct {
	mu     sync.Mutex
	joins  []string
	leaves []string
}

func (m *mockTracker) HandleJoin(p participant.Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins = append(m.joins, p.ID())
}

func (m *mockTracker) HandleLeave(p participant.Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves = append(m.leaves, p.ID())
}

func setupBridge(t *testing.T) (*Bridge, *mockMQTT, *mockDispatcher, *mockTracker) {
	t.Helper()

	client := newMockMQTT()
	dispatcher := &mockDispatcher{}
	tracker := &mockTracker{}

	b, err := NewBridge(BridgeOptions{
		MQTTClient: client,
		Dispatcher: dispatcher,
		Tracker:    tracker,
		QoS:        1,
	})
	if err != nil {
		t.Fatalf("NewBridge() error = %v", err)
	}
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return b, client, dispatcher, tracker
}

func TestNewBridge_Validation(t *testing.T) {
	client := newMockMQTT()
	dispatcher := &mockDispatcher{}
	tracker := &mockTracker{}

	tests := []struct {
		name string
		opts BridgeOptions
	}{
		{"missing mqtt", BridgeOptions{Dispatcher: dispatcher, Tracker: tracker}},
		{"missing dispatcher", BridgeOptions{MQTTClient: client, Tracker: tracker}},
		{"missing tracker", BridgeOptions{MQTTClient: client, Dispatcher: dispatcher}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewBridge(tt.opts); err == nil {
				t.Error("NewBridge() should fail with missing dependency")
			}
		})
	}
}

func TestBridge_SubscribesToWorldTopics(t *testing.T) {
	_, client, _, _ := setupBridge(t)

	for _, topic := range []string{
		"toolkit/world/join",
		"toolkit/world/leave",
		"toolkit/world/interaction",
	} {
		client.mu.Lock()
		_, ok := client.handlers[topic]
		client.mu.Unlock()
		if !ok {
			t.Errorf("missing subscription for %q", topic)
		}
	}
}

func TestBridge_JoinLeaveFlow(t *testing.T) {
	b, client, _, tracker := setupBridge(t)

	join := `{"participant_id":"p1","name":"Alice","device_type":"VR"}`
	if err := client.deliver(t, "toolkit/world/join", join); err != nil {
		t.Fatalf("join handler error = %v", err)
	}

	if b.Roster().Count() != 1 {
		t.Errorf("roster size = %d after join, want 1", b.Roster().Count())
	}
	if len(tracker.joins) != 1 || tracker.joins[0] != "p1" {
		t.Errorf("tracker joins = %v, want [p1]", tracker.joins)
	}

	entry := b.Roster().Get("p1")
	if entry == nil {
		t.Fatal("roster entry missing")
	}
	raw, err := entry.DeviceType()
	if err != nil || raw != participant.RawVR {
		t.Errorf("DeviceType() = (%v, %v), want (VR, nil)", raw, err)
	}

	leave := `{"participant_id":"p1"}`
	if err := client.deliver(t, "toolkit/world/leave", leave); err != nil {
		t.Fatalf("leave handler error = %v", err)
	}

	if b.Roster().Count() != 0 {
		t.Errorf("roster size = %d after leave, want 0", b.Roster().Count())
	}
	if len(tracker.leaves) != 1 || tracker.leaves[0] != "p1" {
		t.Errorf("tracker leaves = %v, want [p1]", tracker.leaves)
	}
}

func TestBridge_LeaveUnknownParticipant(t *testing.T) {
	_, client, _, tracker := setupBridge(t)

	if err := client.deliver(t, "toolkit/world/leave", `{"participant_id":"ghost"}`); err != nil {
		t.Fatalf("leave handler error = %v", err)
	}
	if len(tracker.leaves) != 0 {
		t.Errorf("tracker leaves = %v, want none for unknown participant", tracker.leaves)
	}
}

func TestBridge_InteractionDispatch(t *testing.T) {
	_, client, dispatcher, _ := setupBridge(t)

	client.deliver(t, "toolkit/world/join", `{"participant_id":"p1","name":"Alice","device_type":"Mobile"}`)

	event := `{"action":"door_interact","participant_id":"p1","target":"door-lobby","payload":{"force":0.5}}`
	if err := client.deliver(t, "toolkit/world/interaction", event); err != nil {
		t.Fatalf("interaction handler error = %v", err)
	}

	if len(dispatcher.actions) != 1 || dispatcher.actions[0] != "door_interact" {
		t.Fatalf("dispatched actions = %v, want [door_interact]", dispatcher.actions)
	}
	ic := dispatcher.contexts[0]
	if ic.Participant.ID() != "p1" || ic.Target != "door-lobby" {
		t.Errorf("context = %+v, want p1/door-lobby", ic)
	}
	if ic.Payload["force"] != 0.5 {
		t.Errorf("payload force = %v, want 0.5", ic.Payload["force"])
	}
}

func TestBridge_InteractionFromUnknownParticipant(t *testing.T) {
	_, client, dispatcher, _ := setupBridge(t)

	event := `{"action":"door_interact","participant_id":"ghost"}`
	if err := client.deliver(t, "toolkit/world/interaction", event); err != nil {
		t.Fatalf("interaction handler error = %v", err)
	}
	if len(dispatcher.actions) != 0 {
		t.Errorf("dispatched %v for unknown participant, want nothing", dispatcher.actions)
	}
}

func TestBridge_MalformedMessages(t *testing.T) {
	_, client, dispatcher, tracker := setupBridge(t)

	tests := []struct {
		name    string
		topic   string
		payload string
		wantErr error
	}{
		{"join invalid json", "toolkit/world/join", `{not json`, nil},
		{"join missing id", "toolkit/world/join", `{"name":"Alice"}`, ErrMissingParticipantID},
		{"leave missing id", "toolkit/world/leave", `{}`, ErrMissingParticipantID},
		{"interaction missing action", "toolkit/world/interaction", `{"participant_id":"p1"}`, ErrMissingAction},
		{"interaction missing id", "toolkit/world/interaction", `{"action":"tap"}`, ErrMissingParticipantID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.deliver(t, tt.topic, tt.payload)
			if err == nil {
				t.Fatal("handler should return an error for malformed input")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(dispatcher.actions) != 0 || len(tracker.joins) != 0 {
		t.Error("malformed messages must not reach the dispatcher or tracker")
	}
}

func TestRemoteParticipant_DeviceSignals(t *testing.T) {
	tests := []struct {
		name    string
		signal  string
		want    participant.RawDeviceType
		wantErr bool
	}{
		{"vr", "VR", participant.RawVR, false},
		{"mobile", "Mobile", participant.RawMobile, false},
		{"desktop", "Desktop", participant.RawDesktop, false},
		{"unknown maps to other", "Console", participant.RawOther, false},
		{"missing signal errors", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := NewRoster()
			p := roster.Add(JoinMessage{ParticipantID: "p1", Name: "Alice", DeviceType: tt.signal})

			raw, err := p.DeviceType()
			if tt.wantErr {
				if !errors.Is(err, ErrNoDeviceSignal) {
					t.Errorf("DeviceType() error = %v, want ErrNoDeviceSignal", err)
				}
				return
			}
			if err != nil || raw != tt.want {
				t.Errorf("DeviceType() = (%v, %v), want (%v, nil)", raw, err, tt.want)
			}
		})
	}
}

func TestBridge_StopIdempotent(t *testing.T) {
	b, client, _, _ := setupBridge(t)

	b.Stop()
	b.Stop()

	client.mu.Lock()
	remaining := len(client.handlers)
	client.mu.Unlock()
	if remaining != 0 {
		t.Errorf("%d subscriptions remain after Stop(), want 0", remaining)
	}
}
