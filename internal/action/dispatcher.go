package action

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// Classifier is the interface the dispatcher needs from the
// participant package. Classification is total: it always returns a
// valid category, absorbing raw-signal failures internally.
type Classifier interface {
	Classify(p participant.Participant) participant.Category
}

// Recorder persists dispatch audit records.
type Recorder interface {
	Create(ctx context.Context, rec *DispatchRecord) error
}

// WSHub is the interface for broadcasting WebSocket events.
type WSHub interface {
	// Broadcast sends an event to all clients subscribed to the given channel.
	Broadcast(channel string, payload any)
}

// Publisher is the interface for publishing dispatch events over MQTT.
type Publisher interface {
	// Publish sends a message to the specified MQTT topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MetricsWriter is the interface for recording dispatch telemetry.
type MetricsWriter interface {
	WriteDispatchMetric(action, category, outcome string, durationMS float64)
}

// DispatchTopicFunc builds the MQTT topic for a dispatch event.
// Typically mqtt.Topics{}.CoreDispatch.
type DispatchTopicFunc func(actionName string) string

// Options configures dispatch behaviour.
type Options struct {
	// FallbackToDesktop enables the Desktop handler as second choice
	// when no exact-category handler exists. Default on.
	FallbackToDesktop bool

	// Verbose enables info-level dispatch diagnostics. Warnings and
	// errors are always emitted.
	Verbose bool
}

// Dispatcher resolves and invokes the correct handler for a triggered
// action.
//
// Given an action name and an interaction context it classifies the
// participant, selects a handler with defined fallback precedence, and
// invokes it with full isolation: handler errors and panics are caught
// at this boundary and never reach the triggering caller.
//
// Side channels (audit record, WebSocket broadcast, MQTT event,
// telemetry point) are optional; a nil sink is skipped and a failing
// sink is logged, never propagated.
//
// Thread Safety: Trigger is safe for concurrent use.
type Dispatcher struct {
	registry   *Registry
	classifier Classifier
	opts       Options
	logger     Logger

	// Optional side channels.
	recorder  Recorder
	hub       WSHub
	publisher Publisher
	topicFor  DispatchTopicFunc
	metrics   MetricsWriter
	qos       byte
}

// NewDispatcher creates a dispatcher over a registry and classifier.
func NewDispatcher(registry *Registry, classifier Classifier, opts Options, logger Logger) *Dispatcher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Dispatcher{
		registry:   registry,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
		qos:        1,
	}
}

// SetRecorder attaches a dispatch audit recorder.
func (d *Dispatcher) SetRecorder(recorder Recorder) {
	d.recorder = recorder
}

// SetHub attaches a WebSocket hub for dispatch.completed broadcasts.
func (d *Dispatcher) SetHub(hub WSHub) {
	d.hub = hub
}

// SetPublisher attaches an MQTT publisher for dispatch events.
// topicFor builds the topic from the action name.
func (d *Dispatcher) SetPublisher(publisher Publisher, topicFor DispatchTopicFunc, qos byte) {
	d.publisher = publisher
	d.topicFor = topicFor
	d.qos = qos
}

// SetMetricsWriter attaches a telemetry writer for dispatch metrics.
func (d *Dispatcher) SetMetricsWriter(metrics MetricsWriter) {
	d.metrics = metrics
}

// Trigger dispatches an action for an interaction context.
//
// Resolution:
//  1. Unregistered name: warning, OutcomeUnregistered. A no-op because
//     callers may fire actions before every object has registered.
//  2. Classify the participant.
//  3. Select a handler: exact category first; then Desktop if the
//     fallback flag is on; then the first present of VR, Mobile,
//     Desktop. An action with any handler at all is never silently
//     dropped for lack of an exact match.
//  4. Invoke with isolation: errors and panics are caught, logged at
//     error level tagged with action and category, and produce
//     OutcomeHandlerFailed. Registry and cache state are untouched.
//
// Trigger never returns an error. The Result describes what happened.
func (d *Dispatcher) Trigger(ctx context.Context, name string, ic Context) Result {
	started := time.Now()
	result := Result{
		DispatchID: uuid.NewString(),
		Action:     name,
	}

	hs, ok := d.registry.Lookup(name)
	if !ok {
		d.logger.Warn("trigger for unregistered action", "action", name)
		result.Outcome = OutcomeUnregistered
		result.Duration = time.Since(started)
		d.report(ctx, ic, result)
		return result
	}

	result.Category = d.classifier.Classify(ic.Participant)

	handler, handlerCategory := d.selectHandler(hs, result.Category)
	if handler == nil {
		d.logger.Warn("no compatible handler for action",
			"action", name,
			"category", string(result.Category),
		)
		result.Outcome = OutcomeNoHandler
		result.Duration = time.Since(started)
		d.report(ctx, ic, result)
		return result
	}
	result.HandlerCategory = handlerCategory

	if d.opts.Verbose {
		d.logger.Info("dispatching action",
			"dispatch_id", result.DispatchID,
			"action", name,
			"category", string(result.Category),
			"handler_category", string(handlerCategory),
		)
	}

	if err := d.invoke(ctx, handler, ic); err != nil {
		d.logger.Error("action handler failed",
			"dispatch_id", result.DispatchID,
			"action", name,
			"category", string(handlerCategory),
			"error", err,
		)
		result.Outcome = OutcomeHandlerFailed
		result.Error = err.Error()
	} else {
		result.Outcome = OutcomeDispatched
	}

	result.Duration = time.Since(started)
	d.report(ctx, ic, result)
	return result
}

// selectHandler applies the fallback precedence and returns the chosen
// handler with the category it was registered under.
func (d *Dispatcher) selectHandler(hs HandlerSet, category participant.Category) (Handler, participant.Category) {
	if h := hs.ForCategory(category); h != nil {
		return h, category
	}

	if d.opts.FallbackToDesktop {
		if h := hs.ForCategory(participant.CategoryDesktop); h != nil {
			return h, participant.CategoryDesktop
		}
	}

	for _, fallback := range participant.Categories() {
		if h := hs.ForCategory(fallback); h != nil {
			return h, fallback
		}
	}
	return nil, ""
}

// invoke runs a handler with panic recovery. A panicking handler must
// not abort the dispatch call or corrupt router state.
func (d *Dispatcher) invoke(ctx context.Context, handler Handler, ic Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, ic)
}

// report feeds the dispatch result to the optional side channels.
// Each sink failure is logged and swallowed; the dispatch already
// completed and its outcome must not change.
func (d *Dispatcher) report(ctx context.Context, ic Context, result Result) {
	if d.recorder != nil {
		rec := &DispatchRecord{
			ID:              result.DispatchID,
			Action:          result.Action,
			ParticipantID:   participantID(ic.Participant),
			Category:        string(result.Category),
			HandlerCategory: string(result.HandlerCategory),
			Outcome:         string(result.Outcome),
			Target:          ic.Target,
			DurationMS:      result.DurationMS(),
			CreatedAt:       time.Now().UTC(),
		}
		if result.Error != "" {
			msg := result.Error
			rec.Error = &msg
		}
		if err := d.recorder.Create(ctx, rec); err != nil {
			d.logger.Error("failed to record dispatch",
				"dispatch_id", result.DispatchID,
				"error", err,
			)
		}
	}

	if d.hub != nil {
		d.hub.Broadcast("dispatch.completed", result)
	}

	if d.publisher != nil && d.topicFor != nil {
		payload, err := json.Marshal(result)
		if err == nil {
			err = d.publisher.Publish(d.topicFor(result.Action), payload, d.qos, false)
		}
		if err != nil {
			d.logger.Error("failed to publish dispatch event",
				"dispatch_id", result.DispatchID,
				"error", err,
			)
		}
	}

	if d.metrics != nil {
		d.metrics.WriteDispatchMetric(
			result.Action,
			string(result.Category),
			string(result.Outcome),
			result.DurationMS(),
		)
	}
}

// participantID safely extracts an ID for audit records (p may be nil).
func participantID(p participant.Participant) string {
	if p == nil {
		return ""
	}
	return p.ID()
}
