// Package action implements the device-aware action routing core.
//
// Independent scene objects (doors, buttons, pickups) declare one
// logical action with up to three device-specific behaviours. The
// Registry stores those declarations; the Dispatcher resolves each
// raw interaction into the right behaviour for the participant's
// device category.
//
// # Handler selection
//
// Trigger selects a handler in strict precedence order:
//
//  1. The handler registered for the participant's exact category.
//  2. The Desktop handler, when fallback_to_desktop is enabled.
//  3. The first present handler in VR, Mobile, Desktop order.
//
// This lets an action ship with a partial handler set (commonly only
// Desktop) and still function for every device, while exact-match
// precedence rewards richer authoring.
//
// # Isolation
//
// Handler errors and panics are caught at the dispatch boundary,
// logged, and reflected in the Result. One handler's failure never
// aborts a dispatch call, corrupts registry or cache state, or affects
// a subsequent trigger. Trigger itself never returns an error.
//
// # Audit trail
//
// Every dispatch produces a Result with a unique ID and duration.
// When side channels are attached the result is persisted to the
// dispatch_log table, broadcast to WebSocket subscribers, published to
// MQTT, and recorded as an InfluxDB point. All side channels are
// best-effort.
package action
