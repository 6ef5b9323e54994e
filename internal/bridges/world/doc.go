// Package world bridges raw world events from MQTT into the action
// router.
//
// The world runtime publishes three event streams:
//
//	toolkit/world/join        - participant entered (identity + raw signal)
//	toolkit/world/leave       - participant left
//	toolkit/world/interaction - raw interaction (grab, tap, click)
//
// The bridge maintains a roster of remote participants satisfying
// participant.Participant, feeds presence events to the session
// tracker, and translates interactions into Dispatcher.Trigger calls.
// The router core stays transport-free; this package is its only MQTT
// ingress.
package world
