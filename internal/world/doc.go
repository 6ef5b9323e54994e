// Package world provides the built-in interactive objects shipped with
// Toolkit Core.
//
// The built-ins (door, button, pickup) exercise the full routing
// contract: full, partial, and mixed handler sets whose behaviours
// publish device-appropriate commands to the target object's MQTT
// topic. World runtimes subscribe to toolkit/command/{target} and
// animate accordingly.
package world
