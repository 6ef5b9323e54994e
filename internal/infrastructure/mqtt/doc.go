// Package mqtt provides the MQTT transport layer for Toolkit Core.
//
// It wraps paho.mqtt.golang with connection management, automatic
// reconnection, subscription restoration, and Last Will and Testament
// for offline detection.
//
// # Topic Structure
//
// All Toolkit topics live under the "toolkit/" prefix:
//
//	toolkit/world/join           - participant joined the world
//	toolkit/world/leave          - participant left the world
//	toolkit/world/interaction    - raw interaction events from the world
//	toolkit/command/{target}     - commands to scene objects
//	toolkit/core/dispatch/{name} - dispatch result events from Core
//	toolkit/system/status        - Core online/offline status (retained)
//
// Use the Topics helper to build topic strings rather than hand-rolling
// them at call sites.
//
// # Connection Lifecycle
//
// Connect() establishes the broker connection, configures the LWT on
// toolkit/system/status, and publishes a retained online status. On
// unexpected disconnect the broker publishes the LWT offline payload;
// Close() publishes a graceful offline payload before disconnecting.
//
// Subscriptions registered via Subscribe() are tracked and restored
// automatically when the client reconnects after a broker outage.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return fmt.Errorf("mqtt connect: %w", err)
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{}
//	client.Subscribe(topics.WorldInteraction(), 1, func(topic string, payload []byte) error {
//	    // handle interaction event
//	    return nil
//	})
package mqtt
