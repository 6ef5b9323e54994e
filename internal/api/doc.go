// Package api provides the HTTP REST API and WebSocket server for
// Toolkit Core.
//
// It exposes the router's observable surface to operator tools and
// dashboards: population stats, registered actions, the dispatch audit
// trail, manual triggers, and classification overrides, plus real-time
// dispatch events over WebSocket.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
