// Toolkit Core - Device-Aware Action Routing
//
// This is the main entry point for the Toolkit Core daemon. Toolkit
// Core routes interaction events from a shared virtual world to
// device-specific action handlers:
//   - Lazy participant classification (VR / Mobile / Desktop)
//   - Registered actions with per-category handler sets and fallback
//   - Dispatch audit trail, live WebSocket events, optional telemetry
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/PratikJH153/universal-toolkit-core/migrations"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
	"github.com/PratikJH153/universal-toolkit-core/internal/api"
	worldbridge "github.com/PratikJH153/universal-toolkit-core/internal/bridges/world"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/config"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/database"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/influxdb"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/logging"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/mqtt"
	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
	"github.com/PratikJH153/universal-toolkit-core/internal/world"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// rosterMetricInterval is how often the population snapshot is written
// to InfluxDB (when enabled).
const rosterMetricInterval = 30 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Toolkit Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise routing components
	registry := action.NewRegistry()
	registry.SetLogger(log)

	classifier := participant.NewClassifier(participant.Options{
		AllowOverride: cfg.Router.AllowDeviceOverride,
		Verbose:       cfg.Router.VerboseDiagnostics,
		SentinelName:  cfg.Router.SentinelName,
	})
	classifier.SetLogger(log)

	tracker := participant.NewTracker(classifier)
	tracker.SetLogger(log)

	reporter := participant.NewReporter(classifier, tracker)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	qos := byte(cfg.MQTT.QoS)

	// Register built-in world objects
	objects := world.NewObjects(mqttClient, qos)
	if regErr := objects.RegisterBuiltins(registry); regErr != nil {
		return fmt.Errorf("registering built-in objects: %w", regErr)
	}
	log.Info("built-in objects registered", "actions", registry.Names())

	// Wire the dispatcher with its side channels
	dispatcher := action.NewDispatcher(registry, classifier, action.Options{
		FallbackToDesktop: cfg.Router.FallbackToDesktop,
		Verbose:           cfg.Router.VerboseDiagnostics,
	}, log)

	dispatchRepo := action.NewSQLiteRepository(db.DB)
	dispatcher.SetRecorder(dispatchRepo)
	dispatcher.SetPublisher(mqttClient, mqtt.Topics{}.CoreDispatch, qos)
	if influxClient != nil {
		dispatcher.SetMetricsWriter(influxClient)
	}

	// WebSocket hub is shared between the API server and the dispatcher
	hub := api.NewHub(cfg.WebSocket, log)
	dispatcher.SetHub(hub)

	// Start the world event bridge
	bridge, err := worldbridge.NewBridge(worldbridge.BridgeOptions{
		MQTTClient: mqttClient,
		Dispatcher: dispatcher,
		Tracker:    tracker,
		Logger:     log,
		QoS:        qos,
	})
	if err != nil {
		return fmt.Errorf("creating world bridge: %w", err)
	}
	if startErr := bridge.Start(ctx); startErr != nil {
		return fmt.Errorf("starting world bridge: %w", startErr)
	}
	defer func() {
		log.Info("stopping world bridge")
		bridge.Stop()
	}()

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:       cfg.API,
		WS:           cfg.WebSocket,
		Logger:       log,
		Registry:     registry,
		Dispatcher:   dispatcher,
		Classifier:   classifier,
		Reporter:     reporter,
		DispatchRepo: dispatchRepo,
		Participants: bridge.Roster(),
		ExternalHub:  hub,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	// Periodic population telemetry (optional)
	if influxClient != nil {
		go reportRosterMetrics(ctx, reporter, influxClient)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal",
		"world_id", cfg.World.ID,
	)

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. World bridge
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("Toolkit Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses TOOLKIT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("TOOLKIT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// reportRosterMetrics periodically writes the population snapshot to
// InfluxDB until the context is cancelled.
func reportRosterMetrics(ctx context.Context, reporter *participant.Reporter, influxClient *influxdb.Client) {
	ticker := time.NewTicker(rosterMetricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := reporter.Snapshot()
			influxClient.WriteRosterMetric(stats.Total, stats.VR, stats.Mobile, stats.Desktop)
		case <-ctx.Done():
			return
		}
	}
}
