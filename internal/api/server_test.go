package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/PratikJH153/universal-toolkit-core/internal/action"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/config"
	"github.com/PratikJH153/universal-toolkit-core/internal/infrastructure/logging"
	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// stubParticipant is a fixed-identity participant for API tests.
type stubParticipant struct {
	id   string
	name string
	raw  participant.RawDeviceType
}

func (p *stubParticipant) ID() string   { return p.id }
func (p *stubParticipant) Name() string { return p.name }
func (p *stubParticipant) DeviceType() (participant.RawDeviceType, error) {
	return p.raw, nil
}

// stubFinder resolves participants from a static map.
type stubFinder map[string]participant.Participant

func (f stubFinder) Find(id string) (participant.Participant, bool) {
	p, ok := f[id]
	return p, ok
}

// testEnv bundles the wired components behind a test server.
type testEnv struct {
	srv        *Server
	router     http.Handler
	registry   *action.Registry
	classifier *participant.Classifier
	tracker    *participant.Tracker
	finder     stubFinder
}

// testServer wires a Server over real routing components and an
// in-memory SQLite dispatch log.
func testServer(t *testing.T, allowOverride bool) *testEnv {
	t.Helper()

	registry := action.NewRegistry()
	classifier := participant.NewClassifier(participant.Options{
		AllowOverride: allowOverride,
	})
	tracker := participant.NewTracker(classifier)
	reporter := participant.NewReporter(classifier, tracker)
	dispatcher := action.NewDispatcher(registry, classifier, action.Options{FallbackToDesktop: true}, nil)

	db := setupTestDB(t)
	repo := action.NewSQLiteRepository(db)
	dispatcher.SetRecorder(repo)

	finder := stubFinder{}
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:       log,
		Registry:     registry,
		Dispatcher:   dispatcher,
		Classifier:   classifier,
		Reporter:     reporter,
		DispatchRepo: repo,
		Participants: finder,
		Version:      "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return &testEnv{
		srv:        srv,
		router:     srv.buildRouter(),
		registry:   registry,
		classifier: classifier,
		tracker:    tracker,
		finder:     finder,
	}
}

// setupTestDB creates an in-memory SQLite database with the dispatch log schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE dispatch_log (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			participant_id TEXT,
			category TEXT,
			handler_category TEXT,
			outcome TEXT NOT NULL,
			target TEXT,
			error TEXT,
			duration_ms REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_dispatch_log_action ON dispatch_log(action);
		CREATE INDEX idx_dispatch_log_created_at ON dispatch_log(created_at);
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	env := testServer(t, false)

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeBody(t, w)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

func TestStats(t *testing.T) {
	env := testServer(t, false)

	vr := &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}
	desktop := &stubParticipant{id: "p2", name: "Bob", raw: participant.RawDesktop}
	env.tracker.HandleJoin(vr)
	env.tracker.HandleJoin(desktop)

	// Only p1 has interacted, so only p1 is classified.
	env.classifier.Classify(vr)

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeBody(t, w)
	if resp["total"] != float64(2) {
		t.Errorf("total = %v, want 2", resp["total"])
	}
	if resp["vr"] != float64(1) {
		t.Errorf("vr = %v, want 1", resp["vr"])
	}
	if resp["desktop"] != float64(0) {
		t.Errorf("desktop = %v, want 0 before first interaction", resp["desktop"])
	}
}

func TestListActions(t *testing.T) {
	env := testServer(t, false)

	noop := func(_ context.Context, _ action.Context) error { return nil }
	env.registry.Register("door_interact", action.HandlerSet{Desktop: noop})
	env.registry.Register("button_press", action.HandlerSet{Desktop: noop})

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/actions/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("actions status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeBody(t, w)
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}
	actions, ok := resp["actions"].([]any)
	if !ok || len(actions) != 2 {
		t.Fatalf("actions = %v, want 2 entries", resp["actions"])
	}
	// Names are sorted
	if actions[0] != "button_press" || actions[1] != "door_interact" {
		t.Errorf("actions = %v, want sorted [button_press door_interact]", actions)
	}
}

func TestTriggerAction(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	invoked := false
	env.registry.Register("door_interact", action.HandlerSet{
		VR: func(_ context.Context, ic action.Context) error {
			invoked = true
			if ic.Target != "door-lobby" {
				t.Errorf("target = %q, want door-lobby", ic.Target)
			}
			return nil
		},
	})

	body := `{"participant_id":"p1","target":"door-lobby","payload":{"force":0.5}}`
	w := doRequest(t, env.router, http.MethodPost, "/api/v1/actions/door_interact/trigger", body)
	if w.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	if !invoked {
		t.Error("VR handler was not invoked")
	}

	resp := decodeBody(t, w)
	if resp["outcome"] != string(action.OutcomeDispatched) {
		t.Errorf("outcome = %v, want dispatched", resp["outcome"])
	}
	if resp["category"] != string(participant.CategoryVR) {
		t.Errorf("category = %v, want VR", resp["category"])
	}
	if resp["dispatch_id"] == "" {
		t.Error("dispatch_id missing from response")
	}
}

func TestTriggerAction_Validation(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"missing participant_id", `{}`, http.StatusBadRequest},
		{"unknown participant", `{"participant_id":"ghost"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, env.router, http.MethodPost, "/api/v1/actions/anything/trigger", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestTriggerAction_UnregisteredIsNoOp(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	body := `{"participant_id":"p1"}`
	w := doRequest(t, env.router, http.MethodPost, "/api/v1/actions/never_registered/trigger", body)
	if w.Code != http.StatusOK {
		t.Fatalf("trigger status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeBody(t, w)
	if resp["outcome"] != string(action.OutcomeUnregistered) {
		t.Errorf("outcome = %v, want unregistered", resp["outcome"])
	}
}

func TestListDispatches(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawMobile}

	noop := func(_ context.Context, _ action.Context) error { return nil }
	env.registry.Register("door_interact", action.HandlerSet{Mobile: noop})
	env.registry.Register("button_press", action.HandlerSet{Mobile: noop})

	doRequest(t, env.router, http.MethodPost, "/api/v1/actions/door_interact/trigger", `{"participant_id":"p1"}`)
	doRequest(t, env.router, http.MethodPost, "/api/v1/actions/button_press/trigger", `{"participant_id":"p1"}`)

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/dispatches/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dispatches status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["count"] != float64(2) {
		t.Errorf("count = %v, want 2", resp["count"])
	}

	// Filter by action name
	w = doRequest(t, env.router, http.MethodGet, "/api/v1/dispatches/?action=door_interact", "")
	resp = decodeBody(t, w)
	if resp["count"] != float64(1) {
		t.Errorf("filtered count = %v, want 1", resp["count"])
	}
}

func TestGetDispatch(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawDesktop}

	noop := func(_ context.Context, _ action.Context) error { return nil }
	env.registry.Register("door_interact", action.HandlerSet{Desktop: noop})

	w := doRequest(t, env.router, http.MethodPost, "/api/v1/actions/door_interact/trigger", `{"participant_id":"p1"}`)
	resp := decodeBody(t, w)
	dispatchID, _ := resp["dispatch_id"].(string)
	if dispatchID == "" {
		t.Fatal("dispatch_id missing from trigger response")
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/v1/dispatches/"+dispatchID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get dispatch status = %d, want %d", w.Code, http.StatusOK)
	}
	record := decodeBody(t, w)
	if record["action"] != "door_interact" {
		t.Errorf("action = %v, want door_interact", record["action"])
	}
	if record["participant_id"] != "p1" {
		t.Errorf("participant_id = %v, want p1", record["participant_id"])
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/v1/dispatches/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing dispatch status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetClassification(t *testing.T) {
	env := testServer(t, false)

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/participants/p1/classification/", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unclassified status = %d, want %d", w.Code, http.StatusNotFound)
	}

	env.classifier.Classify(&stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR})

	w = doRequest(t, env.router, http.MethodGet, "/api/v1/participants/p1/classification/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("classified status = %d, want %d", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["category"] != string(participant.CategoryVR) {
		t.Errorf("category = %v, want VR", resp["category"])
	}
}

func TestOverrideClassification_Disabled(t *testing.T) {
	env := testServer(t, false)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	w := doRequest(t, env.router, http.MethodPut, "/api/v1/participants/p1/classification/", `{"category":"Mobile"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("override status = %d, want %d when disabled", w.Code, http.StatusForbidden)
	}
}

func TestOverrideClassification_Enabled(t *testing.T) {
	env := testServer(t, true)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	w := doRequest(t, env.router, http.MethodPut, "/api/v1/participants/p1/classification/", `{"category":"Mobile"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("override status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	category, ok := env.classifier.Lookup("p1")
	if !ok || category != participant.CategoryMobile {
		t.Errorf("Lookup() = (%v, %v), want (Mobile, true)", category, ok)
	}
}

func TestOverrideClassification_Validation(t *testing.T) {
	env := testServer(t, true)
	env.finder["p1"] = &stubParticipant{id: "p1", name: "Alice", raw: participant.RawVR}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"invalid category", "/api/v1/participants/p1/classification/", `{"category":"Console"}`, http.StatusBadRequest},
		{"invalid json", "/api/v1/participants/p1/classification/", `{not json`, http.StatusBadRequest},
		{"unknown participant", "/api/v1/participants/ghost/classification/", `{"category":"VR"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, env.router, http.MethodPut, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := testServer(t, false)

	w := doRequest(t, env.router, http.MethodGet, "/api/v1/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}
