package participant

import "testing"

func TestTracker_JoinLeave(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)

	alice := &stubParticipant{id: "p1", name: "Alice", raw: RawVR}
	bob := &stubParticipant{id: "p2", name: "Bob", raw: RawMobile}

	tr.HandleJoin(alice)
	tr.HandleJoin(bob)
	if got := tr.LiveCount(); got != 2 {
		t.Errorf("LiveCount() = %d, want 2", got)
	}

	tr.HandleLeave(alice)
	if got := tr.LiveCount(); got != 1 {
		t.Errorf("LiveCount() after leave = %d, want 1", got)
	}
}

func TestTracker_JoinDoesNotClassify(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)

	p := &stubParticipant{id: "p1", name: "Alice", raw: RawVR}
	tr.HandleJoin(p)

	if p.deviceCalls != 0 {
		t.Errorf("raw signal read %d times on join, want 0 (classification is lazy)", p.deviceCalls)
	}
	if c.Size() != 0 {
		t.Errorf("cache size = %d after join, want 0", c.Size())
	}
}

func TestTracker_LeaveEvictsClassification(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)

	p := &stubParticipant{id: "p1", name: "Alice", raw: RawVR}
	tr.HandleJoin(p)
	c.Classify(p)

	if c.Size() != 1 {
		t.Fatalf("cache size = %d before leave, want 1", c.Size())
	}

	tr.HandleLeave(p)
	if c.Size() != 0 {
		t.Errorf("cache size = %d after leave, want 0", c.Size())
	}
}

func TestTracker_LeaveFlooredAtZero(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)

	p := &stubParticipant{id: "p1", name: "Alice"}
	tr.HandleLeave(p)
	tr.HandleLeave(p)

	if got := tr.LiveCount(); got != 0 {
		t.Errorf("LiveCount() = %d, want 0 (floored)", got)
	}
}

func TestTracker_NonParticipantNotCounted(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)

	server := &stubParticipant{id: "srv", name: "Server"}
	unnamed := &stubParticipant{id: "x", name: ""}

	tr.HandleJoin(server)
	tr.HandleJoin(unnamed)

	if got := tr.LiveCount(); got != 0 {
		t.Errorf("LiveCount() = %d, want 0 (non-participants excluded)", got)
	}
}

func TestReporter_Snapshot(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)
	r := NewReporter(c, tr)

	alice := &stubParticipant{id: "p1", name: "Alice", raw: RawVR}
	bob := &stubParticipant{id: "p2", name: "Bob", raw: RawMobile}
	carol := &stubParticipant{id: "p3", name: "Carol", raw: RawDesktop}

	tr.HandleJoin(alice)
	tr.HandleJoin(bob)
	tr.HandleJoin(carol)

	// Only two of three have triggered classification.
	c.Classify(alice)
	c.Classify(bob)

	stats := r.Snapshot()
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3 (presence is eager)", stats.Total)
	}
	if stats.VR != 1 || stats.Mobile != 1 || stats.Desktop != 0 {
		t.Errorf("per-category = {VR:%d Mobile:%d Desktop:%d}, want {VR:1 Mobile:1 Desktop:0}",
			stats.VR, stats.Mobile, stats.Desktop)
	}
}

func TestReporter_SnapshotEmpty(t *testing.T) {
	c := NewClassifier(Options{})
	tr := NewTracker(c)
	r := NewReporter(c, tr)

	stats := r.Snapshot()
	if stats.Total != 0 || stats.VR != 0 || stats.Mobile != 0 || stats.Desktop != 0 {
		t.Errorf("empty Snapshot() = %+v, want all zeros", stats)
	}
}
