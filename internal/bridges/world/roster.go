package world

import (
	"sync"

	"github.com/PratikJH153/universal-toolkit-core/internal/participant"
)

// RemoteParticipant is a roster entry satisfying participant.Participant.
//
// It wraps the identity and raw device signal carried by the join
// message. A missing signal surfaces as an error from DeviceType,
// which the classifier absorbs (resolves to Desktop, not cached) so a
// later signal report can still classify correctly.
type RemoteParticipant struct {
	id     string
	name   string
	signal string
}

// ID returns the participant's stable session identifier.
func (p *RemoteParticipant) ID() string { return p.id }

// Name returns the participant's display name.
func (p *RemoteParticipant) Name() string { return p.name }

// DeviceType returns the raw device signal as reported by the world
// runtime, or ErrNoDeviceSignal if none was reported.
func (p *RemoteParticipant) DeviceType() (participant.RawDeviceType, error) {
	switch p.signal {
	case "":
		return "", ErrNoDeviceSignal
	case string(participant.RawVR):
		return participant.RawVR, nil
	case string(participant.RawMobile):
		return participant.RawMobile, nil
	case string(participant.RawDesktop):
		return participant.RawDesktop, nil
	default:
		return participant.RawOther, nil
	}
}

// Roster tracks the remote participants currently in the world.
//
// All public methods are thread-safe.
type Roster struct {
	entries map[string]*RemoteParticipant
	mu      sync.RWMutex
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{
		entries: make(map[string]*RemoteParticipant),
	}
}

// Add inserts or updates a roster entry from a join message and
// returns the entry. A rejoin refreshes name and device signal.
func (r *Roster) Add(msg JoinMessage) *RemoteParticipant {
	p := &RemoteParticipant{
		id:     msg.ParticipantID,
		name:   msg.Name,
		signal: msg.DeviceType,
	}

	r.mu.Lock()
	r.entries[msg.ParticipantID] = p
	r.mu.Unlock()

	return p
}

// Remove deletes a roster entry and returns it, or nil if absent.
func (r *Roster) Remove(id string) *RemoteParticipant {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.entries[id]
	if !ok {
		return nil
	}
	delete(r.entries, id)
	return p
}

// Get returns the roster entry for an identifier, or nil if absent.
func (r *Roster) Get(id string) *RemoteParticipant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[id]
}

// Find resolves a live participant by identifier. The boolean form
// lets callers hold the roster behind a small lookup interface.
func (r *Roster) Find(id string) (participant.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return p, true
}

// Count returns the number of roster entries.
func (r *Roster) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
