package world

// JoinMessage announces a participant entering the world.
//
// Published by the world runtime on toolkit/world/join. DeviceType is
// the raw signal as reported ("VR", "Mobile", "Desktop", anything
// else maps to Other); it may be absent when the runtime could not
// read it, in which case classification retries on first dispatch.
type JoinMessage struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	DeviceType    string `json:"device_type,omitempty"`
}

// LeaveMessage announces a participant leaving the world.
//
// Published on toolkit/world/leave.
type LeaveMessage struct {
	ParticipantID string `json:"participant_id"`
}

// InteractionMessage is a raw interaction event (grab-start, tap,
// click) from a scene object.
//
// Published on toolkit/world/interaction. The bridge translates it
// into a dispatcher Trigger call.
type InteractionMessage struct {
	Action        string         `json:"action"`
	ParticipantID string         `json:"participant_id"`
	Target        string         `json:"target,omitempty"`
	Payload       map[string]any `json:"payload,omitempty"`
}
