package websocket

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// RosterUpdate is the payload of a roster_update message.
type RosterUpdate struct {
	Revision uint64 `json:"revision"`
}

// NewRosterUpdateMessage announces a new roster revision.
func NewRosterUpdateMessage(revision uint64) Message {
	return Message{Action: "roster_update", Payload: RosterUpdate{Revision: revision}}
}
