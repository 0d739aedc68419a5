package signaling

// Event names understood by the server. These are part of the wire
// protocol shared with the browser clients and must not be renamed;
// "incomming:call" keeps its historical spelling for the same reason.
const (
	// client -> server
	EventRoomJoin       = "room:join"
	EventUserCall       = "user:call"
	EventCallAccepted   = "call:accepted"
	EventNegoNeeded     = "peer:nego:needed"
	EventNegoDone       = "peer:nego:done"
	EventCodeChange     = "code:change"
	EventUserDisconnect = "user:disconnect"

	// server -> client
	EventRoomJoined   = "room:joined"
	EventUserJoined   = "user:joined"
	EventUserLeft     = "user:left"
	EventIncomingCall = "incomming:call"
	EventNegoFinal    = "peer:nego:final"
	EventCodeSync     = "code:sync"
)

// Message is the JSON envelope for every frame in both directions.
type Message struct {
	// Type is the event name, one of the Event* constants.
	Type string `json:"type"`

	// Data carries the event payload. Addressing fields ("to" on the
	// inbound leg, "from" on the outbound leg) live inside the payload.
	Data map[string]interface{} `json:"data,omitempty"`
}

// ClientInfo is one entry of the enriched member list carried by
// room:joined messages.
type ClientInfo struct {
	SocketID string `json:"socketId"`
	Email    string `json:"email"`
}
