// Package protocol defines the read-only observer wire messages. Observers
// subscribe and receive one frame per completed tick; nothing on this
// surface can mutate the simulation.
package protocol

// Version is the observer protocol version string.
const Version = "1.0"

const (
	TypeHello = "HELLO"
	TypeFrame = "FRAME"
	TypeError = "ERROR"
)

// HelloMsg is sent once when an observer attaches.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   int64  `json:"seed"`
	Tick   uint64 `json:"tick"`

	TickRateHz int `json:"tick_rate_hz"`
}

// FrameMsg is the per-tick observation: the tick counter, the layered
// checksum and a population/event summary.
type FrameMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	Tick       uint64 `json:"tick"`
	Population int    `json:"population"`

	Checksum ChecksumMsg `json:"checksum"`

	Events []EventMsg `json:"events,omitempty"`
}

// ChecksumMsg carries the layered verification value as fixed-width hex so
// external regression tooling can diff it textually.
type ChecksumMsg struct {
	Tick uint64 `json:"tick"`
	Seed int64  `json:"seed"`

	Height     string `json:"height"`
	Flow       string `json:"flow"`
	Moisture   string `json:"moisture"`
	Biome      string `json:"biome"`
	Vegetation string `json:"vegetation"`
	Agents     string `json:"agents"`

	Composite string `json:"composite"`
}

// EventMsg mirrors one history event appended during the frame's tick.
type EventMsg struct {
	Tick   uint64 `json:"tick"`
	Kind   string `json:"kind"`
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ErrorMsg reports a protocol-level failure before the connection closes.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}
