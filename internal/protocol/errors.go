package protocol

const (
	// Transport/handshake validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Simulation state.
	ErrWorldBusy         = "E_WORLD_BUSY"
	ErrSnapshotVersion   = "E_SNAPSHOT_VERSION"
	ErrSnapshotMalformed = "E_SNAPSHOT_MALFORMED"
	ErrInternal          = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:   {},
	ErrProtoVersion:      {},
	ErrWorldBusy:         {},
	ErrSnapshotVersion:   {},
	ErrSnapshotMalformed: {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
