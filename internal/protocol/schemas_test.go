package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"seedworld/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	frameSchema := compile("frame.schema.json")
	errorSchema := compile("error.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "width":64,
	  "height":64,
	  "seed":12345,
	  "tick":0,
	  "tick_rate_hz":10
	}`), &hello)
	validate(helloSchema, hello)

	var frame any
	_ = json.Unmarshal([]byte(`{
	  "type":"FRAME",
	  "protocol_version":"1.0",
	  "tick":7,
	  "population":21,
	  "checksum":{
	    "tick":7,
	    "seed":12345,
	    "height":"00000000deadbeef",
	    "flow":"00000000deadbeef",
	    "moisture":"00000000deadbeef",
	    "biome":"00000000deadbeef",
	    "vegetation":"00000000deadbeef",
	    "agents":"00000000deadbeef",
	    "composite":"00000000deadbeef"
	  },
	  "events":[{"tick":7,"kind":"agent-spawned","x":12,"y":30,"detail":"parent=3 child=21"}]
	}`), &frame)
	validate(frameSchema, frame)

	var errMsg any
	_ = json.Unmarshal([]byte(`{
	  "type":"ERROR",
	  "protocol_version":"1.0",
	  "code":"E_PROTO_VERSION",
	  "message":"unsupported protocol version"
	}`), &errMsg)
	validate(errorSchema, errMsg)
}

func TestSchemas_RoundTripStructs(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	// Marshal the Go structs and confirm the schemas accept what the server
	// actually sends.
	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		Width:           64,
		Height:          64,
		Seed:            12345,
		Tick:            0,
		TickRateHz:      10,
	}
	raw, err := json.Marshal(hello)
	if err != nil {
		t.Fatalf("marshal hello: %v", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal hello: %v", err)
	}
	if err := compile("hello.schema.json").Validate(v); err != nil {
		t.Fatalf("hello struct does not satisfy schema: %v", err)
	}

	frame := protocol.FrameMsg{
		Type:            protocol.TypeFrame,
		ProtocolVersion: protocol.Version,
		Tick:            3,
		Population:      20,
		Checksum: protocol.ChecksumMsg{
			Tick:       3,
			Seed:       12345,
			Height:     "0123456789abcdef",
			Flow:       "0123456789abcdef",
			Moisture:   "0123456789abcdef",
			Biome:      "0123456789abcdef",
			Vegetation: "0123456789abcdef",
			Agents:     "0123456789abcdef",
			Composite:  "0123456789abcdef",
		},
	}
	raw, err = json.Marshal(frame)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if err := compile("frame.schema.json").Validate(v); err != nil {
		t.Fatalf("frame struct does not satisfy schema: %v", err)
	}
}
