package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable choice: any JSON tooling can read a decompressed
// snapshot block. Element types must round-trip through encoding/json, so
// funcs, channels and complex numbers are not supported.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for new snapshots.
//
// Existing snapshots store their codec name and are decoded with that codec
// regardless of Default.
var Default Codec = GoJSON{}
