// Package codec encodes the element blocks of a snapshot.
//
// A snapshot records the name of the codec it was written with, so a reader
// picks the matching codec with ByName. Changing the codec of a deployment is
// therefore safe for new snapshots, but older snapshots still need their
// original codec to be registered.
package codec

import (
	"fmt"
	"sync"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Codec{}
)

// Register makes a custom codec available to ByName. It panics if the name
// is empty, longer than 255 bytes, or already taken by a built-in codec.
func Register(c Codec) {
	name := c.Name()
	if name == "" || len(name) > 255 {
		panic(fmt.Sprintf("codec: invalid name %q", name))
	}
	if _, ok := builtin(name); ok {
		panic(fmt.Sprintf("codec: %q is a built-in codec", name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = c
}

// ByName returns a codec by its stable name.
//
// Snapshot readers use it to resolve the codec name stored in the header.
func ByName(name string) (Codec, bool) {
	if c, ok := builtin(name); ok {
		return c, true
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[name]
	return c, ok
}

func builtin(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
