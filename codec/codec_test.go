package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    uint64   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	block := []record{
		{ID: 1, Title: "a", Tags: []string{"x"}},
		{ID: 2, Title: "b"},
		{ID: 1 << 40, Title: "ünïcode"},
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(block)
			require.NoError(t, err)

			var got []record
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, block, got)
		})
	}
}

func TestCodecs_Interchangeable(t *testing.T) {
	values := []int{5, 42, -1, 0}

	var got []int
	require.NoError(t, GoJSON{}.Unmarshal(MustMarshal(JSON{}, values), &got))
	assert.Equal(t, values, got)

	got = nil
	require.NoError(t, JSON{}.Unmarshal(MustMarshal(nil, values), &got))
	assert.Equal(t, values, got)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

type upperJSON struct{ JSON }

func (upperJSON) Name() string { return "upper-json" }

func TestRegister(t *testing.T) {
	Register(upperJSON{})

	c, ok := ByName("upper-json")
	require.True(t, ok)
	assert.Equal(t, "upper-json", c.Name())

	assert.Panics(t, func() { Register(JSON{}) })
	assert.Panics(t, func() { Register(namedJSON("")) })
}

type namedJSON string

func (n namedJSON) Marshal(v any) ([]byte, error)      { return JSON{}.Marshal(v) }
func (n namedJSON) Unmarshal(data []byte, v any) error { return JSON{}.Unmarshal(data, v) }
func (n namedJSON) Name() string                       { return string(n) }

func TestMustMarshal_Panics(t *testing.T) {
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}
