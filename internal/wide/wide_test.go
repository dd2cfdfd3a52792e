package wide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []uint16
	}{
		{name: "empty", input: "", want: []uint16{0}},
		{name: "ascii", input: "Node1", want: []uint16{'N', 'o', 'd', 'e', '1', 0}},
		{name: "non-ascii bmp", input: "é", want: []uint16{0x00e9, 0}},
		{name: "surrogate pair", input: "𐍈", want: []uint16{0xd800, 0xdf48, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromStringInteriorNUL(t *testing.T) {
	_, err := FromString("bad\x00name")
	assert.ErrorIs(t, err, ErrInteriorNUL)
}

func TestToString(t *testing.T) {
	tests := []struct {
		name  string
		input []uint16
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "only terminator", input: []uint16{0}, want: ""},
		{name: "stops at first nul", input: []uint16{'a', 'b', 0, 'c'}, want: "ab"},
		{name: "no terminator", input: []uint16{'a', 'b'}, want: "ab"},
		{name: "unpaired surrogate is replaced", input: []uint16{0xd800, 'x', 0}, want: "�x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.input))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"", "Cluster Group", "Volüme 𐍈"} {
		buf, err := FromString(s)
		require.NoError(t, err)
		assert.Equal(t, s, ToString(buf))
	}
}
