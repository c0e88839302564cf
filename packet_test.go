package niimbot

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketMarshal(t *testing.T) {
	t.Parallel()

	p := packet{typ: 0xDC, data: []byte{0x01}}
	out, err := p.MarshalBinary()
	require.NoError(t, err)

	expected := must(hex.DecodeString(`5555dc0101dcaaaa`))
	assert.Equal(t, expected, out)
}

func TestPacketUnmarshal(t *testing.T) {
	t.Parallel()

	b := must(hex.DecodeString(`5555dc0101dcaaaa`))
	var p packet
	err := p.UnmarshalBinary(b)
	require.NoError(t, err)

	assert.Equal(t, packet{typ: 0xDC, data: []byte{0x01}}, p)
}

func TestPacketRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []packet{
		{typ: 0x00, data: []byte{}},
		{typ: 0x01, data: []byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{typ: 0x85, data: bytes.Repeat([]byte{0x5A}, 255)},
		{typ: 0xFF, data: []byte{0xFF}},
	}
	for _, c := range cases {
		out, err := c.MarshalBinary()
		require.NoError(t, err)

		var p packet
		require.NoError(t, p.UnmarshalBinary(out))
		assert.Equal(t, c.typ, p.typ)
		assert.Equal(t, c.data, p.data)
	}
}

func TestPacketMarshalTooLarge(t *testing.T) {
	t.Parallel()

	_, err := packet{typ: 0x85, data: make([]byte, 256)}.MarshalBinary()
	assert.Error(t, err)
}

func TestPacketUnmarshalCorrupt(t *testing.T) {
	t.Parallel()

	good := must(packet{typ: 0xDC, data: []byte{0x01}}.MarshalBinary())

	corrupt := func(idx int) []byte {
		b := make([]byte, len(good))
		copy(b, good)
		b[idx] ^= 0xFF
		return b
	}

	cases := map[string][]byte{
		"bad header":      corrupt(0),
		"bad footer":      corrupt(len(good) - 1),
		"bad length":      corrupt(3),
		"bad checksum":    corrupt(len(good) - 3),
		"truncated":       good[:len(good)-1],
		"short":           must(hex.DecodeString(`5555aaaa`)),
		"trailing excess": append(append([]byte{}, good...), 0x00),
	}
	for name, b := range cases {
		var p packet
		err := p.UnmarshalBinary(b)
		assert.Error(t, err, name)

		var fe FrameError
		assert.ErrorAs(t, err, &fe, name)
	}
}
