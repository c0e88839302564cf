package niimbot

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptTransport queues one canned reply per write. A nil entry leaves
// nothing to read, which fails that attempt's response read.
type scriptTransport struct {
	replies [][]byte
	writes  [][]byte
	rd      bytes.Buffer
}

func (s *scriptTransport) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	s.writes = append(s.writes, cp)

	if len(s.replies) > 0 {
		if r := s.replies[0]; r != nil {
			s.rd.Write(r)
		}
		s.replies = s.replies[1:]
	}
	return len(p), nil
}

func (s *scriptTransport) Read(p []byte) (int, error) {
	if s.rd.Len() == 0 {
		return 0, errors.New("connection closed while reading")
	}
	return s.rd.Read(p)
}

func (s *scriptTransport) Close() error {
	return nil
}

func frame(t *testing.T, typ byte, data []byte) []byte {
	t.Helper()
	out, err := packet{typ: typ, data: data}.MarshalBinary()
	require.NoError(t, err)
	return out
}

func TestTransceiveRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	good := frame(t, 0xDD, []byte{0x01})
	s := &scriptTransport{replies: [][]byte{nil, nil, good}}
	c := NewClient(s)

	res, err := c.transceive(context.Background(), cmdHeartbeat, []byte{0x01}, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(0xDD), res.typ)
	assert.Len(t, s.writes, 3)
}

func TestTransceiveExhaustsRetries(t *testing.T) {
	t.Parallel()

	s := &scriptTransport{}
	c := NewClient(s)

	_, err := c.transceive(context.Background(), cmdHeartbeat, []byte{0x01}, 1)
	require.Error(t, err)

	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, maxAttempts, exhausted.Attempts)
	assert.Len(t, s.writes, maxAttempts)
}

func TestTransceiveDeviceErrorReply(t *testing.T) {
	t.Parallel()

	bad := frame(t, responseError, []byte{0x01})
	s := &scriptTransport{replies: [][]byte{bad, bad, bad}}
	c := NewClient(s)

	_, err := c.transceive(context.Background(), cmdHeartbeat, []byte{0x01}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDevice)
}

func TestTransceiveUnexpectedTypeReply(t *testing.T) {
	t.Parallel()

	wrong := frame(t, 0x10, []byte{0x01})
	s := &scriptTransport{replies: [][]byte{wrong, wrong, wrong}}
	c := NewClient(s)

	_, err := c.transceive(context.Background(), cmdHeartbeat, []byte{0x01}, 1)
	require.Error(t, err)

	var unexpected UnexpectedResponseError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, UnexpectedResponseError{Got: 0x10, Want: 0xDD}, unexpected)
}

func TestTransceiveBadMagicRetries(t *testing.T) {
	t.Parallel()

	// a garbage header burns this attempt and the stray bytes behind it
	// desync the next one; the third attempt reads the clean reply
	garbage := bytes.Repeat([]byte{0x00}, 8)
	good := frame(t, 0xDD, []byte{0x01})
	s := &scriptTransport{replies: [][]byte{garbage, good}}
	c := NewClient(s)

	res, err := c.transceive(context.Background(), cmdHeartbeat, []byte{0x01}, 1)
	require.NoError(t, err)
	assert.Equal(t, byte(0xDD), res.typ)
	assert.Len(t, s.writes, 3)
}

func TestDrain(t *testing.T) {
	t.Parallel()

	s := &scriptTransport{}
	s.rd.Write(frame(t, 0xDD, []byte{0x01, 0x02}))
	s.rd.Write(frame(t, 0xB3, []byte{0x00, 0x01, 0x05, 0x05}))
	s.rd.Write([]byte{headerByte, headerByte, 0x85}) // partial third frame

	c := NewClient(s)
	packets, err := c.drain()
	require.NoError(t, err)

	require.Len(t, packets, 2)
	assert.Equal(t, byte(0xDD), packets[0].typ)
	assert.Equal(t, byte(0xB3), packets[1].typ)
	assert.Len(t, c.buf, 3)
}
