package niimbot

import (
	"encoding"
	"errors"
)

const (
	headerByte byte = 0x55
	footerByte byte = 0xAA
)

// packet is one protocol frame. Wire form is
// 55 55 | type | len | data | checksum | AA AA
// where checksum is the XOR of type, len and data.
type packet struct {
	typ  byte
	data []byte
}

var (
	_ encoding.BinaryMarshaler   = packet{}
	_ encoding.BinaryUnmarshaler = (*packet)(nil)
)

func (p packet) MarshalBinary() (_ []byte, err error) {
	defer deferWrap(&err)

	if len(p.data) > 0xFF {
		err = errors.New("data too large")
		return
	}

	buf := make([]byte, 0, 7+len(p.data))

	// 0-1
	buf = append(buf, headerByte, headerByte)
	// 2-3
	buf = append(buf, p.typ, byte(len(p.data)))
	// 4-
	buf = append(buf, p.data...)

	buf = append(buf,
		xor8(buf[2:]), // checksum covers type, length and data
		footerByte, footerByte,
	)

	return buf, nil
}

// UnmarshalBinary decodes exactly one frame. The caller supplies one
// frame's worth of bytes; trailing or missing bytes are an error, never
// silently consumed.
func (p *packet) UnmarshalBinary(data []byte) (err error) {
	defer deferWrap(&err)

	if len(data) < 7 {
		err = FrameError("packet too short")
		return
	}
	if data[0] != headerByte || data[1] != headerByte {
		err = FrameError("invalid header")
		return
	}
	if data[len(data)-2] != footerByte || data[len(data)-1] != footerByte {
		err = FrameError("invalid footer")
		return
	}

	dataLen := int(data[3])
	if len(data) != dataLen+7 {
		err = FrameError("corrupt packet data length")
		return
	}
	if xor8(data[2:len(data)-3]) != data[len(data)-3] {
		err = FrameError("checksum mismatch")
		return
	}

	p.typ = data[2]
	p.data = make([]byte, dataLen)
	copy(p.data, data[4:4+dataLen])

	return nil
}
