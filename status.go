package niimbot

import (
	"encoding/binary"
	"encoding/hex"
)

// RFIDTag describes the label roll tag currently in the printer.
type RFIDTag struct {
	UUID        string
	Barcode     string
	Serial      string
	TotalLength uint16
	UsedLength  uint16
	Type        byte
}

// decodeRFID parses the positional RFID payload: 8 byte UUID, a
// length-prefixed barcode, a length-prefixed serial, then a fixed five
// byte trailer. A leading zero byte means no tag is present.
func decodeRFID(data []byte) (_ *RFIDTag, err error) {
	defer deferWrap(&err)

	if len(data) == 0 {
		err = FrameError("empty rfid payload")
		return
	}
	if data[0] == 0 {
		return nil, nil
	}
	if len(data) < 9 {
		err = FrameError("rfid payload truncated")
		return
	}

	tag := &RFIDTag{UUID: hex.EncodeToString(data[:8])}
	idx := 8

	barcodeLen := int(data[idx])
	idx++
	if len(data) < idx+barcodeLen+1 {
		err = FrameError("rfid payload truncated")
		return
	}
	tag.Barcode = string(data[idx : idx+barcodeLen])
	idx += barcodeLen

	serialLen := int(data[idx])
	idx++
	if len(data) != idx+serialLen+5 {
		err = FrameError("rfid payload truncated")
		return
	}
	tag.Serial = string(data[idx : idx+serialLen])
	idx += serialLen

	tag.TotalLength = binary.BigEndian.Uint16(data[idx:])
	tag.UsedLength = binary.BigEndian.Uint16(data[idx+2:])
	tag.Type = data[idx+4]

	return tag, nil
}

// Heartbeat reports printer state. A nil field means the responding
// firmware variant does not carry it.
type Heartbeat struct {
	ClosingState  *byte
	PowerLevel    *byte
	PaperState    *byte
	RFIDReadState *byte
}

// heartbeatLayout maps each field to its byte offset within one payload
// variant, -1 meaning absent. Offsets differ between firmware revisions
// and are kept per-length rather than merged into one schema.
type heartbeatLayout struct {
	closing, power, paper, rfid int
}

var heartbeatLayouts = map[int]heartbeatLayout{
	20: {closing: -1, power: -1, paper: 18, rfid: 19},
	19: {closing: 15, power: 16, paper: 17, rfid: 18},
	13: {closing: 9, power: 10, paper: 11, rfid: 12},
	// length 10 firmware reports closing state and RFID read state in
	// the same byte
	10: {closing: 8, power: 9, paper: -1, rfid: 8},
	9:  {closing: 8, power: -1, paper: -1, rfid: -1},
}

// decodeHeartbeat extracts fields by the payload length. An unknown
// length yields a Heartbeat with every field unset.
func decodeHeartbeat(data []byte) Heartbeat {
	layout, ok := heartbeatLayouts[len(data)]
	if !ok {
		return Heartbeat{}
	}
	return Heartbeat{
		ClosingState:  fieldAt(data, layout.closing),
		PowerLevel:    fieldAt(data, layout.power),
		PaperState:    fieldAt(data, layout.paper),
		RFIDReadState: fieldAt(data, layout.rfid),
	}
}

func fieldAt(data []byte, offset int) *byte {
	if offset < 0 {
		return nil
	}
	b := data[offset]
	return &b
}

// PrintStatus is the reply to a print progress query.
type PrintStatus struct {
	Page      uint16
	Progress1 byte
	Progress2 byte
}

func decodePrintStatus(data []byte) (_ PrintStatus, err error) {
	defer deferWrap(&err)

	if len(data) != 4 {
		err = FrameError("print status payload must be 4 bytes")
		return
	}
	return PrintStatus{
		Page:      binary.BigEndian.Uint16(data[:2]),
		Progress1: data[2],
		Progress2: data[3],
	}, nil
}
