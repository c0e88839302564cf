package niimbot

import (
	"errors"
	"fmt"
	"strings"
)

// FrameError reports a malformed wire frame: bad sentinels, a length
// byte that disagrees with the byte count, or a checksum mismatch.
type FrameError string

func (e FrameError) Error() string {
	return string(e)
}

// Reserved response type codes.
const (
	responseError         byte = 219
	responseUnimplemented byte = 0
)

var (
	// ErrDevice is returned when the printer answers with its reserved
	// error packet type.
	ErrDevice = errors.New("printer returned error packet")
	// ErrUnimplemented is returned when the printer answers with the
	// reserved not-supported packet type.
	ErrUnimplemented = errors.New("request not implemented by printer")
	// ErrNoDevice is returned by serial auto-detection when no ports
	// are present.
	ErrNoDevice = errors.New("no serial ports detected")
	// ErrReadTimeout is returned when a transport read deadline lapses
	// with no data.
	ErrReadTimeout = errors.New("read timed out")
)

// UnexpectedResponseError reports a well-formed reply of the wrong type.
type UnexpectedResponseError struct {
	Got  byte
	Want byte
}

func (e UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response code %d, expected %d", e.Got, e.Want)
}

// AmbiguousDeviceError lists the candidates when serial auto-detection
// finds more than one port. Select one explicitly to resolve it.
type AmbiguousDeviceError []string

func (e AmbiguousDeviceError) Error() string {
	return "too many serial ports, please select a specific one:\n- " + strings.Join(e, "\n- ")
}

// RetriesExhaustedError is the terminal failure of a transceive cycle.
// It wraps the last attempt's error so callers can distinguish "the
// device said no" from "we gave up".
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

func classifyResponse(res packet, expected byte) error {
	switch {
	case res.typ == responseError:
		return ErrDevice
	case res.typ == responseUnimplemented:
		return ErrUnimplemented
	case res.typ != expected:
		return UnexpectedResponseError{Got: res.typ, Want: expected}
	}
	return nil
}
