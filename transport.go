package niimbot

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Transport is an open duplex byte channel to one printer. It is owned
// by a single Client for its lifetime; there is no reconnection, a
// failed transport ends the session.
type Transport interface {
	io.ReadWriteCloser
}

const (
	serialBaudRate    = 115200
	serialReadTimeout = 500 * time.Millisecond
	dialTimeout       = 5 * time.Second
)

// DialTCP connects to a network printer at host:port. A net.Conn already
// satisfies the transport contract: writes are full-or-error and exact
// reads are done by the caller with io.ReadFull.
func DialTCP(addr string) (_ Transport, err error) {
	defer deferWrap(&err)

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return
	}
	slog.Debug("connected", "addr", addr)
	return conn, nil
}

type serialTransport struct {
	port serial.Port
}

// OpenSerial opens the named serial device at the fixed protocol baud
// rate. An empty name auto-detects: exactly one enumerated port must be
// present.
func OpenSerial(name string) (_ Transport, err error) {
	defer deferWrap(&err)

	if name == "" {
		var ports []*enumerator.PortDetails
		ports, err = enumerator.GetDetailedPortsList()
		if err != nil {
			return
		}
		name, err = detectPort(ports)
		if err != nil {
			return
		}
		slog.Info("auto-detected serial port", "port", name)
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: serialBaudRate})
	if err != nil {
		return
	}
	err = port.SetReadTimeout(serialReadTimeout)
	if err != nil {
		_ = port.Close()
		return
	}

	return &serialTransport{port: port}, nil
}

func detectPort(ports []*enumerator.PortDetails) (string, error) {
	switch len(ports) {
	case 0:
		return "", ErrNoDevice
	case 1:
		return ports[0].Name, nil
	}

	candidates := make([]string, len(ports))
	for i, p := range ports {
		desc := p.Product
		if p.IsUSB {
			desc = fmt.Sprintf("%s [%s:%s]", p.Product, p.VID, p.PID)
		}
		candidates[i] = fmt.Sprintf("%s : %s", p.Name, desc)
	}
	return "", AmbiguousDeviceError(candidates)
}

// Read converts a timed-out zero-byte read into an error so io.ReadFull
// callers cannot spin on an idle port.
func (t *serialTransport) Read(p []byte) (int, error) {
	n, err := t.port.Read(p)
	if err == nil && n == 0 {
		return 0, ErrReadTimeout
	}
	return n, err
}

func (t *serialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}
