package niimbot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tinygo.org/x/bluetooth"
)

var (
	niimbotSerialServiceUUID = must(bluetooth.ParseUUID(`E7810A71-73AE-499D-8C15-FAA9AEF0C3F2`))
	niimbotSerialCharUUID    = must(bluetooth.ParseUUID(`BEF8D6C9-9C21-4C9E-B632-BD58C1009F9F`))
)

const bleReadTimeout = 5 * time.Second

// bleTransport speaks the printer protocol over the BLE serial service.
// Notifications on the single serial characteristic feed an internal
// channel that Read drains.
type bleTransport struct {
	device   bluetooth.Device
	char     *bluetooth.DeviceCharacteristic
	incoming chan []byte
	pending  []byte
}

// DialBLE connects to a Bluetooth printer at the given address.
func DialBLE(ctx context.Context, adapter *bluetooth.Adapter, address bluetooth.Address) (_ Transport, err error) {
	defer deferWrap(&err)

	device, err := adapter.Connect(address, bluetooth.ConnectionParams{})
	if err != nil {
		return
	}

	t := &bleTransport{
		device:   device,
		incoming: make(chan []byte, 32),
	}
	defer func() {
		if err != nil {
			_ = t.device.Disconnect()
		}
	}()

	svcs, err := device.DiscoverServices([]bluetooth.UUID{niimbotSerialServiceUUID})
	if err != nil {
		return
	}
	if len(svcs) != 1 {
		err = errors.New("unable to find serial service")
		return
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{niimbotSerialCharUUID})
	if err != nil {
		return
	}
	if len(chars) != 1 {
		err = errors.New("unable to find serial characteristic")
		return
	}
	t.char = &chars[0]

	err = t.char.EnableNotifications(t.notificationCallback(ctx))
	if err != nil {
		return
	}

	return t, nil
}

func (t *bleTransport) notificationCallback(ctx context.Context) func([]byte) {
	return func(d []byte) {
		buf := make([]byte, len(d))
		copy(buf, d)
		select {
		case t.incoming <- buf:
		default:
			slog.WarnContext(ctx, "dropping notification, read buffer full", logHex("data", d))
		}
	}
}

func (t *bleTransport) Read(p []byte) (int, error) {
	if len(t.pending) == 0 {
		select {
		case t.pending = <-t.incoming:
		case <-time.After(bleReadTimeout):
			return 0, ErrReadTimeout
		}
	}
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func (t *bleTransport) Write(p []byte) (n int, err error) {
	defer deferWrap(&err)
	return t.char.Write(p)
}

func (t *bleTransport) Close() error {
	return t.device.Disconnect()
}
