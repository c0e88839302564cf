package niimbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestDetectPortNone(t *testing.T) {
	t.Parallel()

	_, err := detectPort(nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestDetectPortSingle(t *testing.T) {
	t.Parallel()

	name, err := detectPort([]*enumerator.PortDetails{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "3513", PID: "0002", Product: "NIIMBOT B21"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", name)
}

func TestDetectPortAmbiguous(t *testing.T) {
	t.Parallel()

	_, err := detectPort([]*enumerator.PortDetails{
		{Name: "/dev/ttyACM0", IsUSB: true, VID: "3513", PID: "0002", Product: "NIIMBOT B21"},
		{Name: "/dev/ttyUSB1", Product: "USB-Serial Controller"},
	})
	require.Error(t, err)

	var ambiguous AmbiguousDeviceError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous, 2)
	assert.Contains(t, err.Error(), "/dev/ttyACM0")
	assert.Contains(t, err.Error(), "/dev/ttyUSB1")
}
