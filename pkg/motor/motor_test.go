package motor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"github.com/teslashibe/go-linefollower/pkg/drive"
)

// fakePort records writes in memory.
type fakePort struct {
	bytes.Buffer
	closed   bool
	writeErr error
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.Buffer.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestPortOptions_NormalizeDefaults(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaudRate, got.BaudRate)
	assert.Equal(t, 8, got.DataBits)
	assert.Equal(t, 1, got.StopBits)
	assert.Equal(t, "N", got.Parity)
}

func TestPortOptions_NormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		opts PortOptions
	}{
		{"odd baud", PortOptions{BaudRate: 12345}},
		{"data bits", PortOptions{DataBits: 9}},
		{"stop bits", PortOptions{StopBits: 3}},
		{"parity", PortOptions{Parity: "mark"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.opts.Normalize()
			assert.Error(t, err)
		})
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even"}.SerialMode()
	require.NoError(t, err)

	assert.Equal(t, 9600, mode.BaudRate)
	assert.Equal(t, 7, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)

	mode, err = PortOptions{}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)

	_, err = PortOptions{StopBits: 5}.SerialMode()
	assert.Error(t, err)
}

func TestSerial_Drive(t *testing.T) {
	port := &fakePort{}
	s := NewSerial(port, 250)

	require.NoError(t, s.Drive(drive.Command{Left: 220, Right: -100}))
	require.NoError(t, s.Drive(drive.Command{Left: 0, Right: 250}))
	require.NoError(t, s.Stop())

	assert.Equal(t, "M 220 -100\nM 0 250\nM 0 0\n", port.String())
}

func TestSerial_OutOfRange(t *testing.T) {
	port := &fakePort{}
	s := NewSerial(port, 250)

	err := s.Drive(drive.Command{Left: 251, Right: 0})
	assert.True(t, errors.Is(err, ErrOutOfRange))
	err = s.Drive(drive.Command{Left: 0, Right: -251})
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Empty(t, port.String())
}

func TestSerial_WriteError(t *testing.T) {
	port := &fakePort{writeErr: errors.New("unplugged")}
	s := NewSerial(port, 250)

	err := s.Drive(drive.Command{Left: 10, Right: 10})
	assert.ErrorContains(t, err, "unplugged")
}

func TestSerial_Close(t *testing.T) {
	port := &fakePort{}
	s := NewSerial(port, 250)

	require.NoError(t, s.Close())
	assert.True(t, port.closed)
	assert.Equal(t, "M 0 0\n", port.String())

	assert.ErrorIs(t, s.Drive(drive.Command{Left: 1, Right: 1}), ErrClosed)
	assert.NoError(t, s.Close())
}

func TestDryRun(t *testing.T) {
	d := NewDryRun(250)

	assert.NoError(t, d.Drive(drive.Command{Left: 100, Right: 100}))
	assert.ErrorIs(t, d.Drive(drive.Command{Left: 300, Right: 0}), ErrOutOfRange)
	assert.NoError(t, d.Stop())
	assert.NoError(t, d.Close())
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	require.NoError(t, r.Drive(drive.Command{Left: 1, Right: 2}))
	require.NoError(t, r.Drive(drive.Command{Left: 3, Right: 4}))
	require.NoError(t, r.Stop())

	assert.Equal(t, []drive.Command{{Left: 1, Right: 2}, {Left: 3, Right: 4}}, r.Commands())
	assert.Equal(t, 1, r.Stops())

	r.Err = errors.New("boom")
	assert.Error(t, r.Drive(drive.Command{}))

	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Drive(drive.Command{}), ErrClosed)
}

var _ Driver = (*Serial)(nil)
var _ Driver = (*DryRun)(nil)
var _ Driver = (*Recorder)(nil)
