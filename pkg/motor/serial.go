package motor

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/teslashibe/go-linefollower/internal/log"
	"github.com/teslashibe/go-linefollower/pkg/drive"
	"go.bug.st/serial"
)

// Serial writes commands to the controller as ASCII lines:
//
//	M <left> <right>\n
type Serial struct {
	port  io.WriteCloser
	limit int
	log   *slog.Logger

	mu     sync.Mutex
	closed bool
}

// OpenSerial opens the controller port at path.
func OpenSerial(path string, opts PortOptions, limit int) (*Serial, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, fmt.Errorf("motor: %w", err)
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("motor: open %s: %w", path, err)
	}

	log.Info("motor port opened", "path", path, "baud", mode.BaudRate)
	return NewSerial(port, limit), nil
}

// NewSerial wraps an already open port.
func NewSerial(port io.WriteCloser, limit int) *Serial {
	return &Serial{
		port:  port,
		limit: limit,
		log:   log.Component("motor"),
	}
}

// Drive writes one command line.
func (s *Serial) Drive(cmd drive.Command) error {
	if err := checkRange(cmd, s.limit); err != nil {
		return fmt.Errorf("%w: %s", err, cmd)
	}
	return s.write(cmd)
}

// Stop writes a zero command.
func (s *Serial) Stop() error {
	return s.write(drive.Stop)
}

// Close stops the motors and closes the port.
func (s *Serial) Close() error {
	if err := s.Stop(); err != nil && err != ErrClosed {
		s.log.Warn("stop before close failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

func (s *Serial) write(cmd drive.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := fmt.Fprintf(s.port, "M %d %d\n", cmd.Left, cmd.Right); err != nil {
		return fmt.Errorf("motor: write: %w", err)
	}
	return nil
}
