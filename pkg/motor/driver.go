// Package motor sends wheel commands to the motor controller.
package motor

import (
	"errors"

	"github.com/teslashibe/go-linefollower/pkg/drive"
)

var (
	// ErrOutOfRange is returned for a command beyond the power limit.
	ErrOutOfRange = errors.New("motor: command out of range")

	// ErrClosed is returned when driving a closed driver.
	ErrClosed = errors.New("motor: driver closed")
)

// Driver applies wheel commands.
type Driver interface {
	Drive(cmd drive.Command) error
	Stop() error
	Close() error
}

func checkRange(cmd drive.Command, limit int) error {
	if cmd.Left < -limit || cmd.Left > limit || cmd.Right < -limit || cmd.Right > limit {
		return ErrOutOfRange
	}
	return nil
}
