package motor

import (
	"sync"

	"github.com/teslashibe/go-linefollower/pkg/drive"
)

// Recorder keeps every command in memory.
type Recorder struct {
	mu       sync.Mutex
	commands []drive.Command
	stops    int
	closed   bool

	// Err, when set, is returned by Drive.
	Err error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Drive(cmd drive.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.Err != nil {
		return r.Err
	}
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stops++
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []drive.Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]drive.Command(nil), r.commands...)
}

// Stops returns how many times Stop was called.
func (r *Recorder) Stops() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stops
}
