package motor

import (
	"log/slog"
	"sync"

	"github.com/teslashibe/go-linefollower/internal/log"
	"github.com/teslashibe/go-linefollower/pkg/drive"
)

// DryRun logs commands instead of driving hardware.
type DryRun struct {
	limit int
	log   *slog.Logger

	mu   sync.Mutex
	last drive.Command
}

// NewDryRun returns a driver that only logs.
func NewDryRun(limit int) *DryRun {
	return &DryRun{limit: limit, log: log.Component("motor")}
}

func (d *DryRun) Drive(cmd drive.Command) error {
	if err := checkRange(cmd, d.limit); err != nil {
		return err
	}

	d.mu.Lock()
	changed := cmd != d.last
	d.last = cmd
	d.mu.Unlock()

	if changed {
		d.log.Debug("drive", "left", cmd.Left, "right", cmd.Right)
	}
	return nil
}

func (d *DryRun) Stop() error {
	d.mu.Lock()
	d.last = drive.Stop
	d.mu.Unlock()

	d.log.Info("stop")
	return nil
}

func (d *DryRun) Close() error {
	return nil
}
