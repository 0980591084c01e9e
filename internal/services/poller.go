package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/vm-power-agent/internal/models"
)

const DefaultPollInterval = time.Second

// Poller waits for power transition tasks to reach a terminal state.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	log      *zap.SugaredLogger
}

// NewPoller returns a poller checking the task every interval. A zero timeout waits forever.
func NewPoller(interval, timeout time.Duration, log *zap.SugaredLogger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Wait polls task until it succeeds or fails. It returns an error when the
// status cannot be read, the timeout expires or ctx is done.
func (p *Poller) Wait(ctx context.Context, vm string, task models.Task) (models.TaskInfo, error) {
	var deadline <-chan time.Time
	if p.timeout > 0 {
		timer := time.NewTimer(p.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for polls := 1; ; polls++ {
		info, err := task.Status(ctx)
		if err != nil {
			return models.TaskInfo{}, fmt.Errorf("reading task status: %w", err)
		}
		if info.State.IsTerminal() {
			p.log.Debugw("task completed", "vm", vm, "state", info.State, "polls", polls)
			return info, nil
		}

		select {
		case <-ticker.C:
		case <-deadline:
			return models.TaskInfo{}, fmt.Errorf("%w after %s", ErrTaskTimeout, p.timeout)
		case <-ctx.Done():
			return models.TaskInfo{}, ctx.Err()
		}
	}
}
