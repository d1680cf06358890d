package services

import (
	"context"
	"time"

	"studio/internal/logutil"
	"studio/internal/models"
)

const (
	// PollInterval is the spacing between container status checks.
	PollInterval = 1 * time.Second
	// PollBudget is the maximum number of status checks per container.
	PollBudget = 30
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type statusChecker interface {
	ContainerStatus(ctx context.Context, containerID string) (models.ContainerStatus, bool, error)
}

// ContainerPoller drives a container from IN_PROGRESS to a terminal state.
type ContainerPoller struct {
	checker statusChecker
	sleep   SleepFunc
}

func NewContainerPoller(checker statusChecker, sleep SleepFunc) *ContainerPoller {
	if sleep == nil {
		sleep = Sleep
	}
	return &ContainerPoller{checker: checker, sleep: sleep}
}

// Await polls until the container leaves IN_PROGRESS or the budget runs out.
// It returns the last observed status and the number of checks made.
func (p *ContainerPoller) Await(ctx context.Context, containerID string) (models.ContainerStatus, int, error) {
	status := models.StatusInProgress
	attempts := 0
	for !status.Terminal() && attempts < PollBudget {
		if err := p.sleep(ctx, PollInterval); err != nil {
			return status, attempts, err
		}
		observed, ok, err := p.checker.ContainerStatus(ctx, containerID)
		if err != nil {
			return status, attempts, err
		}
		attempts++
		status = status.Transition(observed, ok)
		logutil.Debugf("container %s status %s (check %d/%d)", containerID, status, attempts, PollBudget)
	}
	return status, attempts, nil
}
