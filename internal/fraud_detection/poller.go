package fraud_detection

import (
	"context"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is the wait between two status checks.
const DefaultPollInterval = 60 * time.Second

// StatusFetcher returns the current status of a resource together with the raw response it came from.
type StatusFetcher func(ctx context.Context) (status string, response any, err error)

// StatusPoller waits until a resource reaches one of a set of terminal states.
// There is no retry limit; polling stops on a terminal state, a fetch error or context cancellation.
type StatusPoller struct {
	Interval time.Duration
	// Sleep blocks for d or until ctx is done. Tests replace it.
	Sleep  func(ctx context.Context, d time.Duration) error
	Now    func() time.Time
	logger *zap.Logger
}

func NewStatusPoller(logger *zap.Logger, interval time.Duration) *StatusPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &StatusPoller{
		Interval: interval,
		Sleep:    sleepContext,
		Now:      time.Now,
		logger:   logger,
	}
}

// Poll fetches the status until it is in failStates or successStates.
// A status in failStates yields a *TerminalFailure; failure wins when both sets contain it.
// The response of the last fetch is returned on success.
func (p *StatusPoller) Poll(ctx context.Context, fetch StatusFetcher, failStates, successStates []string) (any, error) {
	start := p.Now()

	for {
		status, response, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		switch {
		case !slices.Contains(failStates, status) && !slices.Contains(successStates, status):
			p.logger.Info("Current in progress",
				zap.String("status", status),
				zap.Float64("elapsed_minutes", math.Round(p.Now().Sub(start).Minutes()*100)/100),
			)
			if err := p.Sleep(ctx, p.Interval); err != nil {
				return nil, err
			}
		case slices.Contains(failStates, status):
			return nil, &TerminalFailure{Status: status, Response: response}
		default:
			p.logger.Info("Reached terminal status", zap.String("status", status))
			return response, nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
