package fraud_detection_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/fraud_detection"
	"github.com/CapitalOne-RedFlags/GreenFlagML/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func statusSequence(statuses ...string) (fraud_detection.StatusFetcher, *int) {
	calls := 0
	return func(ctx context.Context) (string, any, error) {
		status := statuses[calls]
		calls++
		return status, map[string]string{"status": status}, nil
	}, &calls
}

func TestPollReturnsOnSuccessState(t *testing.T) {
	poller, sleeps := testutil.NoSleepPoller(zaptest.NewLogger(t))
	fetch, calls := statusSequence("PENDING", "PENDING", "ACTIVE")

	resp, err := poller.Poll(context.Background(), fetch, []string{"ERROR"}, []string{"ACTIVE"})

	require.NoError(t, err)
	assert.Equal(t, 3, *calls)
	assert.Equal(t, 2, *sleeps)
	assert.Equal(t, map[string]string{"status": "ACTIVE"}, resp)
}

func TestPollFailsOnFailureState(t *testing.T) {
	poller, _ := testutil.NoSleepPoller(zaptest.NewLogger(t))
	fetch, calls := statusSequence("PENDING", "ERROR")

	_, err := poller.Poll(context.Background(), fetch, []string{"ERROR"}, []string{"ACTIVE"})

	var failure *fraud_detection.TerminalFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "ERROR", failure.Status)
	assert.Equal(t, map[string]string{"status": "ERROR"}, failure.Response)
	assert.Equal(t, 2, *calls)
}

func TestPollFailureWinsWhenStatesOverlap(t *testing.T) {
	poller, _ := testutil.NoSleepPoller(zaptest.NewLogger(t))
	fetch, _ := statusSequence("DONE")

	_, err := poller.Poll(context.Background(), fetch, []string{"DONE"}, []string{"DONE"})

	var failure *fraud_detection.TerminalFailure
	assert.ErrorAs(t, err, &failure)
}

func TestPollSingletonStates(t *testing.T) {
	poller, _ := testutil.NoSleepPoller(zaptest.NewLogger(t))
	fetch, calls := statusSequence("IN_PROGRESS", "TRAINING_COMPLETE")

	_, err := poller.Poll(context.Background(), fetch, []string{"ERROR"}, []string{"TRAINING_COMPLETE"})

	assert.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestPollPropagatesFetchError(t *testing.T) {
	poller, _ := testutil.NoSleepPoller(zaptest.NewLogger(t))
	boom := errors.New("throttled")

	_, err := poller.Poll(context.Background(), func(ctx context.Context) (string, any, error) {
		return "", nil, boom
	}, []string{"ERROR"}, []string{"ACTIVE"})

	assert.ErrorIs(t, err, boom)
}

func TestPollStopsWhenContextCancelled(t *testing.T) {
	poller := fraud_detection.NewStatusPoller(zaptest.NewLogger(t), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(ctx context.Context) (string, any, error) {
		cancel()
		return "PENDING", nil, nil
	}

	_, err := poller.Poll(ctx, fetch, []string{"ERROR"}, []string{"ACTIVE"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStatusPollerDefaultsInterval(t *testing.T) {
	poller := fraud_detection.NewStatusPoller(nil, 0)

	assert.Equal(t, fraud_detection.DefaultPollInterval, poller.Interval)
}
