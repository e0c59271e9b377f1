package jobs

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobsTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_RunsRegisteredJobOnSchedule(t *testing.T) {
	runner := NewRunner(newJobsTestLogger())

	var runs int32
	err := runner.Register("@every 1s", "counter", func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})
	require.NoError(t, err)

	runner.Start()
	defer runner.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, 5*time.Second, 5*time.Millisecond)
}

func TestRunner_RecoversFromPanickingJob(t *testing.T) {
	runner := NewRunner(newJobsTestLogger())

	var ranAfterPanic int32
	err := runner.Register("@every 1s", "panics", func(ctx context.Context) {
		atomic.AddInt32(&ranAfterPanic, 1)
		panic("boom")
	})
	require.NoError(t, err)

	runner.Start()
	defer runner.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&ranAfterPanic) >= 2
	}, 5*time.Second, 5*time.Millisecond, "job should keep running on its schedule even after panicking")
}

func TestRunner_RejectsInvalidSchedule(t *testing.T) {
	runner := NewRunner(newJobsTestLogger())

	err := runner.Register("not a valid cron spec", "broken", func(ctx context.Context) {})
	assert.Error(t, err)
}
