package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAuthRetryDelay_OncePerCall(t *testing.T) {
	r := NewRetryPolicy(3, time.Second, 2*time.Second)
	desc := &RequestDescriptor{}

	r.RecordAttempt()
	delay, ok := r.AuthRetryDelay(desc)
	require.True(t, ok)
	require.Equal(t, time.Second, delay)

	desc.isRetry = true
	_, ok = r.AuthRetryDelay(desc)
	require.False(t, ok)
}

func TestBackoffDelay_GrowsWithAttempts(t *testing.T) {
	r := NewRetryPolicy(3, time.Second, 2*time.Second)

	r.RecordAttempt()
	delay, ok := r.BackoffDelay()
	require.True(t, ok)
	require.Equal(t, 2*time.Second, delay)

	r.RecordAttempt()
	delay, ok = r.BackoffDelay()
	require.True(t, ok)
	require.Equal(t, 4*time.Second, delay)

	r.RecordAttempt()
	_, ok = r.BackoffDelay()
	require.False(t, ok)
}

func TestRetryBudget_SharedBetweenArms(t *testing.T) {
	r := NewRetryPolicy(3, time.Second, 2*time.Second)

	// Two backoff attempts drain the budget for the auth arm too.
	r.RecordAttempt()
	r.RecordAttempt()
	r.RecordAttempt()

	_, ok := r.AuthRetryDelay(&RequestDescriptor{})
	require.False(t, ok)
	_, ok = r.BackoffDelay()
	require.False(t, ok)
}

func TestReset_RestoresBudget(t *testing.T) {
	r := NewRetryPolicy(3, time.Second, 2*time.Second)

	r.RecordAttempt()
	r.RecordAttempt()
	r.RecordAttempt()
	_, ok := r.BackoffDelay()
	require.False(t, ok)

	r.Reset()
	r.RecordAttempt()
	_, ok = r.BackoffDelay()
	require.True(t, ok)
}
