package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errService = errors.New("service down")

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New("test", WithFailureThreshold(3))

	fail := func(context.Context) error { return errService }

	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), fail)
		assert.ErrorIs(t, err, errService)
	}
	assert.Equal(t, StateOpen, cb.State())

	// Requests are rejected without invoking the function.
	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithTimeout(10*time.Millisecond),
		WithMaxHalfOpenRequests(2),
	)

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)

	ok := func(context.Context) error { return nil }
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_FailureInHalfOpenReopens(t *testing.T) {
	cb := New("test",
		WithFailureThreshold(1),
		WithTimeout(10*time.Millisecond),
	)

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	time.Sleep(15 * time.Millisecond)

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cb := New("test",
		WithFailureThreshold(1),
		WithOnStateChange(func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	benign := errors.New("not found")
	cb := New("test",
		WithFailureThreshold(1),
		WithIsFailure(func(err error) bool { return !errors.Is(err, benign) }),
	)

	// Filtered errors do not trip the breaker.
	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return benign }))
	assert.Equal(t, StateClosed, cb.State())

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))

	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return errService }))
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), func(context.Context) error { return nil }))
}
