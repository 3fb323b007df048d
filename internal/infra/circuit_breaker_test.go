package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func newTestBreaker(now *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "teste",
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      time.Minute,
	})
	cb.now = func() time.Time { return *now }
	return cb
}

func TestCircuitBreaker_AbreAposFalhas(t *testing.T) {
	now := time.Now()
	cb := newTestBreaker(&now)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errUpstream }), errUpstream)
	}
	assert.Equal(t, CBOpen, cb.State())
	assert.False(t, cb.Permite())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "fn is not run while open")
}

func TestCircuitBreaker_SucessoZeraContador(t *testing.T) {
	now := time.Now()
	cb := newTestBreaker(&now)

	_ = cb.Execute(func() error { return errUpstream })
	_ = cb.Execute(func() error { return errUpstream })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errUpstream })
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	now := time.Now()
	cb := newTestBreaker(&now)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errUpstream })
	}

	now = now.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	// one failed probe reopens
	_ = cb.Execute(func() error { return errUpstream })
	assert.Equal(t, CBOpen, cb.State())

	now = now.Add(time.Minute)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, DefaultCBConfig(), cb.cfg)
	assert.Equal(t, "closed", cb.State().String())
}
