package timers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBank_StartAndTick(t *testing.T) {
	b := New(0)
	require.Equal(t, DefaultSlots, b.Free())

	h, err := b.Start(3)
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.Equal(t, uint32(3), b.Remaining(h))

	b.Tick()
	b.Tick()
	assert.Equal(t, uint32(1), b.Remaining(h))
	assert.False(t, b.Expired(h))

	b.Tick()
	assert.True(t, b.Expired(h))

	// Stays at zero
	b.Tick()
	assert.Equal(t, uint32(0), b.Remaining(h))
}

func TestBank_ZeroDurationIsNoop(t *testing.T) {
	b := New(2)
	h, err := b.Start(0)
	require.NoError(t, err)
	assert.Equal(t, NoHandle, h)
	assert.Equal(t, 2, b.Free())
	assert.True(t, b.Expired(h))
}

func TestBank_Exhausted(t *testing.T) {
	b := New(2)
	_, err := b.Start(5)
	require.NoError(t, err)
	_, err = b.Start(5)
	require.NoError(t, err)

	h, err := b.Start(5)
	assert.ErrorIs(t, err, ErrBankExhausted)
	assert.Equal(t, NoHandle, h)
	assert.True(t, b.Expired(h))
}

func TestBank_SetAndRelease(t *testing.T) {
	b := New(1)
	h, err := b.Start(1)
	require.NoError(t, err)

	b.Tick()
	require.True(t, b.Expired(h))

	assert.True(t, b.Set(h, 10))
	assert.Equal(t, uint32(10), b.Remaining(h))

	b.Release(h)
	assert.Equal(t, 1, b.Free())
	assert.False(t, b.Set(h, 10))
	assert.True(t, b.Expired(h))

	// Slot is reusable after release
	h2, err := b.Start(4)
	require.NoError(t, err)
	assert.Equal(t, h, h2)
}

func TestBank_TimersAreIndependent(t *testing.T) {
	b := New(4)
	short, err := b.Start(1)
	require.NoError(t, err)
	long, err := b.Start(5)
	require.NoError(t, err)

	b.Tick()
	assert.True(t, b.Expired(short))
	assert.Equal(t, uint32(4), b.Remaining(long))
}

func TestBank_InvalidHandles(t *testing.T) {
	b := New(2)
	assert.Equal(t, uint32(0), b.Remaining(Handle(5)))
	assert.False(t, b.Set(Handle(5), 1))
	b.Release(Handle(-3))
	assert.Equal(t, 2, b.Free())
}
