package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "0001", Format(1))
	assert.Equal(t, "0042", Format(42))
	assert.Equal(t, "9999", Format(9999))
	assert.Equal(t, "10000", Format(10000))
}

func TestNext(t *testing.T) {
	assert.Equal(t, "0001", Next(0))
	assert.Equal(t, "0001", Next(-5))
	assert.Equal(t, "0008", Next(7))
	assert.Equal(t, "10000", Next(9999))
}

func TestCounterAfter(t *testing.T) {
	counter, ok := CounterAfter("0001", 0)
	assert.True(t, ok)
	assert.Equal(t, 1, counter)

	// user-specified jump
	counter, ok = CounterAfter("0100", 3)
	assert.True(t, ok)
	assert.Equal(t, 100, counter)

	// non-numeric manual number bypasses the counter
	counter, ok = CounterAfter("INV-2025-A", 7)
	assert.False(t, ok)
	assert.Equal(t, 7, counter)

	counter, ok = CounterAfter("  12  ", 7)
	assert.True(t, ok)
	assert.Equal(t, 12, counter)
}
