package mmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_RoundsToGranularity(t *testing.T) {
	m, err := Map(123)
	require.NoError(t, err)
	defer m.Close()

	g := Granularity()
	assert.Equal(t, 0, m.Size()%g)
	assert.GreaterOrEqual(t, m.Size(), 123)
	assert.Len(t, m.Bytes(), 2*m.Size())
	assert.Zero(t, uintptr(m.Base())%uintptr(g))
}

func TestMap_Mirroring(t *testing.T) {
	m, err := Map(1)
	require.NoError(t, err)
	defer m.Close()

	data := m.Bytes()
	size := m.Size()

	// Write through the primary half, observe in the mirror.
	data[0] = 0xAB
	assert.Equal(t, byte(0xAB), data[size])

	// And the other way around.
	data[size+17] = 0x5C
	assert.Equal(t, byte(0x5C), data[17])

	for i := 0; i < size; i++ {
		data[i] = byte(i % 251)
	}
	assert.Equal(t, data[:size], data[size:])
}

func TestMap_InvalidSize(t *testing.T) {
	_, err := Map(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Map(-1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestMap_SizeOverflow(t *testing.T) {
	_, err := Map(math.MaxInt)
	assert.ErrorIs(t, err, ErrSizeOverflow)

	// Rounds fine but cannot double.
	_, err = Map(math.MaxInt/2 + 1)
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func TestRealizedSize(t *testing.T) {
	g := Granularity()

	size, err := RealizedSize(1)
	require.NoError(t, err)
	assert.Equal(t, g, size)

	size, err = RealizedSize(g)
	require.NoError(t, err)
	assert.Equal(t, g, size)

	size, err = RealizedSize(g + 1)
	require.NoError(t, err)
	assert.Equal(t, 2*g, size)
}

func TestMapping_CloseIdempotent(t *testing.T) {
	m, err := Map(64)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.Nil(t, m.Base())
	assert.ErrorIs(t, m.Advise(AccessSequential), ErrClosed)
	assert.ErrorIs(t, m.Lock(), ErrClosed)
}

func TestMapping_NilClose(t *testing.T) {
	var m *Mapping
	require.NoError(t, m.Close())
}

func TestMap_ManyRegions(t *testing.T) {
	// Repeated map/unmap must not leak address space or backing objects.
	for i := 0; i < 100; i++ {
		m, err := Map(123)
		require.NoError(t, err)

		m.Bytes()[0] = byte(i)
		require.Equal(t, byte(i), m.Bytes()[m.Size()])
		require.NoError(t, m.Close())
	}
}

func TestMapping_Advise(t *testing.T) {
	m, err := Map(4096)
	require.NoError(t, err)
	defer m.Close()

	for _, p := range []AccessPattern{AccessDefault, AccessSequential, AccessRandom, AccessWillNeed, AccessDontNeed} {
		require.NoError(t, m.Advise(p))
	}
}
