package mirrorbuf

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/mirrorbuf/resource"
)

func TestBuffer_Byte(t *testing.T) {
	b, err := New[byte](123)
	require.NoError(t, err)
	defer b.Close()

	assert.GreaterOrEqual(t, b.Len(), 123)
	assert.Equal(t, 0, b.Len()%PageSize())

	s := b.Slice()
	require.Len(t, s, b.Len())
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))%uintptr(PageSize()))

	for i := range s {
		s[i] = byte(i % 128)
	}

	// The boundary-offset window lies entirely in the mirrored half and
	// observes the primary half's writes.
	m := b.SliceWithOffset(b.Len())
	require.Len(t, m, b.Len())
	for i, v := range m {
		require.Equal(t, byte(i%128), v, "index %d", i)
	}

	// Symmetric: a write through the mirror is visible in the primary half.
	m[0] = 123
	assert.Equal(t, byte(123), b.Slice()[0])

	b.Slice()[1] = 231
	assert.Equal(t, byte(231), b.SliceWithOffset(b.Len())[1])
}

func TestBuffer_Uint32(t *testing.T) {
	b, err := New[uint32](12311)
	require.NoError(t, err)
	defer b.Close()

	assert.GreaterOrEqual(t, b.Len(), 12311)
	assert.Equal(t, 0, (b.Len()*4)%PageSize())

	s := b.Slice()
	assert.Zero(t, uintptr(unsafe.Pointer(&s[0]))%unsafe.Alignof(uint32(0)))

	for i := range s {
		s[i] = uint32(i)
	}

	m := b.SliceWithOffset(b.Len())
	for i, v := range m {
		require.Equal(t, uint32(i), v, "index %d", i)
	}
}

func TestBuffer_OffsetWindows(t *testing.T) {
	b, err := New[byte](1)
	require.NoError(t, err)
	defer b.Close()

	n := b.Len()
	s := b.Slice()
	for i := range s {
		s[i] = byte(i % 253)
	}

	// Windows may start anywhere in [0, Len()]; straddling ones continue
	// into the mirror.
	for _, off := range []int{0, 1, 7, n / 2, n - 1, n} {
		w := b.SliceWithOffset(off)
		require.Len(t, w, n)
		for _, i := range []int{0, 1, n / 3, n - 1} {
			require.Equal(t, s[(off+i)%n], w[i], "offset %d index %d", off, i)
		}
	}
}

func TestBuffer_IdempotentRoundTrip(t *testing.T) {
	b, err := New[uint64](100)
	require.NoError(t, err)
	defer b.Close()

	s := b.Slice()
	for _, i := range []int{0, 1, b.Len() / 2, b.Len() - 1} {
		s[i] = uint64(i) * 0x9E3779B97F4A7C15
		assert.Equal(t, uint64(i)*0x9E3779B97F4A7C15, b.Slice()[i])
	}
}

func TestBuffer_TailRemainder(t *testing.T) {
	// Element size 7 does not divide the page-rounded byte length; the
	// remainder bytes of a half stay unreachable through the typed view.
	b, err := New[[7]byte](10)
	require.NoError(t, err)
	defer b.Close()

	assert.GreaterOrEqual(t, b.Len(), 10)
	bytes := b.Len() * 7
	assert.LessOrEqual(t, bytes, ((10*7+PageSize()-1)/PageSize())*PageSize())
	assert.Greater(t, bytes, 0)
}

func TestBuffer_ManyInstances(t *testing.T) {
	var open []*Buffer[byte]

	a, err := New[byte](123)
	require.NoError(t, err)
	open = append(open, a)

	c, err := New[byte](456)
	require.NoError(t, err)
	open = append(open, c)

	for i := 0; i < 100; i++ {
		b, err := New[byte](123)
		require.NoError(t, err)
		open = append(open, b)
	}

	for i, b := range open {
		b.Slice()[0] = byte(i)
	}
	for i, b := range open {
		require.Equal(t, byte(i), b.SliceWithOffset(b.Len())[0])
		require.NoError(t, b.Close())
	}
}

func TestBuffer_Errors(t *testing.T) {
	t.Run("zero items", func(t *testing.T) {
		_, err := New[byte](0)
		assert.ErrorIs(t, err, ErrInvalidItemCount)
	})

	t.Run("negative items", func(t *testing.T) {
		_, err := New[byte](-4)
		assert.ErrorIs(t, err, ErrInvalidItemCount)
	})

	t.Run("size overflow", func(t *testing.T) {
		_, err := New[uint64](math.MaxInt / 4)
		assert.ErrorIs(t, err, ErrSizeOverflow)
	})

	t.Run("zero-size element", func(t *testing.T) {
		_, err := New[struct{}](1)
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestNewRegion_Alignment(t *testing.T) {
	t.Run("not a power of two", func(t *testing.T) {
		_, _, _, err := newRegion(1, 64, 3, &config{})
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("zero alignment", func(t *testing.T) {
		_, _, _, err := newRegion(1, 64, 0, &config{})
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("exceeds mapping granularity", func(t *testing.T) {
		_, _, _, err := newRegion(1, 64, 2*PageSize(), &config{})
		assert.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("page-size alignment is fine", func(t *testing.T) {
		m, items, _, err := newRegion(1, 64, PageSize(), &config{})
		require.NoError(t, err)
		assert.Positive(t, items)
		require.NoError(t, m.Close())
	})
}

func TestBuffer_SliceWithOffsetPanics(t *testing.T) {
	b, err := New[byte](16)
	require.NoError(t, err)
	defer b.Close()

	assert.Panics(t, func() { b.SliceWithOffset(-1) })
	assert.Panics(t, func() { b.SliceWithOffset(b.Len() + 1) })
	assert.NotPanics(t, func() { b.SliceWithOffset(b.Len()) })
}

func TestBuffer_CloseIdempotent(t *testing.T) {
	b, err := New[byte](16)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Nil(t, b.Slice())
	assert.Nil(t, b.SliceWithOffset(0))
	assert.ErrorIs(t, b.Advise(AccessSequential), ErrClosed)
}

func TestBuffer_Acquirer(t *testing.T) {
	charged := 2 * int64(realizedBytes(1))

	rc := resource.NewController(resource.Config{MappedBytesLimit: charged})

	b1, err := New[byte](1, WithAcquirer(rc))
	require.NoError(t, err)
	assert.Equal(t, charged, rc.MemoryUsage())

	// Budget exhausted.
	_, err = New[byte](1, WithAcquirer(rc))
	assert.ErrorIs(t, err, resource.ErrLimitExceeded)

	require.NoError(t, b1.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())

	// Double close must not release the charge twice.
	require.NoError(t, b1.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())

	b2, err := New[byte](1, WithAcquirer(rc))
	require.NoError(t, err)
	require.NoError(t, b2.Close())
}

func TestBuffer_ConcurrentCreate(t *testing.T) {
	var g errgroup.Group

	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 16; i++ {
				b, err := New[uint64](1024)
				if err != nil {
					return err
				}

				s := b.Slice()
				for j := range s {
					s[j] = uint64(j)
				}
				m := b.SliceWithOffset(b.Len())
				for j := range m {
					if m[j] != uint64(j) {
						b.Close()
						return assert.AnError
					}
				}
				if err := b.Close(); err != nil {
					return err
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}

func TestBuffer_LockUnlock(t *testing.T) {
	b, err := New[byte](64)
	require.NoError(t, err)
	defer b.Close()

	if err := b.Lock(); err != nil {
		t.Skipf("mlock not permitted in this environment: %v", err)
	}
	require.NoError(t, b.Unlock())
}

// realizedBytes mirrors the sizing New performs for a byte buffer.
func realizedBytes(minBytes int) int {
	g := PageSize()
	return ((minBytes + g - 1) / g) * g
}
