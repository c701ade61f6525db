//go:build unix || windows

package mmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAnon(t *testing.T) {
	t.Run("zero filled and writable", func(t *testing.T) {
		m, err := MapAnon(4096)
		require.NoError(t, err)
		defer m.Close()

		assert.Equal(t, 4096, m.Len())

		words := m.Uint32s()
		require.Len(t, words, 1024)
		for i, w := range words {
			if w != 0 {
				t.Fatalf("word %d not zero: %d", i, w)
			}
		}

		words[7] = 0xDEADBEEF
		assert.Equal(t, byte(0xEF), m.Bytes()[28])
		assert.Equal(t, byte(0xDE), m.Bytes()[31])
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := MapAnon(0)
		assert.ErrorIs(t, err, ErrInvalidSize)

		_, err = MapAnon(-1)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("advise", func(t *testing.T) {
		m, err := MapAnon(1 << 16)
		require.NoError(t, err)
		defer m.Close()

		require.NoError(t, m.Advise(AccessRandom))
		require.NoError(t, m.Advise(AccessSequential))
		require.NoError(t, m.Advise(AccessDefault))
	})
}

func TestMapping_AfterClose(t *testing.T) {
	m, err := MapAnon(4096)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	// Idempotent.
	require.NoError(t, m.Close())

	assert.Nil(t, m.Bytes())
	assert.Nil(t, m.Uint32s())
	assert.Equal(t, 0, m.Len())
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}
