package log_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/dcx/pkg/log"
)

func TestNewCircularBuffer(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		capacity int
		want     int
	}{
		"explicit": {capacity: 10, want: 10},
		"zero":     {capacity: 0, want: 100},
		"negative": {capacity: -5, want: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cb := log.NewCircularBuffer(tc.capacity)
			assert.Equal(t, tc.want, cb.Capacity())
			assert.Equal(t, 0, cb.Size())
			assert.False(t, cb.IsFull())
			assert.Nil(t, cb.Entries())
		})
	}
}

func TestCircularBuffer_Overwrite(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(3)

	n, err := cb.Write([]byte{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, cb.Size())

	for i := 1; i <= 5; i++ {
		_, err := fmt.Fprintf(cb, "entry%d", i)
		require.NoError(t, err)
	}

	assert.True(t, cb.IsFull())
	assert.Equal(t, 3, cb.Size())
	assert.Equal(t, [][]byte{
		[]byte("entry3"),
		[]byte("entry4"),
		[]byte("entry5"),
	}, cb.Entries())
}

func TestCircularBuffer_WriteTo(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(10)
	logger := slog.New(slog.NewTextHandler(cb, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	}))

	logger.Warn("skip document", slog.String("source", "bad.md"))
	logger.Info("loaded rules", slog.Int("count", 2))

	var out bytes.Buffer

	n, err := cb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)
	assert.Equal(t,
		"level=WARN msg=\"skip document\" source=bad.md\nlevel=INFO msg=\"loaded rules\" count=2\n",
		out.String(),
	)
}

func TestCircularBuffer_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	cb := log.NewCircularBuffer(50)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 20 {
				_, err := fmt.Fprintf(cb, "g%d-%d", i, j)
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, cb.Size())
	assert.Len(t, cb.Entries(), 50)
}
