package mandel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRowsCoversGrid(t *testing.T) {
	const w, h = 130, 70
	bands := splitRows(w, h, 16)
	require.Len(t, bands, 5)

	next := 0
	for _, b := range bands {
		assert.Equal(t, next, b.lo, "bands must be contiguous")
		assert.Equal(t, b.y0*w, b.lo)
		assert.Equal(t, b.y1*w, b.hi)
		next = b.hi
	}
	assert.Equal(t, w*h, next)
	assert.Equal(t, band{y0: 64, y1: 70, lo: 64 * w, hi: 70 * w}, bands[len(bands)-1])
}

func TestSplitRowsSingleBand(t *testing.T) {
	assert.Equal(t, []band{{y0: 0, y1: 3, lo: 0, hi: 15}}, splitRows(5, 3, 10))
}

func TestSplitRowsPanicsOnBadInput(t *testing.T) {
	assert.Panics(t, func() { splitRows(1, 1, 0) })
	assert.Panics(t, func() { splitRows(0, 1, 4) })
}

func TestBandRows(t *testing.T) {
	assert.Equal(t, 4, bandRows(1024, 64))
	assert.Equal(t, 1, bandRows(8192, 64))
	assert.Equal(t, 64*64, bandRows(1, 64))
	assert.Equal(t, MaxFrameSide, bandRows(MaxFrameSide, 1<<30))
}
