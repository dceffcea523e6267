package mandel

// band is a run of whole rows [y0, y1) of a row-major w×h grid. Its pixels are
// the contiguous index range [lo, hi) of IterGrid.Counts, and [4*lo, 4*hi) of the
// RGBA Pix slice, so workers never share a slice element.
type band struct {
	y0, y1 int
	lo, hi int
}

// splitRows cuts a w×h grid into bands of rows rows each; the last band takes the remainder.
func splitRows(w, h, rows int) []band {
	if w <= 0 || h <= 0 || rows <= 0 {
		panic("mandel: band dimensions must be positive")
	}

	bands := make([]band, 0, (h+rows-1)/rows)
	for y := 0; y < h; y += rows {
		y1 := min(y+rows, h)
		bands = append(bands, band{y0: y, y1: y1, lo: y * w, hi: y1 * w})
	}
	return bands
}

// bandRows picks how many rows of a w-pixel-wide grid make up one band, so a band
// covers about one tileSize×tileSize tile.
func bandRows(w, tileSize int) int {
	s := min(tileSize, MaxFrameSide)
	return max(1, s*s/w)
}
