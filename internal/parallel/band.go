package parallel

// DefaultBandHeight is the number of scanlines per band. 32 rows of a
// 1280-wide frame is 160KB of color plus depth: small enough that bands
// outnumber cores at common sizes.
const DefaultBandHeight = 32

// Band is a half-open range of scanlines [Y0, Y1).
type Band struct {
	Index  int
	Y0, Y1 int
}

// Contains reports whether row y falls inside the band.
func (b Band) Contains(y int) bool {
	return y >= b.Y0 && y < b.Y1
}

// Bands splits height rows into consecutive bands of bandHeight rows; the
// last band may be shorter. bandHeight <= 0 uses DefaultBandHeight.
func Bands(height, bandHeight int) []Band {
	if height <= 0 {
		return nil
	}
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}
	n := (height + bandHeight - 1) / bandHeight
	bands := make([]Band, n)
	for i := range bands {
		y0 := i * bandHeight
		bands[i] = Band{Index: i, Y0: y0, Y1: min(y0+bandHeight, height)}
	}
	return bands
}

// Span returns the indices of the first and last band overlapping rows
// [y0, y1], clamped to the band list. ok is false when the rows miss every
// band.
func Span(bands []Band, y0, y1 int) (first, last int, ok bool) {
	if len(bands) == 0 || y1 < bands[0].Y0 || y0 >= bands[len(bands)-1].Y1 || y1 < y0 {
		return 0, 0, false
	}
	h := bands[0].Y1 - bands[0].Y0
	first = max(0, y0/h)
	last = min(len(bands)-1, y1/h)
	return first, last, true
}
