// Package array2d implements the rectangular pixel grid shared by every
// codec in gren-image: an ordered sequence of rows, each an ordered
// sequence of cells. Row count is the declared height; per-row cell count
// should equal the declared width but is not structurally guaranteed --
// callers that need the invariant re-established (an encoder about to
// walk every row at a fixed stride) call PadTo first.
package array2d

// Array2D is a rectangular grid of T, stored row-major as a slice of row
// slices. Rows may legitimately differ in length until PadTo is called;
// this mirrors a decoder that appends exactly as many cells as it
// reconstructed per scanline.
type Array2D[T any] struct {
	rows [][]T
}

// New builds an Array2D from existing rows without copying them. The
// caller gives up ownership of rows.
func New[T any](rows [][]T) Array2D[T] {
	return Array2D[T]{rows: rows}
}

// Make allocates a width*height grid filled with fill.
func Make[T any](width, height int, fill T) Array2D[T] {
	rows := make([][]T, height)
	for y := range rows {
		row := make([]T, width)
		for x := range row {
			row[x] = fill
		}
		rows[y] = row
	}
	return Array2D[T]{rows: rows}
}

// Height returns the row count.
func (a Array2D[T]) Height() int { return len(a.rows) }

// Width returns the length of the widest row. Callers that require every
// row to share this width must call PadTo first.
func (a Array2D[T]) Width() int {
	w := 0
	for _, row := range a.rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Row returns row y directly (no copy); callers must not retain it past a
// mutation of the Array2D.
func (a Array2D[T]) Row(y int) []T {
	if y < 0 || y >= len(a.rows) {
		return nil
	}
	return a.rows[y]
}

// Rows returns the underlying row slice directly (no copy).
func (a Array2D[T]) Rows() [][]T { return a.rows }

// Get returns the cell at (x, y) and whether it was in bounds.
func (a Array2D[T]) Get(x, y int) (T, bool) {
	var zero T
	if y < 0 || y >= len(a.rows) {
		return zero, false
	}
	row := a.rows[y]
	if x < 0 || x >= len(row) {
		return zero, false
	}
	return row[x], true
}

// PadTo returns a copy of a whose every row has exactly width cells,
// appending fill to rows that fall short and appending fill rows if
// Height() < height. This is the re-establishment step invariant 1 in
// spec.md §3 requires of any operation (an encoder, chiefly) that needs a
// structurally regular grid.
func (a Array2D[T]) PadTo(width, height int, fill T) Array2D[T] {
	rows := make([][]T, height)
	for y := 0; y < height; y++ {
		var src []T
		if y < len(a.rows) {
			src = a.rows[y]
		}
		row := make([]T, width)
		n := len(src)
		if n > width {
			n = width
		}
		copy(row, src[:n])
		for x := n; x < width; x++ {
			row[x] = fill
		}
		rows[y] = row
	}
	return Array2D[T]{rows: rows}
}

// Crop returns the sub-grid starting at (sx, sy) with the given extent,
// clamped to the source's bounds. Per spec.md §4.6 `get`, callers whose
// origin already falls outside the grid should not call Crop at all --
// that boundary case is the caller's responsibility, not this function's.
func (a Array2D[T]) Crop(sx, sy, sw, sh int) Array2D[T] {
	w, h := a.Width(), a.Height()
	if sx+sw > w {
		sw = w - sx
	}
	if sy+sh > h {
		sh = h - sy
	}
	if sw < 0 {
		sw = 0
	}
	if sh < 0 {
		sh = 0
	}
	rows := make([][]T, sh)
	for y := 0; y < sh; y++ {
		src := a.Row(sy + y)
		row := make([]T, sw)
		for x := 0; x < sw; x++ {
			if sx+x < len(src) {
				row[x] = src[sx+x]
			}
		}
		rows[y] = row
	}
	return Array2D[T]{rows: rows}
}

// Paste copies from's rows into a copy of a at offset (dx, dy). Rows (and
// cells within a row) that fall outside a's bounds are silently skipped,
// per spec.md §4.6 `put`.
func (a Array2D[T]) Paste(dx, dy int, from Array2D[T]) Array2D[T] {
	w, h := a.Width(), a.Height()
	var zero T
	base := a.PadTo(w, h, zero)
	rows := make([][]T, h)
	for y := 0; y < h; y++ {
		rows[y] = append([]T(nil), base.rows[y]...)
	}
	for fy := 0; fy < from.Height(); fy++ {
		ty := dy + fy
		if ty < 0 || ty >= h {
			continue
		}
		src := from.Row(fy)
		dst := rows[ty]
		for fx := 0; fx < len(src); fx++ {
			tx := dx + fx
			if tx < 0 || tx >= len(dst) {
				continue
			}
			dst[tx] = src[fx]
		}
	}
	return Array2D[T]{rows: rows}
}

// MirrorHorizontal returns a copy of a with every row's cells reversed.
func (a Array2D[T]) MirrorHorizontal() Array2D[T] {
	rows := make([][]T, len(a.rows))
	for y, row := range a.rows {
		n := len(row)
		out := make([]T, n)
		for x := 0; x < n; x++ {
			out[x] = row[n-1-x]
		}
		rows[y] = out
	}
	return Array2D[T]{rows: rows}
}

// MirrorVertical returns a copy of a with the row order reversed.
func (a Array2D[T]) MirrorVertical() Array2D[T] {
	n := len(a.rows)
	rows := make([][]T, n)
	for y, row := range a.rows {
		rows[n-1-y] = append([]T(nil), row...)
	}
	return Array2D[T]{rows: rows}
}

// Map returns a copy of a with f applied to every cell, preserving shape.
func (a Array2D[T]) Map(f func(T) T) Array2D[T] {
	rows := make([][]T, len(a.rows))
	for y, row := range a.rows {
		out := make([]T, len(row))
		for x, v := range row {
			out[x] = f(v)
		}
		rows[y] = out
	}
	return Array2D[T]{rows: rows}
}
