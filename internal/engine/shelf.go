package engine

import "sort"

// segment is a free interval [start, end) along a row.
type segment struct {
	start int
	end   int
}

func (s segment) length() int {
	return s.end - s.start
}

// shelfRow is a strip of the floor running along the length axis.
// Its height is the width of the box that opened it.
type shelfRow struct {
	y        int
	height   int
	segments []segment
}

// shelf packs rectangles into rows across an envelope of length x width.
// Rows are opened one after another along the width axis.
type shelf struct {
	length int
	width  int
	rows   []shelfRow
}

func newShelf(length, width int) *shelf {
	return &shelf{length: length, width: width}
}

// nextY returns the y coordinate at which the next row would open: the far
// edge of the outermost row.
func (s *shelf) nextY() int {
	y := 0
	for _, r := range s.rows {
		y = max(y, r.y+r.height)
	}
	return y
}

// place finds room for an l x w rectangle, first in the existing rows and
// then in a new row, and reserves it.
func (s *shelf) place(l, w int) (x, y int, ok bool) {
	for i := range s.rows {
		r := &s.rows[i]
		if r.height < w {
			continue
		}
		if x, ok := firstFit(r.segments, l); ok {
			r.segments = consume(r.segments, x, l)
			return x, r.y, true
		}
	}

	y = s.nextY()
	if l > s.length || y+w > s.width {
		return 0, 0, false
	}
	s.rows = append(s.rows, shelfRow{
		y:        y,
		height:   w,
		segments: consume([]segment{{0, s.length}}, 0, l),
	})
	return 0, y, true
}

// reserve marks an externally chosen rectangle as used. The rectangle is
// charged to the row whose band contains y, or a new row is recorded.
func (s *shelf) reserve(x, y, l, w int) {
	for i := range s.rows {
		r := &s.rows[i]
		if y >= r.y && y < r.y+r.height {
			r.segments = consume(r.segments, x, l)
			return
		}
	}
	s.rows = append(s.rows, shelfRow{
		y:        y,
		height:   w,
		segments: consume([]segment{{0, s.length}}, x, l),
	})
}

// firstFit returns the start of the first segment at least need long.
func firstFit(segs []segment, need int) (int, bool) {
	for _, sg := range segs {
		if sg.length() >= need {
			return sg.start, true
		}
	}
	return 0, false
}

// consume removes [x, x+l) from the free segments, splitting any segment it
// cuts through, then merges touching segments and drops empty ones.
func consume(segs []segment, x, l int) []segment {
	end := x + l
	out := make([]segment, 0, len(segs)+1)
	for _, sg := range segs {
		if end <= sg.start || x >= sg.end {
			out = append(out, sg)
			continue
		}
		if sg.start < x {
			out = append(out, segment{sg.start, x})
		}
		if end < sg.end {
			out = append(out, segment{end, sg.end})
		}
	}
	return mergeSegments(out)
}

func mergeSegments(segs []segment) []segment {
	sort.Slice(segs, func(i, j int) bool { return segs[i].start < segs[j].start })
	out := segs[:0]
	for _, sg := range segs {
		if sg.length() <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].end >= sg.start {
			if sg.end > out[n-1].end {
				out[n-1].end = sg.end
			}
			continue
		}
		out = append(out, sg)
	}
	return out
}
