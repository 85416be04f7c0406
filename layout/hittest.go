package layout

// HitTestMetrics describes the geometry of a text range. Positions and
// lengths are in UTF-16 code units of the caller's text.
type HitTestMetrics struct {
	TextPosition int
	Length       int
	Left, Top    float32
	Width        float32
	Height       float32
	BidiLevel    uint8
	// IsText is false for inline objects.
	IsText bool
	// IsTrimmed reports that the range is hidden by trimming.
	IsTrimmed bool
}

// PointHit is the result of HitTestPoint.
type PointHit struct {
	Metrics HitTestMetrics
	// IsTrailingHit reports that the point is on the trailing half of the
	// cluster.
	IsTrailingHit bool
	// IsInside reports that the point is inside the text.
	IsInside bool
}

// HitTestPoint finds the cluster under the point (x, y), given relative to
// the origin passed to Draw. Points outside the text snap to the nearest
// line edge and report IsInside false. With a hanging indent, any point
// left of the indent on any line hits the indent marker: position 0,
// outside the text.
func (l *TextLayout) HitTestPoint(x, y float32) PointHit {
	m := l.measure()
	s := l.shaped
	x -= l.indent
	if l.hanging && x < 0 {
		hm := l.caretMetrics(&m.lines[0], 0, -l.indent)
		return PointHit{Metrics: l.toCaller(hm)}
	}

	li, inside := m.lineAt(y)
	ln := &m.lines[li]
	var hit PointHit
	if len(ln.order) == 0 {
		hit.Metrics = l.caretMetrics(ln, ln.start, ln.left)
	} else {
		h, trailing, in := l.clusterAt(ln, m, x)
		hit = PointHit{
			Metrics:       l.clusterMetrics(s, ln, m, h),
			IsTrailingHit: trailing,
			IsInside:      inside && in,
		}
	}

	if l.hanging && hit.Metrics.TextPosition == 0 {
		hit.IsInside = false
		hit.IsTrailingHit = false
		hit.Metrics.Length = 0
		hit.Metrics.Width = 0
	}
	hit.Metrics = l.toCaller(hit.Metrics)
	return hit
}

// HitTestTextPosition returns the caret position at the leading or trailing
// edge of the cluster containing text position pos, relative to the Draw
// origin, together with the cluster metrics.
func (l *TextLayout) HitTestTextPosition(pos int, trailing bool) (x, y float32, hm HitTestMetrics) {
	m := l.measure()
	s := l.shaped
	u := min(max(pos, 0), l.Len()) + l.markerLen()
	r := l.unitRune[u]

	if r >= len(l.runes) {
		ln := &m.lines[len(m.lines)-1]
		x = ln.left
		if len(ln.order) > 0 {
			h := l.lastLogical(ln)
			x = m.x[h]
			if !l.rtl(h) {
				x += m.adv[h]
			}
		}
		hm = l.caretMetrics(ln, len(l.runes), x)
		hm = l.toCaller(hm)
		return hm.Left, ln.top, hm
	}

	h := s.clusters[r].head
	ln := m.lineOf(h)
	hm = l.clusterMetrics(s, ln, m, h)
	x = m.x[h]
	if trailing != l.rtl(h) {
		x += m.adv[h]
	}
	hm = l.toCaller(hm)
	return x + l.indent, ln.top, hm
}

// HitTestTextRange returns one rectangle per visually contiguous piece of
// the range [start, start+length) on each line, offset by the origin. It
// returns the number of rectangles and true, or the required buffer length
// and false when buf is too small.
func (l *TextLayout) HitTestTextRange(start, length int, originX, originY float32, buf []HitTestMetrics) (int, bool) {
	m := l.measure()
	s := l.shaped

	var rects []HitTestMetrics
	if length <= 0 {
		x, y, hm := l.HitTestTextPosition(start, false)
		hm.Left, hm.Top = x+originX, y+originY
		hm.Length, hm.Width = 0, 0
		rects = append(rects, hm)
	} else {
		r0, r1 := l.runeRange(start, length)
		for li := range m.lines {
			ln := &m.lines[li]
			if ln.end <= r0 || ln.start >= r1 {
				continue
			}
			var cur *HitTestMetrics
			lo, hi := 0, 0
			flush := func() {
				if cur == nil {
					return
				}
				cur.TextPosition = l.runeUnit[lo]
				cur.Length = l.runeUnit[hi] - l.runeUnit[lo]
				rects = append(rects, l.toCaller(*cur))
				cur = nil
			}
			for _, h := range ln.order {
				end := s.nextHead(h)
				if h >= r1 || end <= r0 {
					flush()
					continue
				}
				if cur == nil {
					cur = &HitTestMetrics{
						Left:      m.x[h] + originX,
						Top:       ln.top + originY,
						Height:    ln.height,
						BidiLevel: l.levels[h],
						IsText:    s.clusters[h].inline == nil,
					}
					lo, hi = h, end
				}
				cur.Width = m.x[h] + m.adv[h] + originX - cur.Left
				lo, hi = min(lo, h), max(hi, end)
			}
			flush()
		}
	}

	if len(buf) < len(rects) {
		return len(rects), false
	}
	copy(buf, rects)
	return len(rects), true
}

// lineAt returns the line containing y and whether y is inside the text
// block.
func (m *measurement) lineAt(y float32) (int, bool) {
	if y < m.lines[0].top {
		return 0, false
	}
	for i := range m.lines {
		ln := &m.lines[i]
		if y < ln.top+ln.height {
			return i, true
		}
	}
	return len(m.lines) - 1, false
}

// lineOf returns the visible line holding rune r, or the last line.
func (m *measurement) lineOf(r int) *lineInfo {
	for i := range m.lines {
		if r < m.lines[i].end {
			return &m.lines[i]
		}
	}
	return &m.lines[len(m.lines)-1]
}

func (l *TextLayout) rtl(i int) bool { return l.levels[i]%2 == 1 }

// clusterAt finds the cluster of a line under x.
func (l *TextLayout) clusterAt(ln *lineInfo, m *measurement, x float32) (head int, trailing, inside bool) {
	left := ln.left
	for _, h := range ln.order {
		left = min(left, m.x[h])
	}
	if x < left {
		h := ln.order[0]
		return h, l.rtl(h), false
	}
	for _, h := range ln.order {
		a := m.adv[h]
		if a <= 0 || x < m.x[h] || x >= m.x[h]+a {
			continue
		}
		trailing = x >= m.x[h]+a/2
		if l.rtl(h) {
			trailing = !trailing
		}
		return h, trailing, true
	}
	h := ln.order[len(ln.order)-1]
	if e := ln.ellipsis; e != nil && x < e.x+e.width {
		return l.lastLogical(ln), true, true
	}
	return h, !l.rtl(h), false
}

// lastLogical returns the last drawn cluster head of a line in text order.
func (l *TextLayout) lastLogical(ln *lineInfo) int {
	last := ln.order[0]
	for _, h := range ln.order {
		last = max(last, h)
	}
	return last
}

// clusterMetrics returns the internal metrics of the cluster at head h.
func (l *TextLayout) clusterMetrics(s *shapeResult, ln *lineInfo, m *measurement, h int) HitTestMetrics {
	end := s.nextHead(h)
	return HitTestMetrics{
		TextPosition: l.runeUnit[h],
		Length:       l.runeUnit[end] - l.runeUnit[h],
		Left:         m.x[h],
		Top:          ln.top,
		Width:        m.adv[h],
		Height:       ln.height,
		BidiLevel:    l.levels[h],
		IsText:       s.clusters[h].inline == nil,
		IsTrimmed:    ln.trimmed && h >= ln.visibleEnd,
	}
}

func (l *TextLayout) caretMetrics(ln *lineInfo, r int, x float32) HitTestMetrics {
	return HitTestMetrics{
		TextPosition: l.runeUnit[min(r, len(l.runes))],
		Left:         x,
		Top:          ln.top,
		Height:       ln.height,
		IsText:       true,
	}
}

// toCaller moves internal metrics into the caller's coordinates and text
// positions.
func (l *TextLayout) toCaller(hm HitTestMetrics) HitTestMetrics {
	hm.TextPosition = max(hm.TextPosition-l.markerLen(), 0)
	hm.Left += l.indent
	return hm
}
