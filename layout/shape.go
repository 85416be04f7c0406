package layout

import (
	"golang.org/x/text/unicode/bidi"
)

// shapedRun is a maximal run of runes with equal shaping properties and
// bidi level.
type shapedRun struct {
	start, end int
	props      *charProps
	level      uint8
	glyphs     []Glyph
}

func (r *shapedRun) rtl() bool { return r.level%2 == 1 }

// cluster describes the rune at the same index. Only cluster heads carry
// glyphs and an advance; the other runes of a cluster point at their head.
type cluster struct {
	head    int
	run     int
	g0, g1  int
	advance float32
	inline  InlineObject
}

type shapeResult struct {
	runs     []shapedRun
	clusters []cluster
	missing  int
}

// bidiLevels resolves the embedding level of every rune. Text without
// right-to-left characters skips the bidi algorithm.
func bidiLevels(text []rune) ([]uint8, bool) {
	levels := make([]uint8, len(text))
	if !hasRTL(text) {
		return levels, false
	}
	var p bidi.Paragraph
	if _, err := p.SetString(string(text), bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return levels, false
	}
	order, err := p.Order()
	if err != nil {
		return levels, false
	}
	baseRTL := firstStrongRTL(text)
	for i := 0; i < order.NumRuns(); i++ {
		run := order.Run(i)
		start, end := run.Pos()
		var lvl uint8
		switch {
		case run.Direction() == bidi.RightToLeft:
			lvl = 1
		case baseRTL:
			lvl = 2
		}
		for j := start; j <= end && j < len(levels); j++ {
			levels[j] = lvl
		}
	}
	return levels, baseRTL
}

func hasRTL(text []rune) bool {
	for _, r := range text {
		switch props, _ := bidi.LookupRune(r); props.Class() {
		case bidi.R, bidi.AL, bidi.AN, bidi.RLE, bidi.RLO, bidi.RLI:
			return true
		}
	}
	return false
}

func firstStrongRTL(text []rune) bool {
	for _, r := range text {
		switch props, _ := bidi.LookupRune(r); props.Class() {
		case bidi.L:
			return false
		case bidi.R, bidi.AL:
			return true
		}
	}
	return false
}

// ensureShaped shapes the text if a style change invalidated the glyphs.
func (l *TextLayout) ensureShaped() *shapeResult {
	if l.shaped != nil {
		return l.shaped
	}
	res := &shapeResult{clusters: make([]cluster, len(l.runes))}
	for i := range res.clusters {
		res.clusters[i].head = -1
	}

	for _, span := range l.itemize() {
		ri := len(res.runs)
		props := l.props[span.start]
		run := shapedRun{start: span.start, end: span.end, props: props, level: l.levels[span.start]}
		run.glyphs = l.engine.shaper.Shape(ShapeRequest{
			Text:    l.runes,
			Start:   span.start,
			End:     span.end,
			Face:    props.face,
			Size:    props.size,
			RTL:     run.rtl(),
			Kerning: props.kerning,
		})
		res.runs = append(res.runs, run)

		for g := 0; g < len(run.glyphs); {
			c := run.glyphs[g].Cluster
			h := g
			var adv float32
			for g < len(run.glyphs) && run.glyphs[g].Cluster == c {
				adv += run.glyphs[g].Advance
				if run.glyphs[g].ID == 0 && !isControl(l.runes[c]) {
					res.missing++
				}
				g++
			}
			if c < span.start || c >= span.end || res.clusters[c].head == c {
				continue
			}
			res.clusters[c] = cluster{head: c, run: ri, g0: h, g1: g, advance: adv}
		}
		for i := span.start; i < span.end; i++ {
			if res.clusters[i].head >= 0 {
				continue
			}
			if i == span.start {
				res.clusters[i] = cluster{head: i, run: ri}
				continue
			}
			res.clusters[i] = cluster{head: res.clusters[i-1].head, run: ri}
		}
	}

	for _, s := range l.inlines {
		if s.start >= len(l.runes) {
			continue
		}
		end := min(s.end, len(l.runes))
		head := &res.clusters[s.start]
		head.head = s.start
		head.g0, head.g1 = 0, 0
		head.advance = s.obj.Metrics().Width
		head.inline = s.obj
		for i := s.start + 1; i < end; i++ {
			res.clusters[i] = cluster{head: s.start, run: res.clusters[i].run}
		}
	}

	if res.missing > 0 {
		l.engine.logger.Debug("layout: missing glyphs", "count", res.missing)
	}
	l.shaped = res
	return res
}

type textSpan struct{ start, end int }

// itemize splits the text into shaping runs. Runs break where shaping
// properties or bidi levels change and around inline objects.
func (l *TextLayout) itemize() []textSpan {
	n := len(l.runes)
	if n == 0 {
		return nil
	}
	cuts := make([]bool, n+1)
	for _, s := range l.inlines {
		if s.start < n {
			cuts[s.start] = true
		}
		if s.end < n {
			cuts[s.end] = true
		}
	}
	var spans []textSpan
	start := 0
	for i := 1; i < n; i++ {
		if cuts[i] || l.levels[i] != l.levels[i-1] || !l.props[i].sameShaping(l.props[i-1]) {
			spans = append(spans, textSpan{start, i})
			start = i
		}
	}
	return append(spans, textSpan{start, n})
}

// isHead reports whether rune i starts a cluster.
func (s *shapeResult) isHead(i int) bool { return s.clusters[i].head == i }

// nextHead returns the index of the cluster head following the cluster
// that contains rune i, or n at the end of the text.
func (s *shapeResult) nextHead(i int) int {
	h := s.clusters[i].head
	for i++; i < len(s.clusters); i++ {
		if s.clusters[i].head != h {
			return i
		}
	}
	return len(s.clusters)
}
