package backend

import (
	"encoding/xml"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/svgraster/pkg/errors"
)

// maxNativeSide caps the engine canvas so absurd physical sizes cannot
// exhaust memory before the resample.
const maxNativeSide = 1 << 14

// cssDPI is the resolution SVG user units are defined against.
const cssDPI = 96

// length is an SVG length attribute such as "4in" or "1200".
type length struct {
	value float64
	unit  string
	ok    bool
}

// parseLength parses a number with an optional unit suffix.
func parseLength(s string) length {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E'
	})
	num, unit := s, ""
	if i >= 0 {
		num, unit = s[:i], strings.ToLower(strings.TrimSpace(s[i:]))
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v <= 0 {
		return length{}
	}
	return length{value: v, unit: unit, ok: true}
}

// pixels converts l to device pixels at dpi. Percentages and unknown units
// do not resolve.
func (l length) pixels(dpi int) (float64, bool) {
	if !l.ok {
		return 0, false
	}
	d := float64(dpi)
	switch l.unit {
	case "", "px":
		return l.value, true
	case "in":
		return l.value * d, true
	case "cm":
		return l.value * d / 2.54, true
	case "mm":
		return l.value * d / 25.4, true
	case "pt":
		return l.value * d / 72, true
	case "pc":
		return l.value * d / 6, true
	}
	return 0, false
}

// sizeAttr matches a width or height attribute inside a start tag.
var sizeAttr = regexp.MustCompile(`\s(width|height)\s*=\s*("[^"]*"|'[^']*')`)

// rootInfo is what the library backend needs from the <svg> element.
type rootInfo struct {
	width, height length
	viewBox       [4]float64
	hasViewBox    bool

	// byte range of the root start tag in the source
	tagStart, tagEnd int64
}

// withoutSize returns svg with the root's width and height attributes
// removed. The engine only reads plain numbers there, and the canvas size is
// decided here instead.
func (r rootInfo) withoutSize(svg string) string {
	tag := svg[r.tagStart:r.tagEnd]
	return svg[:r.tagStart] + sizeAttr.ReplaceAllString(tag, "") + svg[r.tagEnd:]
}

// parseRoot reads the document up to its root element.
func parseRoot(svg string) (rootInfo, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			return rootInfo{}, errors.New(errors.ErrCodeDecode, "no <svg> root element")
		}
		if err != nil {
			return rootInfo{}, errors.Wrap(errors.ErrCodeDecode, err, "parse svg")
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return rootInfo{}, errors.New(errors.ErrCodeDecode, "root element is <%s>, want <svg>", se.Name.Local)
		}

		info := rootInfo{tagStart: start, tagEnd: dec.InputOffset()}
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "width":
				info.width = parseLength(a.Value)
			case "height":
				info.height = parseLength(a.Value)
			case "viewBox":
				info.viewBox, info.hasViewBox = parseViewBox(a.Value)
			}
		}
		return info, nil
	}
}

func parseViewBox(s string) ([4]float64, bool) {
	var vb [4]float64
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
	if len(fields) != 4 {
		return vb, false
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return vb, false
		}
		vb[i] = v
	}
	return vb, vb[2] > 0 && vb[3] > 0
}

// canvasSize picks the engine's native canvas size at dpi: the root's
// physical size if it has one, else the viewBox, else the target size.
func (r rootInfo) canvasSize(dpi, targetW, targetH int) (int, int) {
	w := side(r.width, dpi, r.viewBox[2], r.hasViewBox, targetW)
	h := side(r.height, dpi, r.viewBox[3], r.hasViewBox, targetH)
	return w, h
}

func side(l length, dpi int, vb float64, hasViewBox bool, target int) int {
	px, ok := l.pixels(dpi)
	if !ok && hasViewBox {
		px, ok = vb, true
	}
	if !ok {
		return target
	}
	n := int(math.Round(px))
	if n < 1 || n > maxNativeSide {
		return target
	}
	return n
}

// userSize is the document's coordinate space when it has no viewBox: its
// size in CSS pixels, which are fixed at 96 per inch.
func (r rootInfo) userSize(canvasW, canvasH int) (float64, float64) {
	w, h := float64(canvasW), float64(canvasH)
	if px, ok := r.width.pixels(cssDPI); ok {
		w = px
	}
	if px, ok := r.height.pixels(cssDPI); ok {
		h = px
	}
	return w, h
}
