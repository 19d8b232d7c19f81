package radar

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/okian/matchboard/internal/domain/traits"
)

// Ring fractions drawn as the chart grid.
var gridRings = []float64{0.33, 0.66, 1}

// Default chart sizes.
const (
	DefaultSize        = 160
	DefaultOverlaySize = 200
)

type polygonStyle struct {
	gradient    string
	from, to    string
	opacity     string
	stroke      string
	strokeWidth string
}

var (
	profileStyle = polygonStyle{gradient: "userG", from: "#37b6a7", to: "#4caf50", opacity: "0.55", stroke: "#37b6a7", strokeWidth: "1.5"}
	projectStyle = polygonStyle{gradient: "projG", from: "#ffb74d", to: "#ff8a65", opacity: "0.45", stroke: "#ff8a65", strokeWidth: "1"}
)

// SVG renders a single-vector radar chart.
func SVG(v traits.Normalized, size float64, labels bool) string {
	g := GeometryForSize(size)
	var b strings.Builder
	openSVG(&b, size, profileStyle)
	grid(&b, g)
	polygon(&b, Vertices(v, g), profileStyle)
	if labels {
		axisLabels(&b, g)
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// OverlaySVG renders the profile polygon on top of the project polygon.
func OverlaySVG(profile, project traits.Normalized, size float64) string {
	g := GeometryForSize(size)
	user, proj := Overlay(profile, project, g)
	var b strings.Builder
	openSVG(&b, size, profileStyle, projectStyle)
	grid(&b, g)
	polygon(&b, proj, projectStyle)
	polygon(&b, user, profileStyle)
	axisLabels(&b, g)
	b.WriteString("</svg>\n")
	return b.String()
}

func openSVG(b *strings.Builder, size float64, styles ...polygonStyle) {
	s := num(size)
	fmt.Fprintf(b, `<svg viewBox="0 0 %s %s" width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">`+"\n", s, s, s, s)
	b.WriteString("<defs>\n")
	for _, st := range styles {
		fmt.Fprintf(b, `<linearGradient id="%s" x1="0%%" x2="100%%"><stop offset="0%%" stop-color="%s" stop-opacity="0.9"/><stop offset="100%%" stop-color="%s" stop-opacity="0.9"/></linearGradient>`+"\n",
			st.gradient, st.from, st.to)
	}
	b.WriteString("</defs>\n")
}

func grid(b *strings.Builder, g Geometry) {
	for _, f := range gridRings {
		fmt.Fprintf(b, `<polygon points="%s" fill="none" stroke="#8884" stroke-width="1"/>`+"\n", points(Ring(g, f)))
	}
	for _, p := range Ring(g, 1) {
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#8884" stroke-width="1"/>`+"\n",
			num(g.CX), num(g.CY), fixed(p.X), fixed(p.Y))
	}
}

func polygon(b *strings.Builder, pts []Point, st polygonStyle) {
	fmt.Fprintf(b, `<polygon points="%s" fill="url(#%s)" fill-opacity="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		points(pts), st.gradient, st.opacity, st.stroke, st.strokeWidth)
}

func axisLabels(b *strings.Builder, g Geometry) {
	outer := g
	outer.Radius += labelPadding
	for i, t := range traits.All() {
		p := outer.At(i, 1)
		fmt.Fprintf(b, `<text x="%s" y="%s" font-size="11" fill="#888" text-anchor="middle">%s</text>`+"\n",
			fixed(p.X), fixed(p.Y+4), html.EscapeString(t.Label()))
	}
}

func points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fixed(p.X) + "," + fixed(p.Y)
	}
	return strings.Join(parts, " ")
}

func fixed(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
