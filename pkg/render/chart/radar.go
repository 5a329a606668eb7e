package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/cortex/pkg/allocation"
)

// radarRings is the number of concentric grid polygons.
const radarRings = 4

// Radar draws the table as a filled polygon over one spoke per channel. The
// scale runs from zero to the largest share rounded up to a multiple of 10.
// Fewer than three channels cannot form a polygon and yield a placeholder.
func Radar(t allocation.Table, cfg Config) string {
	cfg = cfg.withDefaults()
	if len(t) < 3 {
		return emptySVG(cfg, "Radar chart needs at least 3 channels")
	}

	entries := t.Entries()
	scale := radarScale(entries)
	n := len(entries)

	top := 40
	r := float64(min(cfg.Width, cfg.Height-top)) / 2 * 0.7
	cx := float64(cfg.Width) / 2
	cy := float64(top) + float64(cfg.Height-top)/2

	angle := func(i int) float64 { return -90 + float64(i)*360/float64(n) }

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	background(&sb, cfg)

	for ring := 1; ring <= radarRings; ring++ {
		rr := r * float64(ring) / radarRings
		pts := make([]string, n)
		for i := range entries {
			x, y := point(cx, cy, rr, angle(i))
			pts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
		}
		fmt.Fprintf(&sb, `<polygon class="grid" points="%s" fill="none" stroke="%s"/>`, strings.Join(pts, " "), cfg.GridColor)
		fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" font-size="%d" fill="%s">%.0f%%</text>`,
			cx+3, cy-rr-2, cfg.FontSize-2, cfg.TextColor, scale*float64(ring)/radarRings)
	}

	pts := make([]string, n)
	for i, e := range entries {
		x, y := point(cx, cy, r, angle(i))
		fmt.Fprintf(&sb, `<line class="spoke" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`, cx, cy, x, y, cfg.GridColor)

		lx, ly := point(cx, cy, r+14, angle(i))
		fmt.Fprintf(&sb, `<text x="%.2f" y="%.2f" font-size="%d" fill="%s" text-anchor="%s">%s</text>`,
			lx, ly+4, cfg.FontSize, cfg.TextColor, anchor(lx, cx), escapeXML(e.Channel))

		vx, vy := point(cx, cy, r*math.Max(e.Percent, 0)/scale, angle(i))
		pts[i] = fmt.Sprintf("%.2f,%.2f", vx, vy)
	}
	color := cfg.color(0)
	fmt.Fprintf(&sb, `<polygon class="series" points="%s" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="2"/>`,
		strings.Join(pts, " "), color, color)

	sb.WriteString("</svg>")
	return sb.String()
}

// radarScale rounds the largest share up to a multiple of 10, at least 10.
func radarScale(entries []allocation.Entry) float64 {
	var hi float64
	for _, e := range entries {
		hi = math.Max(hi, e.Percent)
	}
	return math.Max(10, math.Ceil(hi/10)*10)
}

func anchor(x, cx float64) string {
	switch {
	case math.Abs(x-cx) < 1:
		return "middle"
	case x < cx:
		return "end"
	default:
		return "start"
	}
}
