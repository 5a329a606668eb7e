package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/cortex/pkg/allocation"
)

// Pie draws the table as a pie chart with a legend on the right. Slices
// start at twelve o'clock and run clockwise in Entries order; zero shares
// get a legend row but no slice.
func Pie(t allocation.Table, cfg Config) string {
	cfg = cfg.withDefaults()
	total := t.Total()
	if len(t) == 0 || total <= 0 {
		return emptySVG(cfg, "No allocation")
	}

	top := 40
	plotH := cfg.Height - top - 20
	r := float64(min(cfg.Width*3/5, plotH)) / 2
	cx := 20 + r
	cy := float64(top) + float64(plotH)/2

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	background(&sb, cfg)

	entries := t.Entries()
	start := -90.0
	for i, e := range entries {
		if e.Percent <= 0 {
			continue
		}
		sweep := e.Percent / total * 360
		color := cfg.color(i)
		if sweep >= 359.999 {
			fmt.Fprintf(&sb, `<circle class="slice" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"><title>%s</title></circle>`,
				cx, cy, r, color, escapeXML(sliceTitle(e)))
			break
		}
		x1, y1 := point(cx, cy, r, start)
		x2, y2 := point(cx, cy, r, start+sweep)
		large := 0
		if sweep > 180 {
			large = 1
		}
		fmt.Fprintf(&sb, `<path class="slice" d="M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d,1 %.2f,%.2f Z" fill="%s" stroke="%s" stroke-width="1"><title>%s</title></path>`,
			cx, cy, x1, y1, r, r, large, x2, y2, color, cfg.BgColor, escapeXML(sliceTitle(e)))
		start += sweep
	}

	legend(&sb, cfg, entries, int(cx+r)+30, top+10)
	sb.WriteString("</svg>")
	return sb.String()
}

func legend(sb *strings.Builder, cfg Config, entries []allocation.Entry, x, y int) {
	step := cfg.FontSize + 8
	for i, e := range entries {
		ly := y + i*step
		fmt.Fprintf(sb, `<rect x="%d" y="%d" width="12" height="12" fill="%s"/>`, x, ly, cfg.color(i))
		fmt.Fprintf(sb, `<text class="legend" x="%d" y="%d" font-size="%d" fill="%s">%s</text>`,
			x+18, ly+11, cfg.FontSize, cfg.TextColor, escapeXML(sliceTitle(e)))
	}
}

func sliceTitle(e allocation.Entry) string {
	return fmt.Sprintf("%s %.1f%%", e.Channel, e.Percent)
}

// point returns the SVG coordinates at deg degrees, measured clockwise from
// the positive x axis (SVG y grows downward).
func point(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}
