package report

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cortex/pkg/render/chart"
)

// Report sheet geometry in pixels.
const (
	sheetWidth      = 900
	sheetMargin     = 40
	sheetLineHeight = 18
	sheetChartH     = 420
)

// Sheet renders the plan as a single-page SVG: the text report followed by
// a pie chart of the allocation.
func Sheet(p *Plan) (string, error) {
	text, err := Text(p)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	textH := len(lines) * sheetLineHeight
	height := sheetMargin*2 + textH + sheetChartH

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		sheetWidth, height, sheetWidth, height)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#ffffff"/>`, sheetWidth, height)

	for i, line := range lines {
		if line == "" {
			continue
		}
		y := sheetMargin + (i+1)*sheetLineHeight
		weight := "normal"
		if i == 0 {
			weight = "bold"
		}
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="monospace" font-size="13" font-weight="%s" fill="#222222" xml:space="preserve">%s</text>`,
			sheetMargin, y, weight, escapeXML(line))
	}

	pie := chart.Pie(p.Allocation, chart.Config{
		Width:  sheetWidth - 2*sheetMargin,
		Height: sheetChartH,
		Title:  fmt.Sprintf("%s / %s", p.Selections.Vertical, p.Selections.Objective),
	})
	fmt.Fprintf(&sb, `<g transform="translate(%d,%d)">%s</g>`, sheetMargin, sheetMargin+textH, pie)

	sb.WriteString("</svg>")
	return sb.String(), nil
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
