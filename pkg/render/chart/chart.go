package chart

import (
	"fmt"
	"strings"
)

// Kind names a chart type.
type Kind string

// Supported chart kinds.
const (
	KindPie   Kind = "pie"
	KindRadar Kind = "radar"
)

// ValidKinds lists the chart kinds accepted on the command line.
var ValidKinds = map[Kind]bool{KindPie: true, KindRadar: true}

// Config holds rendering parameters for charts.
type Config struct {
	Width     int    // SVG width in pixels (default: 640)
	Height    int    // SVG height in pixels (default: 420)
	BgColor   string // background color (default: "#ffffff")
	GridColor string // radar grid color (default: "#e0e0e0")
	TextColor string // label color (default: "#333333")
	FontSize  int    // label font size (default: 12)
	Title     string
	Palette   []string // slice/series colors, cycled
}

// DefaultPalette is used when Config.Palette is empty.
var DefaultPalette = []string{
	"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0",
	"#00bcd4", "#8bc34a", "#ffc107", "#795548", "#607d8b",
}

// DefaultConfig returns the standard chart size and colors.
func DefaultConfig() Config {
	return Config{
		Width:     640,
		Height:    420,
		BgColor:   "#ffffff",
		GridColor: "#e0e0e0",
		TextColor: "#333333",
		FontSize:  12,
		Palette:   DefaultPalette,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.BgColor == "" {
		c.BgColor = d.BgColor
	}
	if c.GridColor == "" {
		c.GridColor = d.GridColor
	}
	if c.TextColor == "" {
		c.TextColor = d.TextColor
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	if len(c.Palette) == 0 {
		c.Palette = d.Palette
	}
	return c
}

func (c Config) color(i int) string {
	return c.Palette[i%len(c.Palette)]
}

func svgHeader(cfg Config) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func background(sb *strings.Builder, cfg Config) {
	fmt.Fprintf(sb, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`, cfg.Width, cfg.Height, cfg.BgColor)
	if cfg.Title != "" {
		fmt.Fprintf(sb, `<text x="%d" y="24" font-size="%d" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
			cfg.Width/2, cfg.FontSize+4, cfg.TextColor, escapeXML(cfg.Title))
	}
}

func emptySVG(cfg Config, msg string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
