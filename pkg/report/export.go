package report

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/render"
)

// Format is an export format for plans.
type Format string

// Supported export formats.
const (
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
)

// ValidFormats lists the accepted export formats.
var ValidFormats = map[Format]bool{
	FormatText: true,
	FormatJSON: true,
	FormatYAML: true,
	FormatSVG:  true,
	FormatPDF:  true,
}

// ParseFormat maps a format name (case-insensitive, "text" and "yml"
// accepted as aliases) to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "text":
		f = FormatText
	case "yml":
		f = FormatYAML
	}
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported report format %q", s)
	}
	return f, nil
}

// Write encodes the plan to w in the given format.
func Write(ctx context.Context, w io.Writer, p *Plan, f Format) error {
	switch f {
	case FormatText:
		text, err := Text(p)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return enc.Close()
	case FormatSVG:
		sheet, err := Sheet(p)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, sheet)
		return err
	case FormatPDF:
		sheet, err := Sheet(p)
		if err != nil {
			return err
		}
		pdf, err := render.ToPDF(ctx, []byte(sheet))
		if err != nil {
			return err
		}
		_, err = w.Write(pdf)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported report format %q", f)
	}
}
