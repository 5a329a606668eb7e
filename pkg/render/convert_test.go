package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cortex/pkg/errors"
)

func TestConvertWithoutRSVG(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if Available() {
		t.Fatal("Available() = true with empty PATH")
	}

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	_, err := ToPDF(context.Background(), svg)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("ToPDF() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
	if !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("error %q lacks install hint", err)
	}

	if _, err := ToPNG(context.Background(), svg, 2); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	pdf, err := ToPDF(context.Background(), svg)
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Errorf("ToPDF() output does not start with %%PDF")
	}
}
