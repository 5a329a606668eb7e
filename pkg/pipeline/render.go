package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/cortex/pkg/allocation"
	"github.com/matzehuels/cortex/pkg/cache"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/observability"
	"github.com/matzehuels/cortex/pkg/render/chart"
	"github.com/matzehuels/cortex/pkg/render/nodelink"
	"github.com/matzehuels/cortex/pkg/report"
)

// Render generates every artifact requested by opts.
func (r *Runner) Render(ctx context.Context, plan *report.Plan, g mindmap.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	keys := opts.ArtifactKeys()
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}

	observability.Pipeline().OnRenderStart(ctx, keys)
	start := time.Now()
	artifacts, err := r.render(ctx, plan, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, keys, time.Since(start), err)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, plan *report.Plan, g mindmap.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	mm, err := r.RenderMindmap(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	for k, v := range mm {
		artifacts[k] = v
	}

	title := fmt.Sprintf("%s / %s", plan.Selections.Vertical, plan.Selections.Objective)
	for k, v := range RenderCharts(plan.Allocation, title, opts.Charts) {
		artifacts[k] = v
	}

	for _, format := range opts.Report {
		var buf bytes.Buffer
		if err := report.Write(ctx, &buf, plan, report.Format(format)); err != nil {
			return nil, fmt.Errorf("render report %s: %w", format, err)
		}
		artifacts[ArtifactKey(KindReport, format)] = buf.Bytes()
	}
	return artifacts, nil
}

// RenderMindmap renders the mind map in the formats listed in opts.Mindmap.
func (r *Runner) RenderMindmap(ctx context.Context, g mindmap.Graph, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	artifacts := make(map[string][]byte)
	if len(opts.Mindmap) == 0 {
		return artifacts, nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Colors:   r.Catalog.Colors,
		Tooltips: opts.Tooltips,
	})

	for _, format := range opts.Mindmap {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = r.cachedRender(ctx, dot, format, 0, func() ([]byte, error) {
				return nodelink.RenderSVG(ctx, dot)
			})
		case FormatPNG:
			data, err = r.cachedRender(ctx, dot, format, opts.Scale, func() ([]byte, error) {
				return nodelink.RenderPNG(ctx, dot, opts.Scale)
			})
		case FormatPDF:
			data, err = r.cachedRender(ctx, dot, format, 0, func() ([]byte, error) {
				return nodelink.RenderPDF(ctx, dot)
			})
		case FormatJSON:
			data, err = json.MarshalIndent(g, "", "  ")
		default:
			err = ValidateMindmapFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render mindmap %s: %w", format, err)
		}
		artifacts[ArtifactKey(KindMindmap, format)] = data
	}
	return artifacts, nil
}

// MindmapCacheKey is the render cache key of a DOT document in format.
func MindmapCacheKey(dot, format string, scale float64) string {
	return cache.Key(KindMindmap, dot, format, scale)
}

// cachedRender returns the cached artifact for dot in format, rendering and
// storing it on a miss. Cache failures only log.
func (r *Runner) cachedRender(ctx context.Context, dot, format string, scale float64, render func() ([]byte, error)) ([]byte, error) {
	if r.Cache == nil {
		return render()
	}
	key := MindmapCacheKey(dot, format, scale)
	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.Logger.Warn("render cache read failed", "error", err)
	case hit:
		r.Logger.Debug("render cache hit", "format", format)
		return data, nil
	}

	data, err = render()
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		r.Logger.Warn("render cache write failed", "error", err)
	}
	return data, nil
}

// RenderCharts draws the allocation as SVG for each chart kind. Unknown
// kinds are skipped; validate them with ValidateChart first.
func RenderCharts(t allocation.Table, title string, kinds []string) map[string][]byte {
	artifacts := make(map[string][]byte, len(kinds))
	cfg := chart.Config{Title: title}
	for _, k := range kinds {
		switch chart.Kind(k) {
		case chart.KindPie:
			artifacts[ArtifactKey(k, FormatSVG)] = []byte(chart.Pie(t, cfg))
		case chart.KindRadar:
			artifacts[ArtifactKey(k, FormatSVG)] = []byte(chart.Radar(t, cfg))
		}
	}
	return artifacts
}
