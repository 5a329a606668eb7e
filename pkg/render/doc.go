// Package render turns computed layouts and allocations into documents.
//
// # Overview
//
// Rendering is split by output:
//
//   - Format conversion (SVG to PDF/PNG) lives here
//   - Mind map diagrams via Graphviz (in [nodelink] subpackage)
//   - Allocation charts, pie and radar (in [chart] subpackage)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// from librsvg. Both the mind map and chart renderers go through them.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the conversions fail with an
// [errors.ErrCodeUnsupported] error carrying install instructions.
//
// [nodelink]: github.com/matzehuels/cortex/pkg/render/nodelink
// [chart]: github.com/matzehuels/cortex/pkg/render/chart
// [errors.ErrCodeUnsupported]: github.com/matzehuels/cortex/pkg/errors
package render
