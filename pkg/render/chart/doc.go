// Package chart draws channel allocations as standalone SVG documents.
//
// Two fixed chart kinds are supported: a pie of channel shares ([Pie]) and a
// radar of channel shares on a 0–max scale ([Radar]). Both are plain string
// builders with no layout engine behind them; convert the output to PDF or
// PNG with [render.ToPDF] and [render.ToPNG].
//
//	svg := chart.Pie(table, chart.Config{Title: "CPG / Growth"})
//
// Slices and spokes follow [allocation.Table.Entries] order, so the same
// table always produces the same document.
//
// [render.ToPDF]: github.com/matzehuels/cortex/pkg/render
// [render.ToPNG]: github.com/matzehuels/cortex/pkg/render
package chart
