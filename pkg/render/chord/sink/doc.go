// Package sink provides output format renderers for chord diagrams.
//
// # Overview
//
// A "sink" transforms a computed [scene.Scene] into a final output format:
//
//   - SVG: standalone vector graphics with hover tooltips
//   - PNG: raster export at an integer or fractional scale
//   - JSON: canonical order, arc spans and ribbon spans for external tools
//
// # SVG Output
//
// [RenderSVG] writes a document with an xmlns declaration and a view box equal
// to the surface size. Arcs, labels and ribbons are emitted in that order so
// ribbons sit on top. Ribbons carry data-source, data-target and data-value
// attributes; an embedded script drives a tooltip from them with the same
// transitions as the interaction package's state machine.
//
//	svg := sink.RenderSVG(sc, sink.WithID("chord"))
//
// An empty scene renders a centered placeholder message instead of shapes.
//
// # PNG Output
//
// [RenderPNG] rasterizes the static SVG (no script, no tooltip) and then draws
// the labels with the embedded Go fonts, rotated to match the SVG transforms.
//
//	png, err := sink.RenderPNG(sc, sink.WithScale(2))
//
// # JSON Output
//
// [RenderJSON] exports the geometry without presentation, optionally with path
// data ([WithJSONPaths]).
package sink
