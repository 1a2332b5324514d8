// Package render provides visualization rendering for relationship sets.
//
// # Overview
//
// This package holds the format conversion shared by every renderer. The
// chord diagram itself lives in the [chord] subpackages:
//
//   - [chord/layout]: arc and ribbon angles (pure, deterministic)
//   - [chord/styles]: palette, stroke colors, label styling
//   - [chord/scene]: drawable shapes, view state, drawing surface
//   - [chord/interaction]: hover state machine and tooltip text
//   - [chord/sink]: output formats (SVG, PNG, JSON)
//
// # Format Conversion
//
// [ToPNG] rasterizes any standalone SVG in-process with oksvg and rasterx.
// The output is exactly ceil(W·scale)×ceil(H·scale) pixels, where W×H comes
// from the view box (see [Dimensions]), on an opaque white background.
//
//	svg := sink.RenderSVG(sc)
//	png, err := render.ToPNG(svg, float64(render.ScaleFor(2)))
//
// Documents without a namespace are fixed up with [EnsureNamespace] before
// decoding. Failures to parse the document or determine its size return an
// error with code EXPORT_DECODE rather than a blank image.
//
// The vector decoder does not draw text. The chord PNG sink overlays labels
// itself; see [chord/sink.RenderPNG].
//
// [chord]: github.com/matzehuels/chordwheel/pkg/render/chord
// [chord/layout]: github.com/matzehuels/chordwheel/pkg/render/chord/layout
// [chord/styles]: github.com/matzehuels/chordwheel/pkg/render/chord/styles
// [chord/scene]: github.com/matzehuels/chordwheel/pkg/render/chord/scene
// [chord/interaction]: github.com/matzehuels/chordwheel/pkg/render/chord/interaction
// [chord/sink]: github.com/matzehuels/chordwheel/pkg/render/chord/sink
// [chord/sink.RenderPNG]: github.com/matzehuels/chordwheel/pkg/render/chord/sink#RenderPNG
package render
