// Package pkg provides the core libraries for chordwheel chord diagrams.
//
// # Overview
//
// Chordwheel turns a list of weighted source → target relationships into a
// chord diagram: every entity is an arc on a circle, every nonzero flow a
// ribbon between two arcs. The pkg directory is organized into three areas:
//
//  1. Domain: [relation], [entity], [matrix] and [render]
//  2. Orchestration: [pipeline] (canonicalize → layout → render, cached)
//  3. Infrastructure: [io], [cache], [dataset], [config], [observability],
//     [errors] and [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / YAML file
//	         ↓
//	    [io] package (decode + validate relationships)
//	         ↓
//	    [entity] package (classify labels, canonical order)
//	         ↓
//	    [matrix] package (square flow matrix, last write wins)
//	         ↓
//	    [render] packages (layout → scene → SVG/PNG/JSON)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/chordwheel/pkg/io"
//	    "github.com/matzehuels/chordwheel/pkg/render/chord/scene"
//	    "github.com/matzehuels/chordwheel/pkg/render/chord/sink"
//	)
//
//	rels, _ := io.Import("relationships.csv")
//	sc := scene.Build(rels, scene.DefaultViewState())
//	svg := sink.RenderSVG(sc)
//	png, _ := sink.RenderPNG(sc, sink.WithScale(2))
//
// For caching and observability hooks, use [pipeline.Runner] instead.
//
// [relation]: github.com/matzehuels/chordwheel/pkg/relation
// [entity]: github.com/matzehuels/chordwheel/pkg/entity
// [matrix]: github.com/matzehuels/chordwheel/pkg/matrix
// [render]: github.com/matzehuels/chordwheel/pkg/render
// [pipeline]: github.com/matzehuels/chordwheel/pkg/pipeline
// [pipeline.Runner]: github.com/matzehuels/chordwheel/pkg/pipeline#Runner
// [io]: github.com/matzehuels/chordwheel/pkg/io
// [cache]: github.com/matzehuels/chordwheel/pkg/cache
// [dataset]: github.com/matzehuels/chordwheel/pkg/dataset
// [config]: github.com/matzehuels/chordwheel/pkg/config
// [observability]: github.com/matzehuels/chordwheel/pkg/observability
// [errors]: github.com/matzehuels/chordwheel/pkg/errors
// [buildinfo]: github.com/matzehuels/chordwheel/pkg/buildinfo
package pkg
