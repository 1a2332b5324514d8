package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
	"github.com/matzehuels/chordwheel/pkg/render/chord/sink"
)

// Render generates output artifacts for sc in the requested formats. Formats
// are rendered concurrently; each owns its buffers.
func Render(ctx context.Context, sc scene.Scene, formats []string, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(formats))
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderFormat(sc, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(sc scene.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(sc, buildSVGOptions(opts)...), nil
	case FormatPNG:
		return sink.RenderPNG(sc, sink.WithScale(opts.Scale))
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Paths {
			jsonOpts = append(jsonOpts, sink.WithJSONPaths())
		}
		return sink.RenderJSON(sc, jsonOpts...)
	default:
		return nil, ValidateFormat(format)
	}
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.Static {
		out = append(out, sink.WithStatic())
	}
	return out
}
