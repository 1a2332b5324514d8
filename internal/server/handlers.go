package server

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/matzehuels/chordwheel/pkg/buildinfo"
	"github.com/matzehuels/chordwheel/pkg/errors"
	chordio "github.com/matzehuels/chordwheel/pkg/io"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
	"github.com/matzehuels/chordwheel/pkg/render"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleGetRelationships(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := chordio.WriteCSV(&buf, snap.Relationships); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="relationships.csv"`)
	w.Header().Set("X-Revision", snap.Revision)
	_, _ = w.Write(buf.Bytes())
}

type saveResponse struct {
	Success       bool   `json:"success"`
	Revision      string `json:"revision"`
	Relationships int    `json:"relationships"`
	Overwritten   int    `json:"overwritten,omitempty"`
}

func (s *Server) handlePostRelationships(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	rels, err := chordio.ReadCSV(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = errors.New(errors.ErrCodeInvalidInput, "body exceeds %d bytes", tooLarge.Limit)
		}
		s.fail(w, r, err)
		return
	}
	snap, err := s.store.Save(r.Context(), rels)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := saveResponse{Success: true, Revision: snap.Revision, Relationships: len(rels)}
	// Warms the layout cache and surfaces duplicate pairs.
	if sum, err := s.runner.Summarize(r.Context(), snap.Relationships, s.pipelineOptions(s.opts.View)); err == nil {
		resp.Overwritten = sum.Overwritten
	}
	s.logger.Info("relationships saved", "revision", snap.Revision, "count", len(rels), "overwritten", resp.Overwritten)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiagram(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := viewFromQuery(r, s.opts.View)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts := s.pipelineOptions(view)
		opts.Formats = []string{format}
		if format == pipeline.FormatPNG {
			if opts.Scale, err = scaleFromQuery(r); err != nil {
				s.fail(w, r, err)
				return
			}
		}

		snap, err := s.store.Load(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		res, err := s.runner.Execute(r.Context(), snap.Relationships, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Revision", snap.Revision)
		if format == pipeline.FormatPNG {
			w.Header().Set("Content-Disposition", `attachment; filename="chord-diagram.png"`)
		}
		_, _ = w.Write(res.Artifacts[format])
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Relationships</title>
<style>body{margin:0;display:flex;justify-content:center;font-family:sans-serif}</style>
</head>
<body>
%s
<p><a href="/api/diagram.png" download>PNG</a> · <a href="/api/relationships">CSV</a></p>
</body>
</html>
`

// handleIndex embeds the SVG inline so its hover script runs.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts := s.pipelineOptions(s.opts.View)
	res, err := s.runner.Execute(r.Context(), snap.Relationships, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexHTML, res.Artifacts[pipeline.FormatSVG])
}

func (s *Server) pipelineOptions(view scene.ViewState) pipeline.Options {
	return pipeline.Options{
		Width:     view.Width,
		Height:    view.Height,
		Palette:   view.Palette,
		ColorBy:   string(view.ColorBy),
		PadAngle:  view.PadAngle,
		SurfaceID: view.SurfaceID,
		Logger:    s.logger,
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeError(w, err)
}

// viewFromQuery overrides base with the width, height and color_by query
// parameters.
func viewFromQuery(r *http.Request, base scene.ViewState) (scene.ViewState, error) {
	q := r.URL.Query()
	view := base
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &view.Width}, {"height", &view.Height}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return view, errors.New(errors.ErrCodeInvalidConfig, "%s must be a positive number, got %q", p.name, raw)
		}
		*p.dst = v
	}
	if c := q.Get("color_by"); c != "" {
		view.ColorBy = scene.ColorBy(c)
	}
	if err := view.Validate(); err != nil {
		return view, err
	}
	return view, nil
}

// scaleFromQuery reads ?scale= as a factor, or ?dpr= as a device pixel ratio
// mapped through [render.ScaleFor]. Without either it uses the pipeline
// default.
func scaleFromQuery(r *http.Request) (float64, error) {
	q := r.URL.Query()
	if raw := q.Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidConfig, "scale must be a number, got %q", raw)
		}
		if err := pipeline.ValidateScale(v); err != nil {
			return 0, err
		}
		return v, nil
	}
	if raw := q.Get("dpr"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidConfig, "dpr must be a number, got %q", raw)
		}
		return float64(render.ScaleFor(v)), nil
	}
	return pipeline.DefaultScale, nil
}
