package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/chordwheel/pkg/fonts"
	"github.com/matzehuels/chordwheel/pkg/render/chord/interaction"
	"github.com/matzehuels/chordwheel/pkg/render/chord/scene"
	"github.com/matzehuels/chordwheel/pkg/render/chord/styles"
)

// LabelFontSize is the label size in surface units.
const LabelFontSize = 11.0

// EmptyText is drawn on scenes without relationships.
const EmptyText = "No relationships to display"

const ribbonInteractionCSS = `
    .ribbon { cursor: pointer; transition: opacity 0.2s ease; }
    .ribbon:hover { opacity: 1; }
    .chord-tooltip { pointer-events: none; }
    .chord-tooltip rect { fill: #374151; rx: 4; }
    .chord-tooltip text { fill: #ffffff; font-size: 12px; }`

// The tooltip offset mirrors interaction.OffsetX and interaction.OffsetY.
const ribbonInteractionJS = `
    (function() {
      const svg = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg');
      const tip = svg.querySelector('.chord-tooltip');
      const line1 = tip.querySelector('.tt-link');
      const line2 = tip.querySelector('.tt-value');
      const box = tip.querySelector('rect');
      let hovered = null;
      function place(ev) {
        const p = svg.createSVGPoint();
        p.x = ev.clientX; p.y = ev.clientY;
        const q = p.matrixTransform(svg.getScreenCTM().inverse());
        tip.setAttribute('transform', 'translate(' + (q.x + %g) + ',' + (q.y + %g) + ')');
      }
      svg.querySelectorAll('.ribbon').forEach(el => {
        el.addEventListener('mouseenter', ev => {
          hovered = el;
          line1.textContent = el.dataset.source + ' → ' + el.dataset.target;
          line2.textContent = 'Value: ' + el.dataset.value;
          const bb = tip.querySelector('text').getBBox();
          box.setAttribute('x', bb.x - 6); box.setAttribute('y', bb.y - 4);
          box.setAttribute('width', bb.width + 12); box.setAttribute('height', bb.height + 8);
          tip.setAttribute('visibility', 'visible');
          place(ev);
        });
        el.addEventListener('mousemove', ev => { if (hovered === el) place(ev); });
        el.addEventListener('mouseleave', () => {
          if (hovered !== el) return;
          hovered = null;
          tip.setAttribute('visibility', 'hidden');
        });
      });
    })();`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	id         string
	static     bool
	background string
}

// WithID sets the id attribute of the root element, overriding the scene's
// surface id.
func WithID(id string) SVGOption { return func(r *svgRenderer) { r.id = id } }

// WithStatic omits the hover CSS, script and tooltip.
func WithStatic() SVGOption { return func(r *svgRenderer) { r.static = true } }

// WithBackground fills the surface with c before drawing. Empty means
// transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

func newSVGRenderer(sc scene.Scene, opts ...SVGOption) svgRenderer {
	r := svgRenderer{id: sc.View.SurfaceID}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders sc as a standalone SVG document.
func RenderSVG(sc scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(sc, opts...)
	w, h := sc.View.Width, sc.View.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%g" height="%g" preserveAspectRatio="xMidYMid meet"`,
		sc.ViewBox(), w, h)
	if r.id != "" {
		fmt.Fprintf(&buf, ` id="%s"`, styles.EscapeXML(r.id))
	}
	buf.WriteString(">\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%g" height="%g" fill="%s"/>`+"\n", w, h, styles.EscapeXML(r.background))
	}

	if sc.Empty() {
		fmt.Fprintf(&buf, `  <text class="chord-empty" x="%g" y="%g" text-anchor="middle" font-family="%s" font-size="14" fill="#6b7280">%s</text>`+"\n",
			sc.CX, sc.CY, fonts.FallbackFontFamily, EmptyText)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	renderArcs(&buf, sc)
	renderLabels(&buf, sc)
	renderRibbons(&buf, sc)

	if !r.static {
		renderInteraction(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderArcs(buf *bytes.Buffer, sc scene.Scene) {
	buf.WriteString(`  <g class="arcs">` + "\n")
	for _, a := range sc.Arcs {
		fmt.Fprintf(buf, `    <path class="arc" data-index="%d" data-label="%s" data-category="%s" d="%s" fill="%s" stroke="%s"><title>%s</title></path>`+"\n",
			a.Index, styles.EscapeXML(a.Label), a.Category, a.Path, styles.EscapeXML(a.Fill), styles.EscapeXML(a.Stroke), styles.EscapeXML(a.Label))
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, sc scene.Scene) {
	fmt.Fprintf(buf, `  <g class="labels" transform="translate(%g,%g)" font-family="%s" font-size="%g">`+"\n",
		sc.CX, sc.CY, fonts.FallbackFontFamily, LabelFontSize)
	for _, l := range sc.Labels {
		fmt.Fprintf(buf, `    <text class="label" dy=".35em" transform="%s" text-anchor="%s" font-weight="%s" fill="%s">%s</text>`+"\n",
			l.Transform, l.Anchor, l.Weight, styles.EscapeXML(l.Fill), styles.EscapeXML(l.Text))
	}
	buf.WriteString("  </g>\n")
}

func renderRibbons(buf *bytes.Buffer, sc scene.Scene) {
	buf.WriteString(`  <g class="ribbons">` + "\n")
	for _, rb := range sc.Ribbons {
		fmt.Fprintf(buf, `    <path class="ribbon" data-source="%s" data-target="%s" data-value="%s" d="%s" fill="%s" stroke="%s" opacity="%g"/>`+"\n",
			styles.EscapeXML(rb.SourceLabel), styles.EscapeXML(rb.TargetLabel), interaction.FormatValue(rb.Value),
			rb.Path, styles.EscapeXML(rb.Fill), styles.EscapeXML(rb.Stroke), rb.Opacity)
	}
	buf.WriteString("  </g>\n")
}

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", ribbonInteractionCSS)
	fmt.Fprintf(buf, `  <g class="chord-tooltip" visibility="hidden" font-family="%s"><rect/><text><tspan class="tt-link" x="0" dy="0"/><tspan class="tt-value" x="0" dy="1.2em"/></text></g>`+"\n",
		fonts.FallbackFontFamily)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n",
		fmt.Sprintf(ribbonInteractionJS, interaction.OffsetX, interaction.OffsetY))
}
