package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/quaverlabs/quaver/pkg/pattern"
)

// Options configures pattern tree rendering.
type Options struct {
	// Detailed includes the token kind and raw text in node labels.
	// When false, only the short label is shown.
	Detailed bool
}

// ToDOT converts parsed pattern trees to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG] and converted onward with
// [ToPDF] or [ToPNG].
//
// Top-level tokens hang off a synthetic root so a multi-token pattern stays
// one connected diagram. Malformed tokens are rendered with dashed red
// outlines to show what compilation would skip.
func ToDOT(nodes []*pattern.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	buf.WriteString("  \"root\" [label=\"pattern\", fillcolor=lightyellow];\n")

	w := dotWriter{buf: &buf, opts: opts}
	for _, n := range nodes {
		w.emit("root", n)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *dotWriter) emit(parent string, n *pattern.Node) {
	id := "n" + strconv.Itoa(w.next)
	w.next++

	label := fmtLabel(n, w.opts.Detailed)
	attrs := fmtAttrs(n.Token, label)
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	fmt.Fprintf(w.buf, "  %q -> %q;\n", parent, id)

	for _, c := range n.Children {
		w.emit(id, c)
	}
}

func fmtLabel(n *pattern.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	return n.Label() + "\n" + n.Token.Kind.String() + ": " + n.Token.Text
}

func fmtAttrs(tok pattern.Token, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch tok.Kind {
	case pattern.KindMalformed:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=mistyrose", "color=red")
	case pattern.KindTransform:
		attrs = append(attrs, "fillcolor=lightblue")
	case pattern.KindGroup, pattern.KindGroupRepeat:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz. The SVG bytes are
// ready for display or for conversion with [ToPDF] or [ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
