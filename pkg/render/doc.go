// Package render draws parsed pattern trees as diagrams.
//
// # Overview
//
// This package turns the tree form of a pattern (see [pattern.Parse]) into
// visual outputs. It provides:
//
//   - DOT generation for the pattern tree ([ToDOT])
//   - In-process SVG rendering via Graphviz ([RenderSVG])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Usage
//
// Parse a pattern, convert the trees to DOT, then render:
//
//	nodes := pattern.Parse("scale2[1 2 [3 4]*2]", pattern.Options{})
//	dot := render.ToDOT(nodes, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// For PDF or PNG output use the conversion functions:
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. Transform calls, groups, and malformed tokens each carry a distinct
// fill so the structure of a pattern is readable at a glance: a malformed
// token shows up dashed and red exactly where the compiler would skip it.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz] in-process. PDF and PNG
// conversion shell out to rsvg-convert from librsvg.
//
// [pattern.Parse]: github.com/quaverlabs/quaver/pkg/pattern
package render
