// Package pkg provides the core libraries for the Quaver pattern compiler.
//
// # Overview
//
// Quaver compiles a compact step-sequence notation into flat runs of notes
// and rests. The pkg directory is organized into five main areas:
//
//  1. [pattern] - The grammar: tokenizer, token classification, compiler, trees
//  2. [seq] - Step sequences and utilities (stringify, normalize, random)
//  3. [seq/transform] - The transform registry and engine
//  4. [render] - Pattern tree diagrams (DOT, SVG, PNG, PDF)
//  5. [pipeline] - Orchestration (compile → render) with caching
//
// Supporting packages: [cache] (file, memory, Redis, null backends),
// [errors] (structured error codes), [observability] (instrumentation
// hooks), [buildinfo] (version metadata).
//
// # Architecture
//
// The typical data flow through Quaver:
//
//	"1 2 scale2[3 4] [5 -]*2"
//	         ↓
//	    [pattern] package (tokenize + classify + expand)
//	         ↓
//	    [seq/transform] package (scramble, invert, mirror, ...)
//	         ↓
//	    [seq] package (flat step sequence)
//	         ↓
//	    [render] package (tree diagrams)
//
// # Quick Start
//
// Compile a pattern and print the result:
//
//	import (
//	    "fmt"
//	    "github.com/quaverlabs/quaver/pkg/pattern"
//	    "github.com/quaverlabs/quaver/pkg/seq"
//	)
//
//	steps := pattern.Compile("1 2 [3 4]*2", pattern.Options{})
//	fmt.Println(seq.Stringify(steps)) // "1 2 3 4 3 4"
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Pattern: "mirror[1 2 3]",
//	    Formats: []string{"svg"},
//	})
//
// [pattern]: github.com/quaverlabs/quaver/pkg/pattern
// [seq]: github.com/quaverlabs/quaver/pkg/seq
// [seq/transform]: github.com/quaverlabs/quaver/pkg/seq/transform
// [render]: github.com/quaverlabs/quaver/pkg/render
// [pipeline]: github.com/quaverlabs/quaver/pkg/pipeline
// [cache]: github.com/quaverlabs/quaver/pkg/cache
// [errors]: github.com/quaverlabs/quaver/pkg/errors
// [observability]: github.com/quaverlabs/quaver/pkg/observability
// [buildinfo]: github.com/quaverlabs/quaver/pkg/buildinfo
package pkg
