// Package pkg provides the core libraries for bintree, a binary tree
// visualizer driven by LeetCode-style level-order input.
//
// # Overview
//
// bintree turns text such as "1 2 3 N 4" into a laid-out binary tree and
// draws it as SVG, PNG, PDF, DOT, JSON or plain text. The pkg directory is
// organized into three areas:
//
//  1. Domain logic: [tree] (tokenize, build, layout, bounds)
//  2. Serialization and output: [graph], [render], [render/nodelink], [render/sink]
//  3. Infrastructure: [pipeline], [cache], [config], [errors], [observability]
//
// # Architecture
//
// The typical data flow through bintree:
//
//	level-order text
//	       ↓
//	  [tree] package (tokenize, build, layout)
//	       ↓
//	  [graph] package (serializable layout)
//	       ↓
//	  [render/sink] or [render/nodelink] (draw)
//	       ↓
//	SVG/PNG/PDF/DOT/JSON/TXT output
//
// # Quick Start
//
// Parse a tree and lay it out:
//
//	import "github.com/matzehuels/bintree/pkg/tree"
//
//	res := tree.Parse("1 2 3 N 4", tree.DefaultConfig())
//	switch {
//	case res.Failed():
//	    // errors.UserTitle(res.Err()), errors.UserMessage(res.Err())
//	case res.IsEmpty():
//	    // nothing to draw
//	default:
//	    size := tree.Bounds(res.Tree(), tree.DefaultConfig())
//	    fmt.Println(size.Width, size.Height) // 560 560
//	}
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "1 2 3",
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatText},
//	})
//
// # Main Packages
//
// [tree] - Tokenizer, level-order builder, layout engine and bounds
// calculator. This is where every coordinate comes from.
//
// [graph] - JSON layout format shared by the CLI, the API and the renderers.
//
// [render/sink] - Native SVG, PNG, PDF and text renderers.
//
// [render/nodelink] - Graphviz DOT export and Graphviz-drawn output.
//
// [pipeline] - Parse → layout → render orchestration with cache lookups.
//
// [cache] - File, bbolt, Redis and MongoDB cache backends.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Structured errors with user-facing titles and messages.
//
// [observability] - Pipeline hooks for logging.
//
// # Testing
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/tree/...   # Specific package
//	go test -run Example     # Examples only
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/tree
// [graph]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bintree/pkg/observability
package pkg
